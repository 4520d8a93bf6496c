// Package shortvec implements the compact-u16 length prefix used by the
// transaction wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

const maxEncodedLen = 3

var (
	ErrLenOutOfRange = errors.New("shortvec len out of range")
	ErrTooLong       = errors.New("shortvec encoding exceeds 3 bytes")
	ErrNonCanonical  = errors.New("shortvec encoding is not canonical")
)

// EncodeLen writes len to w as 1-3 bytes of 7 bit groups, least significant
// group first, with the high bit set on every byte but the last.
func EncodeLen(w io.Writer, len int) (n int, err error) {
	if len < 0 || len > math.MaxUint16 {
		return 0, errors.Wrapf(ErrLenOutOfRange, "len %d", len)
	}

	var buf [maxEncodedLen]byte
	var size int
	for {
		buf[size] = byte(len & 0x7f)
		len >>= 7
		if len == 0 {
			size++
			break
		}
		buf[size] |= 0x80
		size++
	}

	return w.Write(buf[:size])
}

// DecodeLen reads a length written by EncodeLen. Encodings that are longer
// than necessary or that exceed math.MaxUint16 are rejected.
func DecodeLen(r io.Reader) (int, error) {
	var val int
	var b [1]byte

	for i := 0; i < maxEncodedLen; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			if i > 0 && err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}

		val |= int(b[0]&0x7f) << (7 * i)

		if b[0]&0x80 != 0 {
			continue
		}

		if i > 0 && b[0] == 0 {
			return 0, ErrNonCanonical
		}
		if val > math.MaxUint16 {
			return 0, errors.Wrapf(ErrLenOutOfRange, "len %d", val)
		}
		return val, nil
	}

	return 0, ErrTooLong
}
