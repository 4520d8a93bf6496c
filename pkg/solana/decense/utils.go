package decense

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

// getNumber reads a little endian u64 operand, failing with ErrorInvalidNumber
// if fewer than 8 bytes remain.
func getNumber(src []byte, dst *uint64, offset *int) error {
	if len(src) < *offset+8 {
		return ErrorInvalidNumber
	}

	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
	return nil
}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

func encodeKey(key ed25519.PublicKey) string {
	if len(key) == 0 {
		return "<nil>"
	}
	return base58.Encode(key)
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
