package binary

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWidthRoundTrip(t *testing.T) {
	key := make(ed25519.PublicKey, ed25519.PublicKeySize)
	for i := range key {
		key[i] = byte(i)
	}

	buf := make([]byte, 1+32+8+4+1)

	var offset int
	PutBool(buf[offset:], true, &offset)
	PutKey32(buf[offset:], key, &offset)
	PutUint64(buf[offset:], 1_000_000_000_000, &offset)
	PutUint32(buf[offset:], 42, &offset)
	PutUint8(buf[offset:], 7, &offset)
	require.Equal(t, len(buf), offset)

	var flag bool
	var actualKey ed25519.PublicKey
	var u64 uint64
	var u32 uint32
	var u8 uint8

	offset = 0
	require.True(t, GetBool(buf[offset:], &flag, &offset))
	GetKey32(buf[offset:], &actualKey, &offset)
	GetUint64(buf[offset:], &u64, &offset)
	GetUint32(buf[offset:], &u32, &offset)
	GetUint8(buf[offset:], &u8, &offset)

	assert.True(t, flag)
	assert.Equal(t, key, actualKey)
	assert.EqualValues(t, 1_000_000_000_000, u64)
	assert.EqualValues(t, 42, u32)
	assert.EqualValues(t, 7, u8)
	assert.Equal(t, len(buf), offset)
}

func TestGetBool_Strict(t *testing.T) {
	var flag bool
	var offset int

	assert.True(t, GetBool([]byte{0}, &flag, &offset))
	assert.False(t, flag)
	assert.Equal(t, 1, offset)

	for _, v := range []byte{2, 0x7f, 0xff} {
		offset = 0
		assert.False(t, GetBool([]byte{v}, &flag, &offset))
		assert.Equal(t, 0, offset)
	}
}
