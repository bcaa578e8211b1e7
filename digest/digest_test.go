package digest

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", SHA256("abc"))
	assert.Equal(t, SHA256("abc"), SHA256Bytes([]byte("abc")))
}

func TestUUID(t *testing.T) {
	id := UUID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.NotEqual(t, id, UUID())
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]+$`), s)

	_, err = RandomString(0)
	assert.Error(t, err)
}

func TestID(t *testing.T) {
	id, err := ID()
	require.NoError(t, err)
	assert.Len(t, id, 21)
}
