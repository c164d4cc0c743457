package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost
	hash, err := Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, Verify("s3cret", hash))
	assert.False(t, Verify("wrong", hash))
}

func TestHashRejectsLongPassword(t *testing.T) {
	_, err := Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrTooLong)
}
