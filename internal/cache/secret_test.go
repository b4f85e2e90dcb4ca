package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretEqual(t *testing.T) {
	assert.True(t, SecretEqual("s3cret", "s3cret"))
	assert.False(t, SecretEqual("s3cret", "s3cres"))
	assert.False(t, SecretEqual("", "s3cret"))
	assert.False(t, SecretEqual("s3cret", ""))
	assert.False(t, SecretEqual("short", "a-much-longer-secret"))
}

func TestSecretEqualLongInput(t *testing.T) {
	configured := strings.Repeat("k", 64)
	assert.True(t, SecretEqual(strings.Repeat("k", 64), configured))
	assert.False(t, SecretEqual(strings.Repeat("k", 63)+"x", configured))
	assert.False(t, SecretEqual(strings.Repeat("k", 65), configured))
}
