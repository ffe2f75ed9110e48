package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FEED_SYNC_TEST_VALUE", "set")

	assert.Equal(t, "set", GetEnv("FEED_SYNC_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("FEED_SYNC_TEST_MISSING", "default"))
}

func TestStringPointers(t *testing.T) {
	assert.Equal(t, "abc", *String("abc"))
	assert.Equal(t, "abc", StringValue(String("abc")))
	assert.Equal(t, "", StringValue(nil))
}
