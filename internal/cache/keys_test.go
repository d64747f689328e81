package cache

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "event:ev-1", EventKey("ev-1"))
	assert.Equal(t, "events:u1", UserEventsKey("u1"))
}

func TestUserEventsPattern(t *testing.T) {
	matched, err := path.Match(UserEventsPattern(), UserEventsKey("u1"))
	assert.NoError(t, err)
	assert.True(t, matched, "pattern must cover every user list key")

	matched, err = path.Match(UserEventsPattern(), EventKey("ev-1"))
	assert.NoError(t, err)
	assert.False(t, matched, "pattern must not reach single-event keys")
}
