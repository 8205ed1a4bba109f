package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagsInitialState(t *testing.T) {
	assert := assert.New(t)
	f := newFlags()

	assert.True(f.isIdle())
	assert.False(f.isShouldClose())
	assert.False(f.isClosed())
}

func TestFlagsSetShouldCloseOnce(t *testing.T) {
	assert := assert.New(t)
	f := newFlags()

	assert.True(f.setShouldClose())
	assert.False(f.setShouldClose())
	assert.True(f.isShouldClose())
}

func TestFlagsSetClosedOnce(t *testing.T) {
	assert := assert.New(t)
	f := newFlags()

	assert.True(f.setClosed())
	assert.False(f.setClosed())
	assert.True(f.isClosed())
}

func TestFlagsIdleToggle(t *testing.T) {
	assert := assert.New(t)
	f := newFlags()

	f.setIdle(false)
	assert.False(f.isIdle())

	f.setIdle(true)
	assert.True(f.isIdle())
}
