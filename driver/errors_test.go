package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySchedulingErrorPoolRejected(t *testing.T) {
	assert := assert.New(t)

	wrapped := fmt.Errorf("scheduling failed: %w", ErrPoolRejected)
	classified := classifySchedulingError(wrapped)

	var noThreads *NoThreadsAvailable
	assert.True(errors.As(classified, &noThreads))
}

func TestClassifySchedulingErrorOther(t *testing.T) {
	assert := assert.New(t)

	classified := classifySchedulingError(errors.New("boom"))

	var noThreads *NoThreadsAvailable
	assert.False(errors.As(classified, &noThreads))
}

func TestClassifySchedulingErrorNil(t *testing.T) {
	assert := assert.New(t)

	classified := classifySchedulingError(nil)

	var noThreads *NoThreadsAvailable
	assert.True(errors.As(classified, &noThreads))
}

func TestAuthFatalityUnwrap(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("bad credentials")
	err := &AuthFatality{Loggable: true, Err: cause}

	assert.ErrorIs(err, cause)
}

func TestProtocolBreachUnwrap(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("malformed frame")
	err := &ProtocolBreach{Err: cause}

	assert.ErrorIs(err, cause)
}
