package manager

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", ErrNotFound("alice"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotAwaiting(wrapped))
	assert.True(t, IsNotAwaiting(notAwaitingError{name: "a"}))
	assert.True(t, IsAlreadyActive(alreadyActiveError{name: "a"}))
	assert.True(t, IsNotRecording(notRecordingError{name: "a"}))
	assert.True(t, IsInvalid(errInvalid("bad %s", "name")))
	assert.False(t, IsRejected(fmt.Errorf("disk full")))
	assert.Equal(t, "invalid command: bad name", errInvalid("bad %s", "name").Error())
}
