package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	rejected := Clone(ErrServerRejected, "Teacher not found")
	assert.True(t, stdErrors.Is(rejected, ErrServerRejected))
	assert.False(t, stdErrors.Is(rejected, ErrTransport))
	assert.Equal(t, "Teacher not found", rejected.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.Status)
}

func TestWrapUnwraps(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(cause, ErrTransport.Code, ErrTransport.Status, ErrTransport.Message)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	e := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, e.Code)
	assert.Nil(t, FromError(nil))
}
