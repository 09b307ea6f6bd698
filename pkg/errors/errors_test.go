package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeAndMatches(t *testing.T) {
	cloned := Clone(ErrValidation, "branch is unknown")
	assert.Equal(t, "branch is unknown", cloned.Message)
	assert.Equal(t, http.StatusBadRequest, cloned.Status)
	assert.ErrorIs(t, cloned, ErrValidation)
	assert.NotErrorIs(t, cloned, ErrInternal)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, "internal server error: boom", appErr.Error())

	wrapped := fmt.Errorf("load: %w", Clone(ErrRosterUnavailable, ""))
	assert.Equal(t, ErrRosterUnavailable.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, ErrRosterUnavailable.Code, ErrRosterUnavailable.Status, "roster database unreachable")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrRosterUnavailable)
}
