package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, ErrInternal.Message, appErr.Message)
}

func TestCloneMatchesSentinel(t *testing.T) {
	clone := Clone(ErrValidation, "invalid courseId parameter")
	assert.ErrorIs(t, clone, ErrValidation)
	assert.NotErrorIs(t, clone, ErrNotFound)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestDataStoreKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := DataStore(cause, "failed to load risk report")
	assert.ErrorIs(t, appErr, ErrDataStore)
	assert.ErrorIs(t, appErr, cause)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Contains(t, appErr.Error(), "connection refused")
}
