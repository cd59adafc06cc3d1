package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrBusinessProfileNotFound.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, ErrNotProfileOwner.HTTPStatus())
	assert.Equal(t, http.StatusConflict, ErrUserAlreadyMember.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrInvalidRole.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrInvitationAlreadyAccepted.HTTPStatus())
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("accept invitation: %w", ErrInvitationAlreadyAccepted)

	assert.True(t, errors.Is(wrapped, ErrInvitationAlreadyAccepted))
	assert.False(t, errors.Is(wrapped, ErrInvitationAlreadyDeclined))
}
