package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachoscope/tachoscope-backend/pkg/errors"
	"github.com/tachoscope/tachoscope-backend/pkg/i18n"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.AppError
		sentinel error
		status   int
		code     string
	}{
		{"bad request", errors.BadRequest("from must be YYYY-MM-DD"), errors.ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid json", errors.InvalidJSON(), errors.ErrBadRequest, http.StatusBadRequest, "INVALID_JSON"},
		{"validation", errors.Validation(map[string]string{"cards": "required"}), errors.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"too large", errors.PayloadTooLarge(1024), errors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"unprocessable", errors.UnprocessableCard(fmt.Errorf("bad bytes")), errors.ErrUnprocessableCard, http.StatusUnprocessableEntity, "UNPROCESSABLE_CARD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestAs_WrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("analyze: %w", errors.BadRequest("to must be YYYY-MM-DD"))

	var appErr *errors.AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "to must be YYYY-MM-DD", appErr.Message)
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	err := errors.UnprocessableCard(stderrors.New("unexpected end of JSON input"))

	assert.Contains(t, err.Error(), "card data could not be processed: ")
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
	assert.True(t, errors.Is(err, errors.ErrUnprocessableCard))
}

func TestAppError_Localize(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), i18n.LocaleFrench)

	assert.Equal(t, "corps JSON invalide", errors.InvalidJSON().Localize(ctx))
	assert.Equal(t, "les données de la carte n'ont pas pu être traitées", errors.UnprocessableCard(fmt.Errorf("x")).Localize(ctx))
	// custom messages are not translated
	assert.Equal(t, "from must be YYYY-MM-DD", errors.BadRequest("from must be YYYY-MM-DD").Localize(ctx))
}
