package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus int
	}{
		{code: ErrClientNotFound, wantStatus: http.StatusNotFound},
		{code: ErrClientAlreadyExists, wantStatus: http.StatusConflict},
		{code: ErrMalformedRecord, wantStatus: http.StatusBadRequest},
		{code: ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{code: ErrServiceUnavailable, wantStatus: http.StatusServiceUnavailable},
		{code: "DESCONHECIDO", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteError(rec, tt.code, "mensagem", map[string]string{"campo": "valor"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "mensagem", body.Message)
		})
	}
}
