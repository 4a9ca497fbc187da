package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/client-manager-api/internal/api/handler/router"
	"github.com/vfg2006/client-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/client-manager-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *mocks.MockAuthenticator)
		wantStatus int
		wantCode   string
	}{
		{
			name: "sucesso",
			body: `{"email":"admin@example.com","password":"segredo"}`,
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().Login("admin@example.com", "segredo").Return("token-jwt", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "corpo inválido",
			body:       `not-json`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name: "credenciais inválidas",
			body: `{"email":"admin@example.com","password":"errada"}`,
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().
					Login("admin@example.com", "errada").
					Return("", authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Senha incorreta"))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidCredentials,
		},
		{
			name: "dados ausentes",
			body: `{"email":""}`,
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().
					Login("", "").
					Return("", authenticating.NewAuthError(authenticating.ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, ""))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			if tt.setup != nil {
				tt.setup(auth)
			}

			h := router.New(router.WithRoutes(Authentication(auth)...))
			rec := serve(h, http.MethodPost, "/v1/login", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
				return
			}

			var body LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "token-jwt", body.Token)
		})
	}
}
