package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/client-manager-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		method     string
		path       string
		header     string
		setup      func(m *mocks.MockAuthenticator)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "desabilitado libera tudo",
			enabled:    false,
			method:     http.MethodGet,
			path:       "/v1/clients",
			wantStatus: http.StatusOK,
		},
		{
			name:       "rota pública",
			enabled:    true,
			method:     http.MethodPost,
			path:       "/v1/login",
			wantStatus: http.StatusOK,
		},
		{
			name:       "preflight OPTIONS",
			enabled:    true,
			method:     http.MethodOptions,
			path:       "/v1/clients",
			wantStatus: http.StatusOK,
		},
		{
			name:       "sem cabeçalho",
			enabled:    true,
			method:     http.MethodGet,
			path:       "/v1/clients",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:       "sem prefixo Bearer",
			enabled:    true,
			method:     http.MethodGet,
			path:       "/v1/clients",
			header:     "abc",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:    "token expirado",
			enabled: true,
			method:  http.MethodGet,
			path:    "/v1/clients",
			header:  "Bearer velho",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().ValidateToken("velho").Return(nil, authenticating.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrExpiredToken,
		},
		{
			name:    "token inválido",
			enabled: true,
			method:  http.MethodGet,
			path:    "/v1/clients",
			header:  "Bearer lixo",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().ValidateToken("lixo").Return(nil, authenticating.ErrInvalidToken)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:    "token válido",
			enabled: true,
			method:  http.MethodGet,
			path:    "/v1/clients",
			header:  "Bearer bom",
			setup: func(m *mocks.MockAuthenticator) {
				m.EXPECT().ValidateToken("bom").Return(&domain.Claims{UserEmail: "admin@example.com"}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mocks.NewMockAuthenticator(ctrl)
			if tt.setup != nil {
				tt.setup(auth)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(auth, tt.enabled)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var body apiErrors.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
			}
		})
	}
}

func TestAuthMiddleware_StoresClaimsInContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)
	auth.EXPECT().ValidateToken("bom").Return(&domain.Claims{UserEmail: "admin@example.com"}, nil)

	var got *domain.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer bom")

	AuthMiddleware(auth, true)(next).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "admin@example.com", got.UserEmail)
}
