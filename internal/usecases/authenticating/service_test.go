package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/client-manager-api/internal/config"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, password string) *Service {
	t.Helper()

	hash := ""
	if password != "" {
		generated, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(generated)
	}

	return NewService(config.Auth{
		Enabled:      true,
		Secret:       "segredo-de-teste",
		Email:        "Admin@Example.com",
		PasswordHash: hash,
		TokenTTL:     time.Hour,
	})
}

func TestService_Login(t *testing.T) {
	service := newTestService(t, "senha-forte")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantCode string
	}{
		{name: "Credenciais válidas", email: " admin@example.com ", password: "senha-forte"},
		{name: "Senha incorreta", email: "admin@example.com", password: "errada", wantErr: ErrInvalidCredentials, wantCode: apiErrors.ErrInvalidCredentials},
		{name: "Email desconhecido", email: "outro@example.com", password: "senha-forte", wantErr: ErrInvalidCredentials, wantCode: apiErrors.ErrInvalidCredentials},
		{name: "Campos vazios", email: "", password: "", wantErr: ErrMissingRequiredData, wantCode: apiErrors.ErrMissingRequiredData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))

				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, tt.wantCode, authErr.Code)
				return
			}

			require.NoError(t, err)
			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "admin@example.com", claims.UserEmail)
			assert.Len(t, claims.ID, tokenIDSize)
		})
	}
}

func TestService_LoginDisabledWithoutHash(t *testing.T) {
	service := newTestService(t, "")

	_, err := service.Login("admin@example.com", "qualquer")

	assert.True(t, errors.Is(err, ErrLoginDisabled))
}

func TestService_ValidateToken(t *testing.T) {
	service := newTestService(t, "senha-forte")

	t.Run("Token expirado", func(t *testing.T) {
		issuedAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return issuedAt }

		token, err := service.Login("admin@example.com", "senha-forte")
		require.NoError(t, err)

		service.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
		_, err = service.ValidateToken(token)

		assert.True(t, errors.Is(err, ErrExpiredToken))
		service.now = time.Now
	})

	t.Run("Assinatura com outro segredo", func(t *testing.T) {
		other := newTestService(t, "senha-forte")
		other.secret = []byte("outro-segredo")

		token, err := other.Login("admin@example.com", "senha-forte")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Token malformado", func(t *testing.T) {
		_, err := service.ValidateToken("nao-e-um-jwt")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}
