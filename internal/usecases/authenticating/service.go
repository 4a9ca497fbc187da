// Package authenticating implementa o login do operador do painel.
// Existe uma única conta, definida por configuração, e o acesso é feito por JWT.
package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/internal/config"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
	"github.com/vfg2006/client-manager-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

const tokenIDSize = 12

type Authenticator interface {
	Login(email, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	email        string
	passwordHash string
	secret       []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

func NewService(cfg config.Auth) *Service {
	if cfg.PasswordHash == "" {
		logrus.Warn("AUTH_PASSWORD_HASH não configurado; login desabilitado")
	}

	return &Service{
		email:        handleEmail(cfg.Email),
		passwordHash: cfg.PasswordHash,
		secret:       []byte(cfg.Secret),
		tokenTTL:     cfg.TokenTTL,
		now:          time.Now,
	}
}

func handleEmail(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "")
}

func (s *Service) Login(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	if s.passwordHash == "" {
		return "", NewAuthError(ErrLoginDisabled, apiErrors.ErrInvalidCredentials, "")
	}

	if handleEmail(email) != s.email {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Usuário não encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Senha incorreta")
	}

	token, err := s.generateJWT()
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return token, nil
}

func (s *Service) generateJWT() (string, error) {
	tokenID, err := utils.GenerateID(tokenIDSize)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := domain.Claims{
		UserEmail: s.email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   s.email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
