// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"errors"

	"github.com/vfg2006/client-manager-api/internal/domain"
)

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

// ErrClientAlreadyExists indica que já existe um cliente com o mesmo ID
var ErrClientAlreadyExists = errors.New("client already exists")

// ClientRepository persiste os clientes e seu histórico de vendas.
// Consultas por ID retornam (nil, nil) quando o cliente não existe.
type ClientRepository interface {
	List(ctx context.Context, page, limit int) (*domain.ClientPage, error)
	ListAll(ctx context.Context) ([]*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id string) (bool, error)
	AppendSale(ctx context.Context, id string, sale domain.Sale) (*domain.Client, error)
	Ping(ctx context.Context) error
}
