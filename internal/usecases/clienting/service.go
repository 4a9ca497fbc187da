package clienting

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/infrastructure/repository"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/internal/usecases/statistics"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
	"github.com/vfg2006/client-manager-api/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = math.MaxInt32
)

type ClientService interface {
	CreateClient(ctx context.Context, raw domain.RawClientRecord) (*domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	ListClients(ctx context.Context, page, limit int) (*domain.ClientPage, error)
	UpdateClient(ctx context.Context, id string, raw domain.RawClientRecord) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
	AddSale(ctx context.Context, id string, sale domain.Sale) (*domain.Client, error)
	GetClientStatistics(ctx context.Context, id string) (*domain.ClientDetail, error)
}

type Service struct {
	clientRepository repository.ClientRepository
	newID            func() string
}

func NewService(clientRepository repository.ClientRepository) *Service {
	return &Service{
		clientRepository: clientRepository,
		newID:            utils.NewClientID,
	}
}

// ValidateSale garante valor não negativo e data no formato YYYY-MM-DD
func ValidateSale(sale domain.Sale) error {
	if math.IsNaN(sale.Amount) || math.IsInf(sale.Amount, 0) || sale.Amount < 0 {
		return fmt.Errorf("%w: amount must be a non-negative number, got %v", ErrInvalidSale, sale.Amount)
	}

	if !utils.IsValidDate(sale.Date) {
		return fmt.Errorf("%w: date must use YYYY-MM-DD, got %q", ErrInvalidSale, sale.Date)
	}

	return nil
}

func (s *Service) CreateClient(ctx context.Context, raw domain.RawClientRecord) (*domain.Client, error) {
	client, err := domain.NormalizeClient(raw, s.newID)
	if err != nil {
		return nil, NewClientError(ErrMalformedRecord, apiErrors.ErrMalformedRecord, err.Error())
	}

	for i, sale := range client.Sales {
		if err := ValidateSale(sale); err != nil {
			return nil, NewClientError(ErrInvalidSale, apiErrors.ErrInvalidSale, fmt.Sprintf("venda %d: %s", i, err.Error()))
		}
	}

	created, err := s.clientRepository.Create(ctx, client)
	if err != nil {
		if errors.Is(err, repository.ErrClientAlreadyExists) {
			return nil, NewClientErrorWithID(ErrClientAlreadyExists, apiErrors.ErrClientAlreadyExists, client.ID, "Já existe um cliente com este ID")
		}
		logrus.WithError(err).WithField("client_id", client.ID).Error("Erro ao criar cliente")
		return nil, NewClientErrorWithID(ErrRepository, apiErrors.ErrStorageOperation, client.ID, "Falha ao salvar cliente")
	}

	logrus.WithField("client_id", created.ID).Info("Cliente criado")

	return created, nil
}

func (s *Service) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clientRepository.GetByID(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("client_id", id).Error("Erro ao buscar cliente")
		return nil, NewClientErrorWithID(ErrRepository, apiErrors.ErrStorageOperation, id, "Falha ao buscar cliente")
	}

	if client == nil {
		return nil, NewClientErrorWithID(ErrClientNotFound, apiErrors.ErrClientNotFound, id, "Cliente não encontrado")
	}

	return client, nil
}

func (s *Service) ListClients(ctx context.Context, page, limit int) (*domain.ClientPage, error) {
	if page < 1 {
		page = DefaultPage
	}

	if page > MaxPage {
		page = MaxPage
	}

	if limit < 1 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	result, err := s.clientRepository.List(ctx, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar clientes")
		return nil, NewClientError(ErrRepository, apiErrors.ErrStorageOperation, "Falha ao listar clientes")
	}

	return result, nil
}

// UpdateClient substitui nome, email e data de nascimento. O histórico de vendas não é alterado.
func (s *Service) UpdateClient(ctx context.Context, id string, raw domain.RawClientRecord) (*domain.Client, error) {
	raw.ID = id
	raw.Statistics = nil

	changes, err := domain.NormalizeClient(raw, func() string { return id })
	if err != nil {
		return nil, NewClientErrorWithID(ErrMalformedRecord, apiErrors.ErrMalformedRecord, id, err.Error())
	}

	updated, err := s.clientRepository.Update(ctx, changes)
	if err != nil {
		logrus.WithError(err).WithField("client_id", id).Error("Erro ao atualizar cliente")
		return nil, NewClientErrorWithID(ErrRepository, apiErrors.ErrStorageOperation, id, "Falha ao atualizar cliente")
	}

	if updated == nil {
		return nil, NewClientErrorWithID(ErrClientNotFound, apiErrors.ErrClientNotFound, id, "Cliente não encontrado")
	}

	return updated, nil
}

func (s *Service) DeleteClient(ctx context.Context, id string) error {
	deleted, err := s.clientRepository.Delete(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("client_id", id).Error("Erro ao remover cliente")
		return NewClientErrorWithID(ErrRepository, apiErrors.ErrStorageOperation, id, "Falha ao remover cliente")
	}

	if !deleted {
		return NewClientErrorWithID(ErrClientNotFound, apiErrors.ErrClientNotFound, id, "Cliente não encontrado")
	}

	logrus.WithField("client_id", id).Info("Cliente removido")

	return nil
}

func (s *Service) AddSale(ctx context.Context, id string, sale domain.Sale) (*domain.Client, error) {
	if err := ValidateSale(sale); err != nil {
		return nil, NewClientErrorWithID(ErrInvalidSale, apiErrors.ErrInvalidSale, id, err.Error())
	}

	client, err := s.clientRepository.AppendSale(ctx, id, sale)
	if err != nil {
		logrus.WithError(err).WithField("client_id", id).Error("Erro ao registrar venda")
		return nil, NewClientErrorWithID(ErrRepository, apiErrors.ErrStorageOperation, id, "Falha ao registrar venda")
	}

	if client == nil {
		return nil, NewClientErrorWithID(ErrClientNotFound, apiErrors.ErrClientNotFound, id, "Cliente não encontrado")
	}

	return client, nil
}

func (s *Service) GetClientStatistics(ctx context.Context, id string) (*domain.ClientDetail, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.ClientDetail{
		Client:     client,
		Statistics: statistics.ComputeStatistics(client),
	}, nil
}
