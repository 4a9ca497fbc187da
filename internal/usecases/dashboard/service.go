package dashboard

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/infrastructure/repository"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/internal/usecases/statistics"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

var ErrLoadClients = errors.New("error loading clients for dashboard")

// DashboardError é um erro com contexto adicional para o painel
type DashboardError struct {
	Err     error
	Code    string
	Details string
}

func (e *DashboardError) Error() string {
	if e.Details != "" {
		return e.Err.Error() + ": " + e.Details
	}
	return e.Err.Error()
}

func (e *DashboardError) Unwrap() error {
	return e.Err
}

type DashboardService interface {
	GetDashboard(ctx context.Context) (*domain.Dashboard, error)
	GetDailySales(ctx context.Context) ([]domain.DailyTotal, error)
}

type Service struct {
	clientRepository repository.ClientRepository
}

func NewService(clientRepository repository.ClientRepository) *Service {
	return &Service{
		clientRepository: clientRepository,
	}
}

func (s *Service) loadClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clientRepository.ListAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao carregar clientes para o painel")
		return nil, &DashboardError{Err: ErrLoadClients, Code: apiErrors.ErrStorageOperation, Details: "Falha ao carregar clientes"}
	}
	return clients, nil
}

// GetDashboard monta o painel com os destaques de cada métrica e o total diário de vendas
func (s *Service) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	clients, err := s.loadClients(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		TopBySalesVolume: statistics.FindTopClientBy(clients, statistics.ByTotalSales),
		TopByAverageSale: statistics.FindTopClientBy(clients, statistics.ByAverageSaleValue),
		TopByFrequency:   statistics.FindTopClientBy(clients, statistics.ByPurchaseFrequency),
		DailySales:       statistics.GroupSalesByDay(clients),
		ClientCount:      len(clients),
	}, nil
}

func (s *Service) GetDailySales(ctx context.Context) ([]domain.DailyTotal, error) {
	clients, err := s.loadClients(ctx)
	if err != nil {
		return nil, err
	}

	return statistics.GroupSalesByDay(clients), nil
}
