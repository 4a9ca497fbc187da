package statistics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/client-manager-api/internal/domain"
)

func anaAndCarlos() []*domain.Client {
	return []*domain.Client{
		{
			ID:       "ana",
			FullName: "Ana Beatriz",
			Sales: []domain.Sale{
				{Date: "2024-01-01", Amount: 150},
				{Date: "2024-01-02", Amount: 50},
			},
		},
		{
			ID:       "carlos",
			FullName: "Carlos Eduardo",
			Sales:    []domain.Sale{},
		},
	}
}

func TestComputeStatistics(t *testing.T) {
	tests := []struct {
		name   string
		client *domain.Client
		want   domain.ClientStatistics
	}{
		{
			name:   "Cliente sem vendas - todas as métricas zeradas",
			client: &domain.Client{FullName: "Carlos Eduardo"},
			want: domain.ClientStatistics{
				TotalSales:        0,
				AverageSaleValue:  0,
				PurchaseFrequency: 0,
				MissingLetter:     "B",
			},
		},
		{
			name: "Cliente com duas vendas",
			client: &domain.Client{
				FullName: "Ana Beatriz",
				Sales: []domain.Sale{
					{Date: "2024-01-01", Amount: 150},
					{Date: "2024-01-02", Amount: 50},
				},
			},
			want: domain.ClientStatistics{
				TotalSales:        200,
				AverageSaleValue:  100,
				PurchaseFrequency: 2,
				MissingLetter:     "C",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStatistics(tt.client))
		})
	}
}

func TestComputeStatistics_AverageTimesFrequencyIsTotal(t *testing.T) {
	client := &domain.Client{
		FullName: "Maria",
		Sales: []domain.Sale{
			{Date: "2024-03-01", Amount: 10.1},
			{Date: "2024-03-01", Amount: 20.2},
			{Date: "2024-03-04", Amount: 0.3},
		},
	}

	stats := ComputeStatistics(client)

	require.Equal(t, 3, stats.PurchaseFrequency)
	assert.InDelta(t, stats.TotalSales, stats.AverageSaleValue*float64(stats.PurchaseFrequency), 1e-9)
	assert.InDelta(t, 30.6, stats.TotalSales, 1e-9)
}

func TestMissingLetter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Ana Beatriz", in: "Ana Beatriz", want: "C"},
		{name: "Carlos Eduardo", in: "Carlos Eduardo", want: "B"},
		{name: "nome vazio", in: "", want: "A"},
		{name: "maiúsculas são ignoradas", in: "ABC", want: "D"},
		{name: "pangrama", in: "The quick brown fox jumps over the lazy dog", want: NoMissingLetter},
		{name: "pangrama com tabulação e pontuação", in: "abcdefghijklm\tnopqrstuvwxy-z!", want: NoMissingLetter},
		{name: "caracteres fora de a-z não contam", in: "Ábcdéfghijklmnopqrstuvwxyz", want: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingLetter(tt.in))
		})
	}
}

func TestMissingLetter_NotInName(t *testing.T) {
	names := []string{"Ana Beatriz", "Carlos Eduardo", "João da Silva", "Zuleica"}

	for _, name := range names {
		letter := MissingLetter(name)
		require.Len(t, letter, 1)
		assert.Equal(t, strings.ToUpper(letter), letter)
		assert.NotContains(t, strings.ToLower(name), strings.ToLower(letter))
	}
}

func TestGroupSalesByDay(t *testing.T) {
	t.Run("Lista vazia retorna sequência vazia", func(t *testing.T) {
		result := GroupSalesByDay(nil)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("Vendas do mesmo dia em clientes diferentes são somadas", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "a", Sales: []domain.Sale{{Date: "2024-01-01", Amount: 150}}},
			{ID: "b", Sales: []domain.Sale{{Date: "2024-01-01", Amount: 50}}},
		}

		result := GroupSalesByDay(clients)

		assert.Equal(t, []domain.DailyTotal{{Date: "2024-01-01", Total: 200}}, result)
	})

	t.Run("Saída ordenada por data", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "a", Sales: []domain.Sale{
				{Date: "2024-02-10", Amount: 1},
				{Date: "2023-12-31", Amount: 2},
			}},
			{ID: "b", Sales: []domain.Sale{
				{Date: "2024-01-05", Amount: 3},
				{Date: "2024-02-10", Amount: 4},
			}},
		}

		result := GroupSalesByDay(clients)

		assert.Equal(t, []domain.DailyTotal{
			{Date: "2023-12-31", Total: 2},
			{Date: "2024-01-05", Total: 3},
			{Date: "2024-02-10", Total: 5},
		}, result)
	})

	t.Run("Datas com barra são lidas como DD/MM/AAAA", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "a", Sales: []domain.Sale{
				{Date: "01/02/2024", Amount: 1},
				{Date: "02/01/2024", Amount: 2},
			}},
		}

		result := GroupSalesByDay(clients)

		assert.Equal(t, []domain.DailyTotal{
			{Date: "02/01/2024", Total: 2},
			{Date: "01/02/2024", Total: 1},
		}, result)
	})

	t.Run("Independente da ordem dos clientes", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "a", Sales: []domain.Sale{{Date: "2024-01-02", Amount: 10}, {Date: "2024-01-01", Amount: 5}}},
			{ID: "b", Sales: []domain.Sale{{Date: "2024-01-01", Amount: 7}}},
			{ID: "c", Sales: []domain.Sale{{Date: "2024-01-03", Amount: 1}}},
		}
		permuted := []*domain.Client{clients[2], clients[0], clients[1]}

		assert.Equal(t, GroupSalesByDay(clients), GroupSalesByDay(permuted))
	})

	t.Run("Datas em formato diferente ordenam pelo valor da data", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "a", Sales: []domain.Sale{
				{Date: "15/01/2024", Amount: 1},
				{Date: "2024-01-10", Amount: 2},
				{Date: "sem-data", Amount: 3},
				{Date: "02/02/2024", Amount: 4},
			}},
		}

		result := GroupSalesByDay(clients)

		dates := make([]string, 0, len(result))
		for _, daily := range result {
			dates = append(dates, daily.Date)
		}
		assert.Equal(t, []string{"2024-01-10", "15/01/2024", "02/02/2024", "sem-data"}, dates)
	})
}

func TestFindTopClientBy(t *testing.T) {
	t.Run("Lista vazia retorna nil para as três métricas", func(t *testing.T) {
		for _, metric := range []Metric{ByTotalSales, ByAverageSaleValue, ByPurchaseFrequency} {
			assert.Nil(t, FindTopClientBy(nil, metric))
			assert.Nil(t, FindTopClientBy([]*domain.Client{}, metric))
		}
	})

	t.Run("Empate mantém o primeiro cliente", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "first", FullName: "Primeiro", Sales: []domain.Sale{{Date: "2024-01-01", Amount: 100}}},
			{ID: "second", FullName: "Segundo", Sales: []domain.Sale{{Date: "2024-01-02", Amount: 60}, {Date: "2024-01-03", Amount: 40}}},
		}

		top := FindTopClientBy(clients, ByTotalSales)

		require.NotNil(t, top)
		assert.Equal(t, "first", top.Client.ID)
		assert.Equal(t, 100.0, top.Statistics.TotalSales)
	})

	t.Run("Cada métrica escolhe seu cliente", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "volume", FullName: "Volume", Sales: []domain.Sale{{Date: "2024-01-01", Amount: 500}, {Date: "2024-01-02", Amount: 100}}},
			{ID: "ticket", FullName: "Ticket", Sales: []domain.Sale{{Date: "2024-01-01", Amount: 400}}},
			{ID: "frequent", FullName: "Frequente", Sales: []domain.Sale{
				{Date: "2024-01-01", Amount: 10},
				{Date: "2024-01-02", Amount: 10},
				{Date: "2024-01-03", Amount: 10},
			}},
		}

		assert.Equal(t, "volume", FindTopClientBy(clients, ByTotalSales).Client.ID)
		assert.Equal(t, "ticket", FindTopClientBy(clients, ByAverageSaleValue).Client.ID)
		assert.Equal(t, "frequent", FindTopClientBy(clients, ByPurchaseFrequency).Client.ID)
	})

	t.Run("Todos zerados retorna o primeiro", func(t *testing.T) {
		clients := []*domain.Client{
			{ID: "a", FullName: "A"},
			{ID: "b", FullName: "B"},
		}

		top := FindTopClientBy(clients, ByPurchaseFrequency)

		require.NotNil(t, top)
		assert.Equal(t, "a", top.Client.ID)
	})
}

func TestEndToEnd_AnaAndCarlos(t *testing.T) {
	clients := anaAndCarlos()

	top := FindTopClientBy(clients, ByTotalSales)

	require.NotNil(t, top)
	assert.Equal(t, "Ana Beatriz", top.Client.FullName)
	assert.Equal(t, 200.0, top.Statistics.TotalSales)
	assert.Equal(t, 100.0, top.Statistics.AverageSaleValue)
	assert.Equal(t, 2, top.Statistics.PurchaseFrequency)

	carlos := ComputeStatistics(clients[1])
	assert.Equal(t, 0.0, carlos.TotalSales)
	assert.Equal(t, 0.0, carlos.AverageSaleValue)
	assert.Equal(t, 0, carlos.PurchaseFrequency)
	assert.Equal(t, MissingLetter("carloseduardo"), carlos.MissingLetter)
	assert.Equal(t, "B", carlos.MissingLetter)

	assert.Equal(t, []domain.DailyTotal{
		{Date: "2024-01-01", Total: 150},
		{Date: "2024-01-02", Total: 50},
	}, GroupSalesByDay(clients))
}
