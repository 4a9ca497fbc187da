// Package statistics calcula as métricas derivadas dos clientes: estatísticas
// individuais, vendas agrupadas por dia e o cliente de destaque por métrica.
//
// Todas as funções são puras e podem ser chamadas concorrentemente.
package statistics

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/vfg2006/client-manager-api/internal/domain"
)

// NoMissingLetter é retornado quando o nome contém todas as letras do alfabeto
const NoMissingLetter = "-"

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Layouts aceitos para interpretar a chave de data na ordenação das vendas diárias.
// Datas com barra seguem o padrão brasileiro DD/MM/AAAA.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"02/01/2006",
}

// Metric extrai das estatísticas o valor usado na comparação entre clientes
type Metric func(domain.ClientStatistics) float64

var (
	ByTotalSales Metric = func(s domain.ClientStatistics) float64 {
		return s.TotalSales
	}

	ByAverageSaleValue Metric = func(s domain.ClientStatistics) float64 {
		return s.AverageSaleValue
	}

	ByPurchaseFrequency Metric = func(s domain.ClientStatistics) float64 {
		return float64(s.PurchaseFrequency)
	}
)

// ComputeStatistics calcula as estatísticas de um cliente a partir das suas vendas
func ComputeStatistics(client *domain.Client) domain.ClientStatistics {
	total := 0.0
	for _, sale := range client.Sales {
		total += sale.Amount
	}

	count := len(client.Sales)

	average := 0.0
	if count > 0 {
		average = total / float64(count)
	}

	return domain.ClientStatistics{
		TotalSales:        total,
		AverageSaleValue:  average,
		PurchaseFrequency: count,
		MissingLetter:     MissingLetter(client.FullName),
	}
}

// MissingLetter retorna, em maiúscula, a primeira letra de a-z que não aparece no nome.
// Espaços são ignorados e a comparação não diferencia maiúsculas de minúsculas.
func MissingLetter(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(name))

	for _, letter := range alphabet {
		if !strings.ContainsRune(stripped, letter) {
			return strings.ToUpper(string(letter))
		}
	}

	return NoMissingLetter
}

// GroupSalesByDay soma as vendas de todos os clientes por data, em ordem crescente de data.
// Duas vendas são do mesmo dia somente quando as strings de data são idênticas.
func GroupSalesByDay(clients []*domain.Client) []domain.DailyTotal {
	totals := make(map[string]float64)
	for _, client := range clients {
		for _, sale := range client.Sales {
			totals[sale.Date] += sale.Amount
		}
	}

	result := make([]domain.DailyTotal, 0, len(totals))
	for date, total := range totals {
		result = append(result, domain.DailyTotal{Date: date, Total: total})
	}

	sort.Slice(result, func(i, j int) bool {
		return dateKeyLess(result[i].Date, result[j].Date)
	})

	return result
}

// dateKeyLess ordena pela data de calendário; chaves que não são datas vão para o final
func dateKeyLess(a, b string) bool {
	dateA, okA := parseDateKey(a)
	dateB, okB := parseDateKey(b)

	switch {
	case okA && okB:
		if dateA.Equal(dateB) {
			return a < b
		}
		return dateA.Before(dateB)
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

func parseDateKey(key string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, key); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// FindTopClientBy retorna o cliente com o maior valor da métrica.
// Em caso de empate vence o primeiro cliente da lista. Retorna nil para lista vazia.
func FindTopClientBy(clients []*domain.Client, metric Metric) *domain.TopClient {
	var top *domain.TopClient
	var topValue float64

	for _, client := range clients {
		stats := ComputeStatistics(client)
		value := metric(stats)

		if top == nil || value > topValue {
			top = &domain.TopClient{Client: client, Statistics: stats}
			topValue = value
		}
	}

	return top
}
