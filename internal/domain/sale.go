package domain

import "time"

// SaleDateLayout é o formato ISO usado nas datas de venda (YYYY-MM-DD)
const SaleDateLayout = time.DateOnly

// Sale representa uma venda registrada para um cliente.
// Uma venda nunca é editada ou removida depois de criada.
type Sale struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// ParseDate interpreta a data da venda como data de calendário
func (s Sale) ParseDate() (time.Time, error) {
	return time.Parse(SaleDateLayout, s.Date)
}
