// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "math"

// Client é o registro canônico de um cliente em memória
type Client struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
	Sales     []Sale `json:"sales"`
}

// AppendSale adiciona uma venda ao final do histórico do cliente
func (c *Client) AppendSale(sale Sale) {
	c.Sales = append(c.Sales, sale)
}

// Clone retorna uma cópia do cliente que não compartilha o slice de vendas
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Sales = make([]Sale, len(c.Sales))
	copy(clone.Sales, c.Sales)

	return &clone
}

// ClientPage é uma página da listagem de clientes
type ClientPage struct {
	Data       []*Client `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// PageOffset calcula o deslocamento da página, saturando em math.MaxInt
// quando (page-1)*limit não cabe em um int.
func PageOffset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// NewClientPage recorta a página solicitada de uma lista completa de clientes
func NewClientPage(all []*Client, page, limit int) *ClientPage {
	total := len(all)

	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := PageOffset(page, limit)
	if start > total {
		start = total
	}

	end := start + limit
	if end > total {
		end = total
	}

	data := make([]*Client, 0, end-start)
	data = append(data, all[start:end]...)

	return &ClientPage{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
