package domain

// ClientStatistics são as métricas derivadas do histórico de vendas de um cliente.
// Nunca são persistidas; são recalculadas a cada consulta.
type ClientStatistics struct {
	TotalSales        float64 `json:"total_sales"`
	AverageSaleValue  float64 `json:"average_sale_value"`
	PurchaseFrequency int     `json:"purchase_frequency"`
	MissingLetter     string  `json:"missing_letter"`
}

// DailyTotal é a soma de todas as vendas de todos os clientes em uma data
type DailyTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// TopClient é o cliente vencedor de uma métrica junto com suas estatísticas
type TopClient struct {
	Client     *Client          `json:"client"`
	Statistics ClientStatistics `json:"statistics"`
}

// ClientDetail é o cliente acompanhado das estatísticas calculadas
type ClientDetail struct {
	*Client
	Statistics ClientStatistics `json:"statistics"`
}

// Dashboard agrega as estatísticas exibidas no painel
type Dashboard struct {
	TopBySalesVolume *TopClient   `json:"top_by_sales_volume"`
	TopByAverageSale *TopClient   `json:"top_by_average_sale"`
	TopByFrequency   *TopClient   `json:"top_by_frequency"`
	DailySales       []DailyTotal `json:"daily_sales"`
	ClientCount      int          `json:"client_count"`
}
