package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/internal/usecases/clienting"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
	"github.com/vfg2006/client-manager-api/pkg/log"
)

type SaleRequest struct {
	Date   string   `json:"date"`
	Amount *float64 `json:"amount"`
}

// queryInt lê um parâmetro inteiro opcional da query string; ausente retorna 0
func queryInt(r *http.Request, name string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func ListClients(service clienting.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro page inválido", nil)
			return
		}

		limit, err := queryInt(r, "limit")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
			return
		}

		result, err := service.ListClients(r.Context(), page, limit)
		if err != nil {
			handleClientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func CreateClient(service clienting.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw domain.RawClientRecord
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		client, err := service.CreateClient(r.Context(), raw)
		if err != nil {
			handleClientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, client)
	}
}

// GetClient retorna o cliente junto com as estatísticas calculadas
func GetClient(service clienting.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		detail, err := service.GetClientStatistics(r.Context(), id)
		if err != nil {
			handleClientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, detail)
	}
}

func UpdateClient(service clienting.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var raw domain.RawClientRecord
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		client, err := service.UpdateClient(r.Context(), id, raw)
		if err != nil {
			handleClientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}

func DeleteClient(service clienting.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.DeleteClient(r.Context(), id); err != nil {
			handleClientError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func AddSale(service clienting.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req SaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if req.Date == "" || req.Amount == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Os campos date e amount são obrigatórios", nil)
			return
		}

		client, err := service.AddSale(r.Context(), id, domain.Sale{Date: req.Date, Amount: *req.Amount})
		if err != nil {
			handleClientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, client)
	}
}

func GetClientStatistics(service clienting.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		detail, err := service.GetClientStatistics(r.Context(), id)
		if err != nil {
			handleClientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, detail.Statistics)
	}
}

func handleClientError(w http.ResponseWriter, r *http.Request, err error) {
	var clientErr *clienting.ClientError
	if errors.As(err, &clientErr) {
		var details map[string]any
		if clientErr.ClientID != "" {
			details = map[string]any{"client_id": clientErr.ClientID}
		}
		apiErrors.WriteError(w, clientErr.Code, clientErr.Error(), details)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("Erro inesperado no serviço de clientes")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
}
