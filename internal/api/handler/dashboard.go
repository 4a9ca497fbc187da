package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/client-manager-api/internal/usecases/dashboard"
	"github.com/vfg2006/client-manager-api/pkg/apiErrors"
	"github.com/vfg2006/client-manager-api/pkg/log"
)

func GetDashboard(service dashboard.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.GetDashboard(r.Context())
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func GetDailySales(service dashboard.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.GetDailySales(r.Context())
		if err != nil {
			handleDashboardError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handleDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	var dashErr *dashboard.DashboardError
	if errors.As(err, &dashErr) {
		apiErrors.WriteError(w, dashErr.Code, dashErr.Error(), nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("Erro inesperado no painel")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
}
