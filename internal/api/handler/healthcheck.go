package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const healthcheckTimeout = 2 * time.Second

type StoragePinger interface {
	Ping(ctx context.Context) error
}

type HealthcheckResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Time    string `json:"time"`
}

// HealthcheckHandler responde 503 quando o armazenamento não responde ao ping
func HealthcheckHandler(storage StoragePinger, driver string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
		defer cancel()

		response := HealthcheckResponse{
			Status:  "ok",
			Storage: driver,
			Time:    time.Now().UTC().Format(time.RFC3339),
		}

		status := http.StatusOK
		if err := storage.Ping(ctx); err != nil {
			logrus.WithError(err).WithField("storage", driver).Warn("Armazenamento indisponível no healthcheck")
			response.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, response)
	})
}
