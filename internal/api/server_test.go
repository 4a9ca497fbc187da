package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/client-manager-api/infrastructure/repository"
	"github.com/vfg2006/client-manager-api/internal/api/handler"
	"github.com/vfg2006/client-manager-api/internal/config"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/client-manager-api/internal/usecases/clienting"
	"github.com/vfg2006/client-manager-api/internal/usecases/dashboard"
	"github.com/vfg2006/client-manager-api/pkg/log"
	"github.com/vfg2006/client-manager-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	log.SetupTestLogger()

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Storage: config.Storage{Driver: config.StorageDriverFile, DataFile: filepath.Join(t.TempDir(), "clients.json")},
		Auth: config.Auth{
			Enabled:      true,
			Secret:       "test-secret",
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			TokenTTL:     time.Hour,
		},
		Cors: config.Cors{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	repo := repository.NewClientFileRepository(cfg.Storage.DataFile, utils.NewClientID)

	return NewHandler(
		cfg,
		repo,
		clienting.NewService(repo),
		dashboard.NewService(repo),
		authenticating.NewService(cfg.Auth),
		handler.CronJobServices{},
	)
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPI_RequiresToken(t *testing.T) {
	h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/v1/clients", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthcheck", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(log.CorrelationIDHeader))
}

func TestAPI_ClientLifecycle(t *testing.T) {
	h := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/v1/login", "", `{"email":"admin@example.com","password":"segredo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login handler.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	token := login.Token

	ana := `{"info":{"fullName":"Ana Beatriz","details":{"email":"ana@example.com","birthDate":"1992-05-01"}},"statistics":{"sales":[{"date":"2024-01-01","amount":150},{"date":"2024-01-02","amount":50}]}}`
	carlos := `{"info":{"fullName":"Carlos Eduardo","details":{"email":"carlos@example.com","birthDate":"1987-08-15"}},"statistics":{"sales":[{"date":"2024-01-01","amount":300}]}}`

	rec = do(t, h, http.MethodPost, "/v1/clients", token, ana)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = do(t, h, http.MethodPost, "/v1/clients", token, carlos)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/clients/"+created.ID+"/sales", token, `{"date":"2024-01-03","amount":25}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/clients/"+created.ID+"/statistics", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.ClientStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 225.0, stats.TotalSales)
	assert.Equal(t, 3, stats.PurchaseFrequency)
	assert.Equal(t, "C", stats.MissingLetter)

	rec = do(t, h, http.MethodGet, "/v1/dashboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash domain.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, 2, dash.ClientCount)
	assert.Equal(t, "Carlos Eduardo", dash.TopBySalesVolume.Client.FullName)
	assert.Equal(t, "Carlos Eduardo", dash.TopByAverageSale.Client.FullName)
	assert.Equal(t, "Ana Beatriz", dash.TopByFrequency.Client.FullName)
	assert.Equal(t, []domain.DailyTotal{
		{Date: "2024-01-01", Total: 450},
		{Date: "2024-01-02", Total: 50},
		{Date: "2024-01-03", Total: 25},
	}, dash.DailySales)

	rec = do(t, h, http.MethodGet, "/v1/clients?page=1&limit=1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.ClientPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, created.ID, page.Data[0].ID)

	rec = do(t, h, http.MethodDelete, "/v1/clients/"+created.ID, token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/clients/"+created.ID, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
