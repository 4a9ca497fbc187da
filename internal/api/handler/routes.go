package handler

import (
	"net/http"

	"github.com/vfg2006/client-manager-api/internal/api/handler/router"
	"github.com/vfg2006/client-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/client-manager-api/internal/usecases/clienting"
	"github.com/vfg2006/client-manager-api/internal/usecases/dashboard"
)

func Healthcheck(storage StoragePinger, driver string) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(storage, driver),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Clients(service clienting.ClientService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/clients",
			Method:  http.MethodGet,
			Handler: ListClients(service),
		},
		{
			Path:    "/v1/clients",
			Method:  http.MethodPost,
			Handler: CreateClient(service),
		},
		{
			Path:    "/v1/clients/:id",
			Method:  http.MethodGet,
			Handler: GetClient(service),
		},
		{
			Path:    "/v1/clients/:id",
			Method:  http.MethodPut,
			Handler: UpdateClient(service),
		},
		{
			Path:    "/v1/clients/:id",
			Method:  http.MethodDelete,
			Handler: DeleteClient(service),
		},
		{
			Path:    "/v1/clients/:id/sales",
			Method:  http.MethodPost,
			Handler: AddSale(service),
		},
		{
			Path:    "/v1/clients/:id/statistics",
			Method:  http.MethodGet,
			Handler: GetClientStatistics(service),
		},
	}
}

func Dashboard(service dashboard.DashboardService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
		{
			Path:    "/v1/dashboard/daily-sales",
			Method:  http.MethodGet,
			Handler: GetDailySales(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
