package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vfg2006/cognitive-engine/internal/api/handler/router"
	"github.com/vfg2006/cognitive-engine/internal/usecases/analyzing"
	"github.com/vfg2006/cognitive-engine/internal/usecases/snapshotting"
	"github.com/vfg2006/cognitive-engine/pkg/middleware"
)

func Healthcheck(dependencies ...Dependency) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(dependencies...),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Cognitive(analyzer analyzing.CognitiveAnalyzer, recorder snapshotting.Recorder) []router.Route {
	tenantScoped := []func(http.Handler) http.Handler{middleware.AllRoles(), middleware.TenantAccess()}

	return []router.Route{
		{
			Path:        "/v1/tenants/:tenant/cognitive/analyze",
			Method:      http.MethodPost,
			Handler:     Analyze(analyzer, recorder),
			Middlewares: tenantScoped,
		},
		{
			Path:        "/v1/tenants/:tenant/cognitive/insights",
			Method:      http.MethodPost,
			Handler:     Insights(analyzer, recorder),
			Middlewares: tenantScoped,
		},
	}
}

func Snapshots(recorder snapshotting.Recorder) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/tenants/:tenant/snapshots",
			Method:      http.MethodPost,
			Handler:     EnqueueSnapshot(recorder),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst(), middleware.TenantAccess()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
