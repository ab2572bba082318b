package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Dependency é um componente verificado pelo healthcheck
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

func HealthcheckHandler(dependencies ...Dependency) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(dependencies))
		for _, dep := range dependencies {
			if dep.Ping == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				logrus.WithError(err).WithField("dependency", dep.Name).Warn("Dependência indisponível no healthcheck")
				checks[dep.Name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[dep.Name] = "up"
		}

		writeJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"time":   time.Now().UTC().Format(time.RFC3339),
			"checks": checks,
		})
	})
}
