package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cognitive-engine/internal/api/handler"
	"github.com/vfg2006/cognitive-engine/internal/api/handler/router"
	"github.com/vfg2006/cognitive-engine/internal/config"
	"github.com/vfg2006/cognitive-engine/internal/usecases/analyzing"
	"github.com/vfg2006/cognitive-engine/internal/usecases/authenticating"
	"github.com/vfg2006/cognitive-engine/internal/usecases/snapshotting"
	"github.com/vfg2006/cognitive-engine/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	analyzer analyzing.CognitiveAnalyzer,
	recorder snapshotting.Recorder,
	authenticator authenticating.Authenticator,
	cronServices handler.CronJobServices,
	dependencies ...handler.Dependency,
) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(dependencies...)...),
		router.WithRoutes(handler.Metrics()...),
		router.WithRoutes(handler.Cognitive(analyzer, recorder)...),
		router.WithRoutes(handler.Snapshots(recorder)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

// Shutdown encerra apenas o servidor HTTP; fila, cache e banco são fechados por quem os criou
func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
