package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cognitive-engine/infrastructure/cache"
	"github.com/vfg2006/cognitive-engine/infrastructure/database/postgres"
	"github.com/vfg2006/cognitive-engine/infrastructure/queue"
	"github.com/vfg2006/cognitive-engine/infrastructure/repository"
	"github.com/vfg2006/cognitive-engine/infrastructure/snapshots"
	"github.com/vfg2006/cognitive-engine/internal/api"
	"github.com/vfg2006/cognitive-engine/internal/api/handler"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/trend"
	"github.com/vfg2006/cognitive-engine/internal/config"
	"github.com/vfg2006/cognitive-engine/internal/scheduler"
	"github.com/vfg2006/cognitive-engine/internal/usecases/analyzing"
	"github.com/vfg2006/cognitive-engine/internal/usecases/authenticating"
	"github.com/vfg2006/cognitive-engine/internal/usecases/snapshotting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	snapshotRepo := repository.NewSnapshotRepository(pgConn)

	snapshotCache := newCache(cfg)
	defer snapshotCache.Close()

	fetcher := snapshots.NewFetcher(
		snapshotRepo,
		snapshotCache,
		snapshots.NewBreaker("snapshot-repository", cfg.Breaker),
		cfg.Cache.SnapshotTTL,
	).WithWindows(cfg.Cognitive.LookbackDays)

	enricher := trend.NewEnricher(fetcher, trend.Config{
		TopSkus:      cfg.Cognitive.TrendTopSkus,
		LookbackDays: cfg.Cognitive.LookbackDays,
		Concurrency:  cfg.Cognitive.FetchConcurrency,
	})
	analyzer := analyzing.NewService(enricher)

	snapshotService := snapshotting.NewService(snapshotRepo).WithCache(fetcher)
	taskQueue, queueDependency := newQueue(cfg, snapshotService.HandleTask)
	snapshotService.WithQueue(taskQueue)
	defer func() {
		if err := taskQueue.Close(); err != nil {
			logrus.WithError(err).Error("Erro ao fechar a fila de tarefas")
		}
	}()

	snapshotRetentionService := scheduler.NewSnapshotRetentionService(snapshotRepo, cfg)
	if err := snapshotRetentionService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de retenção de snapshots")
	} else {
		logrus.Info("Agendador de retenção de snapshots iniciado com sucesso")
	}

	authenticator := authenticating.NewService(cfg.Auth)

	dependencies := []handler.Dependency{
		{Name: "postgres", Ping: pgConn.Ping},
		{Name: "cache", Ping: snapshotCache.Ping},
	}
	if queueDependency != nil {
		dependencies = append(dependencies, *queueDependency)
	}

	server, err := api.New(
		cfg,
		analyzer,
		snapshotService,
		authenticator,
		handler.CronJobServices{
			handler.CronJobTypeSnapshotRetention: snapshotRetentionService,
		},
		dependencies...,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// newCache usa o Redis quando habilitado e cai para o cache em memória se ele não responder
func newCache(cfg *config.Config) cache.Cache {
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err == nil {
			logrus.Info("Cache de snapshots usando Redis")
			return redisCache
		}
		logrus.WithError(err).Warn("Redis indisponível, usando cache em memória")
	}

	return cache.NewLocalCache(time.Minute)
}

func newQueue(cfg *config.Config, taskHandler queue.Handler) (queue.TaskQueue, *handler.Dependency) {
	timeout := time.Duration(cfg.Queue.TaskTimeout) * time.Second

	if cfg.Queue.Driver == config.QueueDriverNats {
		natsQueue, err := queue.NewNATSQueue(cfg.Queue.NatsURL, cfg.Queue.Subject, timeout, taskHandler)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar na fila NATS")
		}
		return natsQueue, &handler.Dependency{Name: "nats", Ping: natsQueue.Ping}
	}

	return queue.NewLocalQueue(cfg.Queue.Workers, cfg.Queue.BufferSize, timeout, taskHandler), nil
}
