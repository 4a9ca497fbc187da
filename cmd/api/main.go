package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/client-manager-api/infrastructure/repository"
	"github.com/vfg2006/client-manager-api/internal/api"
	"github.com/vfg2006/client-manager-api/internal/config"
	"github.com/vfg2006/client-manager-api/internal/scheduler"
	"github.com/vfg2006/client-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/client-manager-api/internal/usecases/clienting"
	"github.com/vfg2006/client-manager-api/internal/usecases/dashboard"
	"github.com/vfg2006/client-manager-api/pkg/log"
	"github.com/vfg2006/client-manager-api/pkg/utils"
)

func main() {
	log.Setup("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel := log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientRepo, closeStorage := clientRepository(ctx, cfg)
	defer closeStorage()

	authenticator := authenticating.NewService(cfg.Auth)
	clientService := clienting.NewService(clientRepo)
	dashboardService := dashboard.NewService(clientRepo)

	storeBackupService := scheduler.NewStoreBackupService(clientRepo, cfg)
	if err := storeBackupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de backup de clientes")
	} else {
		logrus.Info("Agendador de backup de clientes iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		clientRepo,
		clientService,
		dashboardService,
		authenticator,
		storeBackupService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// clientRepository cria o repositório do driver configurado e a função que libera seus recursos
func clientRepository(ctx context.Context, cfg *config.Config) (repository.ClientRepository, func()) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		conn := pgconn(ctx, cfg.Database)
		return repository.NewClientPostgresRepository(conn), func() { conn.Close() }

	case config.StorageDriverRedis:
		client := redisClient(ctx, cfg.Redis)
		return repository.NewClientRedisRepository(client, cfg.Redis.Prefix), func() { client.Close() }

	default:
		logrus.WithField("path", cfg.Storage.DataFile).Info("Usando arquivo JSON como armazenamento de clientes")
		return repository.NewClientFileRepository(cfg.Storage.DataFile, utils.NewClientID), func() {}
	}
}

// pgconn cria uma conexão com o banco de dados e garante que as tabelas existem
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar tabelas no PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func redisClient(ctx context.Context, redisConfig config.Redis) *redis.Client {
	opts, err := redis.ParseURL(redisConfig.URL)
	if err != nil {
		logrus.WithError(err).Fatal("REDIS_URL inválida")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	logrus.WithField("prefix", redisConfig.Prefix).Info("Conexão com Redis estabelecida com sucesso")
	return client
}
