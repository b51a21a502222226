package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/infrastructure/database/postgres"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/metaclient"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/repository"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/secrets"
	"github.com/rmonteiro89/lead-manager-api/internal/api"
	"github.com/rmonteiro89/lead-manager-api/internal/config"
	"github.com/rmonteiro89/lead-manager-api/internal/scheduler"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/alerting"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/authenticating"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/dashboarding"
)

func main() {
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

	userRepo := repository.NewUserRepository(pgConn)
	accountRepo := repository.NewAccountRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	snapshotRepo := repository.NewMetricSnapshotRepository(pgConn)
	alertRepo := repository.NewAlertRepository(pgConn)
	alertConfigRepo := repository.NewAlertConfigRepository(pgConn)
	integrationRepo := repository.NewIntegrationRepository(pgConn)

	tokenCipher, err := secrets.NewTokenCipher(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar a cifra de tokens")
	}

	metaClient := metaclient.NewClient(cfg)
	adsIntegrator := meta.NewMetaIntegrator(metaClient)

	authenticator := authenticating.NewService(userRepo, alertConfigRepo, cfg)

	alerter := alerting.NewService(
		campaignRepo,
		snapshotRepo,
		alertRepo,
		alertConfigRepo,
		integrationRepo,
		adsIntegrator,
		tokenCipher,
		cfg,
	)

	dashboarder := dashboarding.NewService(
		accountRepo,
		campaignRepo,
		snapshotRepo,
		integrationRepo,
		adsIntegrator,
		tokenCipher,
		cfg,
	)

	alertSyncService := scheduler.NewAlertSyncService(alerter, cfg)

	snapshotSyncService := scheduler.NewSnapshotSyncService(
		accountRepo,
		campaignRepo,
		snapshotRepo,
		integrationRepo,
		adsIntegrator,
		tokenCipher,
		cfg,
	)

	if err := alertSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de alertas")
	} else {
		logrus.Info("Agendador de sincronização de alertas iniciado com sucesso")
	}

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de carga de snapshots")
	} else {
		logrus.Info("Agendador de carga de snapshots iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		dashboarder,
		alerter,
		alertSyncService,
		snapshotSyncService,
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
