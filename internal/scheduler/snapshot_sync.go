package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/repository"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/secrets"
	"github.com/rmonteiro89/lead-manager-api/internal/config"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
	"github.com/rmonteiro89/lead-manager-api/pkg/utils"
)

const snapshotSource = "meta"

type SnapshotSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
	LookbackDays int
}

// SnapshotSyncService materializa a série diária de métricas por conta e por
// campanha a partir da API de anúncios. É essa carga que alimenta a base de
// snapshots lida pelo motor de alertas e pelo dashboard quando não há dados ao
// vivo.
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	accountRepo         repository.AccountRepository
	campaignRepo        repository.CampaignRepository
	snapshotRepo        repository.MetricSnapshotRepository
	integrationRepo     repository.IntegrationRepository
	integrator          meta.AdsIntegrator
	tokens              secrets.TokenCipher
	config              SnapshotSyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewSnapshotSyncService(
	accountRepo repository.AccountRepository,
	campaignRepo repository.CampaignRepository,
	snapshotRepo repository.MetricSnapshotRepository,
	integrationRepo repository.IntegrationRepository,
	integrator meta.AdsIntegrator,
	tokens secrets.TokenCipher,
	cfg *config.Config,
) *SnapshotSyncService {
	syncConfig := SnapshotSyncConfig{
		CronSchedule: cfg.SnapshotSync.CronSchedule,
		SyncEnabled:  cfg.SnapshotSync.Enabled,
		LookbackDays: cfg.SnapshotSync.LookbackDays,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"lookback_days": syncConfig.LookbackDays,
	}).Info("Configuração do agendador de snapshots carregada")

	return &SnapshotSyncService{
		scheduler:       scheduler,
		accountRepo:     accountRepo,
		campaignRepo:    campaignRepo,
		snapshotRepo:    snapshotRepo,
		integrationRepo: integrationRepo,
		integrator:      integrator,
		tokens:          tokens,
		config:          syncConfig,
	}
}

func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de carga de snapshots desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de carga de snapshots")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.syncAllSnapshots)
	if err != nil {
		return fmt.Errorf("erro ao agendar carga de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de carga de snapshots")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *SnapshotSyncService) syncAllSnapshots() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Carga de snapshots já está em execução")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	userIDs, err := s.integrationRepo.ListConnectedUserIDs()
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar tenants conectados para a carga de snapshots")
		return
	}

	for _, userID := range userIDs {
		if err := s.syncUserSnapshots(userID); err != nil {
			logrus.WithField("user_id", userID).Error("erro na carga de snapshots do tenant: ", err)
		}
	}
}

// syncUserSnapshots carrega a janela retroativa de um tenant e marca a
// sincronização como bem sucedida. A marcação do last_sync_at alimenta a regra
// de sincronização desatualizada do motor de alertas.
func (s *SnapshotSyncService) syncUserSnapshots(userID int) error {
	integration, err := s.integrationRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	if !integration.IsConnected() {
		return nil
	}

	token, err := s.tokens.Decrypt(integration.EncryptedToken)
	if err != nil {
		return fmt.Errorf("erro ao decifrar o token da integração: %w", err)
	}

	until := utils.StartOfDay(time.Now()).AddDate(0, 0, -1)
	since := until.AddDate(0, 0, -(s.config.LookbackDays - 1))

	accounts, err := s.accountRepo.ListByUser(userID)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		insights, err := s.integrator.FetchAccountInsights(token, account.ExternalID, since, until)
		if err != nil {
			logrus.WithField("account_id", account.ID).Warn("erro ao buscar insights da conta na carga de snapshots: ", err)
			continue
		}
		s.persistInsights(domain.ScopeAdAccount, account.ID, insights)
	}

	campaigns, err := s.campaignRepo.ListByUser(userID)
	if err != nil {
		return err
	}

	for _, campaign := range campaigns {
		insights, err := s.integrator.FetchCampaignInsights(token, campaign.ID, since, until)
		if err != nil {
			logrus.WithField("campaign_id", campaign.ID).Warn("erro ao buscar insights da campanha na carga de snapshots: ", err)
			continue
		}
		s.persistInsights(domain.ScopeCampaign, campaign.ID, insights)
	}

	return s.integrationRepo.UpdateLastSyncAt(userID, time.Now())
}

func (s *SnapshotSyncService) persistInsights(scopeType domain.ScopeType, scopeID string, insights []*domain.LiveInsight) {
	for _, insight := range insights {
		snapshot := &domain.MetricSnapshot{
			ScopeType:   scopeType,
			ScopeID:     scopeID,
			Date:        insight.Date,
			SpendCents:  insight.SpendCents,
			Impressions: insight.Impressions,
			Clicks:      insight.Clicks,
			Leads:       insight.Leads,
			Source:      snapshotSource,
		}

		if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
			logrus.WithFields(logrus.Fields{
				"scope_type": scopeType,
				"scope_id":   scopeID,
				"date":       insight.Date.Format(time.DateOnly),
			}).Error("erro ao gravar snapshot: ", err)
		}
	}
}

// TriggerManualSync inicia manualmente uma carga de snapshots
func (s *SnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Carga de snapshots já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando carga manual de snapshots")
	go s.syncAllSnapshots()
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
