// Package scheduler contém os serviços de agendamento de sincronização.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/internal/config"
	"github.com/rmonteiro89/lead-manager-api/internal/usecases/alerting"
)

type AlertSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// AlertSyncService roda o motor de alertas de todos os tenants conectados no
// horário agendado, com gatilho manual para o endpoint de cron.
type AlertSyncService struct {
	scheduler           *gocron.Scheduler
	alerter             alerting.Alerter
	config              AlertSyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastAlertCount      int
}

func NewAlertSyncService(alerter alerting.Alerter, cfg *config.Config) *AlertSyncService {
	syncConfig := AlertSyncConfig{
		CronSchedule: cfg.AlertSync.CronSchedule,
		SyncEnabled:  cfg.AlertSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"enabled":       syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de alertas carregada")

	return &AlertSyncService{
		scheduler: scheduler,
		alerter:   alerter,
		config:    syncConfig,
	}
}

func (s *AlertSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de sincronização de alertas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de sincronização de alertas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.syncAllAlerts)
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de alertas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de sincronização de alertas")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *AlertSyncService) syncAllAlerts() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Sincronização de alertas já está em execução")
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

	count, err := s.alerter.SyncAllUsers(context.Background())
	if err != nil {
		logrus.WithError(err).Error("Erro na sincronização agendada de alertas")
		return
	}

	s.syncMutex.Lock()
	s.lastAlertCount = count
	s.syncMutex.Unlock()

	logrus.WithField("alerts", count).Info("Sincronização agendada de alertas concluída")
}

// TriggerManualSync inicia manualmente uma sincronização de alertas
func (s *AlertSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de alertas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de alertas")
	go s.syncAllAlerts()
}

// GetStatus retorna o status atual do agendador
func (s *AlertSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_alert_count":       s.lastAlertCount,
	}
}
