package alerting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta"
	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/repository"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/secrets"
	"github.com/rmonteiro89/lead-manager-api/internal/config"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
	"github.com/rmonteiro89/lead-manager-api/pkg/utils"
)

// Títulos e mensagens dos alertas gerados pelo motor. Título e mensagem fazem
// parte da identidade do alerta, então mudá-los reseta o status carregado entre
// execuções.
const (
	titlePaymentError = "Erro de pagamento"
	titleSpendSpike   = "Pico de gasto"
	titleSpendDrop    = "Queda de gasto"
	titleZeroResults  = "Gasto sem resultados"
	titleLowBudget    = "Orçamento diário baixo"
	titleRateLimited  = "Limite de chamadas da API atingido"
	titleStaleSync    = "Sincronização desatualizada"
)

const spendRuleFloorCents = 2000

type Alerter interface {
	SyncAlerts(ctx context.Context, userID int) (int, error)
	SyncAllUsers(ctx context.Context) (int, error)
	ListAlerts(userID int) ([]*domain.Alert, error)
	UpdateAlertStatus(userID int, alertID string, status domain.AlertStatus) error
}

type Service struct {
	campaignRepo    repository.CampaignRepository
	snapshotRepo    repository.MetricSnapshotRepository
	alertRepo       repository.AlertRepository
	configRepo      repository.AlertConfigRepository
	integrationRepo repository.IntegrationRepository
	integrator      meta.AdsIntegrator
	tokens          secrets.TokenCipher
	cfg             *config.Config
}

func NewService(
	campaignRepo repository.CampaignRepository,
	snapshotRepo repository.MetricSnapshotRepository,
	alertRepo repository.AlertRepository,
	configRepo repository.AlertConfigRepository,
	integrationRepo repository.IntegrationRepository,
	integrator meta.AdsIntegrator,
	tokens secrets.TokenCipher,
	cfg *config.Config,
) Alerter {
	return &Service{
		campaignRepo:    campaignRepo,
		snapshotRepo:    snapshotRepo,
		alertRepo:       alertRepo,
		configRepo:      configRepo,
		integrationRepo: integrationRepo,
		integrator:      integrator,
		tokens:          tokens,
		cfg:             cfg,
	}
}

// runState acumula o estado mutável de uma execução: o orçamento de chamadas
// de detalhe e o corte por rate limit. É encadeado sequencialmente pelo loop
// de campanhas, nunca compartilhado entre execuções.
type runState struct {
	detailCallsUsed int
	rateLimited     bool
}

// stager acumula os alertas da execução com deduplicação por chave de
// identidade e carrega o status da execução anterior quando a mesma chave
// reaparece. A primeira ocorrência de uma chave vence.
type stager struct {
	userID   int
	now      time.Time
	staged   []*domain.Alert
	seen     map[domain.AlertKey]bool
	previous map[domain.AlertKey]*domain.Alert
}

func newStager(userID int, stored []*domain.Alert, now time.Time) *stager {
	previous := make(map[domain.AlertKey]*domain.Alert, len(stored))
	for _, alert := range stored {
		previous[alert.Key()] = alert
	}

	return &stager{
		userID:   userID,
		now:      now,
		staged:   make([]*domain.Alert, 0),
		seen:     make(map[domain.AlertKey]bool),
		previous: previous,
	}
}

func (st *stager) add(alert *domain.Alert) {
	key := alert.Key()
	if st.seen[key] {
		return
	}
	st.seen[key] = true

	id, err := utils.GenerateID()
	if err != nil {
		logrus.Error("erro ao gerar o ID do alerta: ", err)
	}

	alert.ID = id
	alert.UserID = st.userID
	alert.Status = domain.AlertStatusNew
	alert.CreatedAt = st.now
	alert.UpdatedAt = st.now

	if prior, ok := st.previous[key]; ok {
		alert.ID = prior.ID
		alert.Status = prior.Status
		alert.CreatedAt = prior.CreatedAt
	}

	st.staged = append(st.staged, alert)
}

// SyncAlerts executa o motor de alertas para um tenant e substitui o conjunto
// persistido pelo recém-calculado. Retorna a quantidade de alertas gravados.
func (s *Service) SyncAlerts(ctx context.Context, userID int) (int, error) {
	alertConfig, err := s.configRepo.GetByUserID(userID)
	if err != nil {
		return 0, err
	}
	if alertConfig == nil {
		// Ausência de configuração não é erro: vale o default.
		alertConfig = domain.DefaultAlertConfig(userID)
	}

	if !alertConfig.Enabled {
		logrus.WithField("user_id", userID).Info("alertas desabilitados para o tenant, execução ignorada")
		return 0, nil
	}

	// Todas as leituras que alimentam a execução acontecem antes do
	// processamento começar.
	campaigns, err := s.campaignRepo.ListByUser(userID)
	if err != nil {
		return 0, err
	}

	storedAlerts, err := s.alertRepo.ListByUser(userID)
	if err != nil {
		return 0, err
	}

	integration, err := s.integrationRepo.GetByUserID(userID)
	if err != nil {
		return 0, err
	}

	snapshotsByCampaign, err := s.loadCampaignSnapshots(campaigns)
	if err != nil {
		return 0, err
	}

	token := s.resolveToken(userID, integration)

	now := time.Now()
	st := newStager(userID, storedAlerts, now)
	state := &runState{}

	for _, campaign := range orderByPriority(campaigns) {
		s.evaluateCampaign(campaign, snapshotsByCampaign[campaign.ID], alertConfig, token, state, st)
	}

	s.evaluateStaleSync(integration, st, now)

	if err := s.alertRepo.ReplaceAll(ctx, userID, st.staged); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":           userID,
		"alerts":            len(st.staged),
		"campaigns":         len(campaigns),
		"detail_calls_used": state.detailCallsUsed,
		"rate_limited":      state.rateLimited,
	}).Info("execução do motor de alertas concluída")

	return len(st.staged), nil
}

// SyncAllUsers executa o motor para todos os tenants com integração conectada.
// A falha de um tenant não interrompe os demais.
func (s *Service) SyncAllUsers(ctx context.Context) (int, error) {
	userIDs, err := s.integrationRepo.ListConnectedUserIDs()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, userID := range userIDs {
		count, err := s.SyncAlerts(ctx, userID)
		if err != nil {
			logrus.WithField("user_id", userID).Error("erro ao sincronizar alertas do tenant: ", err)
			continue
		}
		total += count
	}

	return total, nil
}

func (s *Service) ListAlerts(userID int) ([]*domain.Alert, error) {
	return s.alertRepo.ListByUser(userID)
}

func (s *Service) UpdateAlertStatus(userID int, alertID string, status domain.AlertStatus) error {
	return s.alertRepo.UpdateStatus(userID, alertID, status)
}

// loadCampaignSnapshots carrega em um único lote a janela de snapshots de todas
// as campanhas e agrupa a série por campanha, ordenada ascendente por data.
func (s *Service) loadCampaignSnapshots(campaigns []*domain.CampaignWithAccount) (map[string][]*domain.MetricSnapshot, error) {
	if len(campaigns) == 0 {
		return map[string][]*domain.MetricSnapshot{}, nil
	}

	campaignIDs := make([]string, 0, len(campaigns))
	for _, campaign := range campaigns {
		campaignIDs = append(campaignIDs, campaign.ID)
	}

	lookback := s.cfg.AlertSync.LookbackDays
	end := utils.StartOfDay(time.Now())
	start := end.AddDate(0, 0, -lookback)

	snapshots, err := s.snapshotRepo.ListByScope(domain.ScopeCampaign, campaignIDs, start, end)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*domain.MetricSnapshot, len(campaignIDs))
	for _, snapshot := range snapshots {
		grouped[snapshot.ScopeID] = append(grouped[snapshot.ScopeID], snapshot)
	}

	return grouped, nil
}

// resolveToken decifra o token de acesso quando o tenant tem integração
// conectada. Qualquer falha vira "sem dados ao vivo", nunca erro da execução.
func (s *Service) resolveToken(userID int, integration *domain.Integration) string {
	if !integration.IsConnected() {
		return ""
	}

	token, err := s.tokens.Decrypt(integration.EncryptedToken)
	if err != nil {
		logrus.WithField("user_id", userID).Error("erro ao decifrar o token da integração: ", err)
		return ""
	}

	return token
}

// orderByPriority coloca no começo da fila as campanhas cujo status persistido
// já indica problema ou inatividade, para que seus alertas sejam gerados antes
// de um eventual corte por rate limit.
func orderByPriority(campaigns []*domain.CampaignWithAccount) []*domain.CampaignWithAccount {
	ordered := make([]*domain.CampaignWithAccount, len(campaigns))
	copy(ordered, campaigns)

	bucket := func(c *domain.CampaignWithAccount) int {
		state := domain.ClassifyDeliveryState(domain.CombineStatusText(c.Status, c.EffectiveStatus, ""))
		if state.IsPaused || state.HasIssues || state.HasPaymentError {
			return 0
		}
		return 1
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return bucket(ordered[i]) < bucket(ordered[j])
	})

	return ordered
}

// campaignMetrics resume a série de snapshots de uma campanha: somas dos até 7
// dias mais recentes e os valores de "ontem" (último elemento da série).
type campaignMetrics struct {
	spend7Cents     int64
	leads7          int64
	avg7Cents       int64
	yesterdaySpend  int64
	yesterdayLeads  int64
	daysWithHistory int
}

func summarizeSnapshots(series []*domain.MetricSnapshot) campaignMetrics {
	metrics := campaignMetrics{}
	if len(series) == 0 {
		return metrics
	}

	trailing := series
	if len(trailing) > 7 {
		trailing = trailing[len(trailing)-7:]
	}

	for _, snapshot := range trailing {
		metrics.spend7Cents += snapshot.SpendCents
		metrics.leads7 += snapshot.Leads
	}

	metrics.daysWithHistory = len(trailing)
	metrics.avg7Cents = metrics.spend7Cents / int64(len(trailing))

	yesterday := series[len(series)-1]
	metrics.yesterdaySpend = yesterday.SpendCents
	metrics.yesterdayLeads = yesterday.Leads

	return metrics
}

// evaluateCampaign roda o pipeline de uma campanha: métricas da série, consulta
// de detalhes ao vivo (quando possível), classificação do estado de entrega e
// as regras de alerta.
func (s *Service) evaluateCampaign(
	campaign *domain.CampaignWithAccount,
	series []*domain.MetricSnapshot,
	alertConfig *domain.AlertConfig,
	token string,
	state *runState,
	st *stager,
) {
	metrics := summarizeSnapshots(series)

	status := campaign.Status
	effectiveStatus := campaign.EffectiveStatus
	issuesText := ""

	if token != "" && !state.rateLimited && state.detailCallsUsed < s.cfg.AlertSync.MaxDetailCalls {
		state.detailCallsUsed++

		live, err := s.integrator.FetchCampaignStatus(token, campaign.ID)
		switch {
		case err == nil:
			status = live.Status
			effectiveStatus = live.EffectiveStatus
			issuesText = live.IssuesText
			s.writeBackStatus(campaign, live)

		case metadomain.IsRateLimitError(err):
			// O corte vale para o resto da execução; o trabalho já feito
			// para as campanhas anteriores é preservado.
			state.rateLimited = true
			st.add(rateLimitAlert(campaign))
			return

		default:
			logrus.WithFields(logrus.Fields{
				"campaign_id": campaign.ID,
				"account_id":  campaign.AccountID,
			}).Warn("erro ao buscar detalhes da campanha, usando status persistido: ", err)
		}
	}

	deliveryState := domain.ClassifyDeliveryState(domain.CombineStatusText(status, effectiveStatus, issuesText))

	s.applyRules(campaign, metrics, deliveryState, alertConfig, st)
}

// writeBackStatus persiste o status mais fresco no registro de campanhas para
// manter o cadastro aquecido entre execuções. Falha aqui não derruba a
// avaliação da campanha.
func (s *Service) writeBackStatus(campaign *domain.CampaignWithAccount, live *domain.LiveCampaignStatus) {
	err := s.campaignRepo.UpdateStatus(&domain.CampaignStatusUpdate{
		ID:              campaign.ID,
		Status:          live.Status,
		EffectiveStatus: live.EffectiveStatus,
	})
	if err != nil {
		logrus.WithField("campaign_id", campaign.ID).Error("erro ao atualizar o status da campanha: ", err)
	}
}

// applyRules avalia as regras de alerta. As regras são independentes entre si,
// exceto pico e queda de gasto, que são mutuamente exclusivas.
func (s *Service) applyRules(
	campaign *domain.CampaignWithAccount,
	metrics campaignMetrics,
	state domain.DeliveryState,
	alertConfig *domain.AlertConfig,
	st *stager,
) {
	if state.HasPaymentError {
		st.add(campaignAlert(campaign, domain.AlertSeverityHigh, titlePaymentError,
			fmt.Sprintf("A campanha %q está com problema de pagamento ou faturamento", campaign.Name),
			map[string]any{
				"status":           campaign.Status,
				"effective_status": campaign.EffectiveStatus,
			},
		))
	}

	if state.IsDelivering && metrics.avg7Cents > 0 {
		doubled := 2 * metrics.avg7Cents
		if metrics.yesterdaySpend > doubled && metrics.yesterdaySpend > spendRuleFloorCents {
			st.add(campaignAlert(campaign, domain.AlertSeverityHigh, titleSpendSpike,
				fmt.Sprintf("A campanha %q gastou ontem %s, mais que o dobro da média dos últimos 7 dias (%s)",
					campaign.Name, formatCents(metrics.yesterdaySpend), formatCents(metrics.avg7Cents)),
				map[string]any{
					"yesterday_spend_cents": metrics.yesterdaySpend,
					"avg7_spend_cents":      metrics.avg7Cents,
				},
			))
		} else if float64(metrics.yesterdaySpend) < 0.3*float64(metrics.avg7Cents) && metrics.avg7Cents > spendRuleFloorCents {
			st.add(campaignAlert(campaign, domain.AlertSeverityMedium, titleSpendDrop,
				fmt.Sprintf("A campanha %q gastou ontem %s, abaixo de 30%% da média dos últimos 7 dias (%s)",
					campaign.Name, formatCents(metrics.yesterdaySpend), formatCents(metrics.avg7Cents)),
				map[string]any{
					"yesterday_spend_cents": metrics.yesterdaySpend,
					"avg7_spend_cents":      metrics.avg7Cents,
				},
			))
		}
	}

	if state.IsDelivering && metrics.yesterdaySpend > 0 && metrics.yesterdayLeads == 0 {
		st.add(campaignAlert(campaign, domain.AlertSeverityMedium, titleZeroResults,
			fmt.Sprintf("A campanha %q gastou %s ontem sem gerar nenhum lead", campaign.Name, formatCents(metrics.yesterdaySpend)),
			map[string]any{
				"yesterday_spend_cents": metrics.yesterdaySpend,
			},
		))
	}

	if alertConfig.BudgetLowThresholdCents > 0 &&
		campaign.DailyBudgetCents != nil &&
		*campaign.DailyBudgetCents > 0 &&
		*campaign.DailyBudgetCents < alertConfig.BudgetLowThresholdCents {
		st.add(campaignAlert(campaign, domain.AlertSeverityLow, titleLowBudget,
			fmt.Sprintf("A campanha %q tem orçamento diário de %s, abaixo do limite configurado de %s",
				campaign.Name, formatCents(*campaign.DailyBudgetCents), formatCents(alertConfig.BudgetLowThresholdCents)),
			map[string]any{
				"daily_budget_cents": *campaign.DailyBudgetCents,
				"threshold_cents":    alertConfig.BudgetLowThresholdCents,
			},
		))
	}
}

// evaluateStaleSync emite um único alerta MEDIUM do tenant inteiro, sem
// atribuição de cliente/conta/campanha, quando a última sincronização bem
// sucedida é mais velha que o limite configurado.
func (s *Service) evaluateStaleSync(integration *domain.Integration, st *stager, now time.Time) {
	if integration == nil || integration.LastSyncAt == nil {
		return
	}

	staleAfter := time.Duration(s.cfg.AlertSync.StaleSyncAfterHours) * time.Hour
	age := now.Sub(*integration.LastSyncAt)
	if age <= staleAfter {
		return
	}

	st.add(&domain.Alert{
		Severity: domain.AlertSeverityMedium,
		Title:    titleStaleSync,
		Message:  fmt.Sprintf("Os dados não são sincronizados há %d horas", int(age.Hours())),
		Payload: map[string]any{
			"last_sync_at": integration.LastSyncAt,
		},
	})
}

func campaignAlert(
	campaign *domain.CampaignWithAccount,
	severity domain.AlertSeverity,
	title, message string,
	payload map[string]any,
) *domain.Alert {
	alert := &domain.Alert{
		Severity:   severity,
		Title:      title,
		Message:    message,
		Payload:    payload,
		CampaignID: &campaign.Campaign.ID,
		AccountID:  &campaign.Account.ID,
	}

	if campaign.PrimaryClient != nil {
		alert.ClientID = &campaign.PrimaryClient.ID
	}

	return alert
}

func rateLimitAlert(campaign *domain.CampaignWithAccount) *domain.Alert {
	return campaignAlert(campaign, domain.AlertSeverityMedium, titleRateLimited,
		"A API de anúncios limitou as chamadas; os dados ao vivo ficaram indisponíveis nesta execução",
		map[string]any{
			"campaign_id": campaign.Campaign.ID,
		},
	)
}

// formatCents formata centavos como moeda para as mensagens de alerta.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, cents/100, cents%100)
}
