package alerting

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
	metamocks "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/mocks"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/repository/mocks"
	"github.com/rmonteiro89/lead-manager-api/internal/config"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

const testUserID = 42

// plainCipher devolve o blob como está, para os testes não dependerem de
// material criptográfico real.
type plainCipher struct{}

func (plainCipher) Encrypt(s string) (string, error) { return s, nil }
func (plainCipher) Decrypt(s string) (string, error) { return s, nil }

type engineMocks struct {
	campaignRepo    *mocks.MockCampaignRepository
	snapshotRepo    *mocks.MockMetricSnapshotRepository
	alertRepo       *mocks.MockAlertRepository
	configRepo      *mocks.MockAlertConfigRepository
	integrationRepo *mocks.MockIntegrationRepository
	integrator      *metamocks.MockAdsIntegrator
}

func newEngine(ctrl *gomock.Controller) (*Service, *engineMocks) {
	m := &engineMocks{
		campaignRepo:    mocks.NewMockCampaignRepository(ctrl),
		snapshotRepo:    mocks.NewMockMetricSnapshotRepository(ctrl),
		alertRepo:       mocks.NewMockAlertRepository(ctrl),
		configRepo:      mocks.NewMockAlertConfigRepository(ctrl),
		integrationRepo: mocks.NewMockIntegrationRepository(ctrl),
		integrator:      metamocks.NewMockAdsIntegrator(ctrl),
	}

	cfg := &config.Config{
		AlertSync: config.AlertSync{
			MaxDetailCalls:      15,
			LookbackDays:        14,
			StaleSyncAfterHours: 12,
		},
	}

	service := &Service{
		campaignRepo:    m.campaignRepo,
		snapshotRepo:    m.snapshotRepo,
		alertRepo:       m.alertRepo,
		configRepo:      m.configRepo,
		integrationRepo: m.integrationRepo,
		integrator:      m.integrator,
		tokens:          plainCipher{},
		cfg:             cfg,
	}

	return service, m
}

func int64Ptr(v int64) *int64 { return &v }

func campaignFixture(id, name, status, effectiveStatus string, dailyBudgetCents *int64) *domain.CampaignWithAccount {
	return &domain.CampaignWithAccount{
		Campaign: domain.Campaign{
			ID:               id,
			AccountID:        "acc-" + id,
			Name:             name,
			Status:           status,
			EffectiveStatus:  effectiveStatus,
			DailyBudgetCents: dailyBudgetCents,
		},
		Account: domain.AdAccount{
			ID:   "acc-" + id,
			Name: "Conta " + name,
		},
	}
}

// series monta uma janela de snapshots diários para a campanha, ordenada
// ascendente por data, terminando ontem.
func series(campaignID string, spendCents []int64, leads []int64) []*domain.MetricSnapshot {
	snapshots := make([]*domain.MetricSnapshot, 0, len(spendCents))
	start := time.Now().AddDate(0, 0, -len(spendCents))
	for i := range spendCents {
		snapshots = append(snapshots, &domain.MetricSnapshot{
			ScopeType:  domain.ScopeCampaign,
			ScopeID:    campaignID,
			Date:       start.AddDate(0, 0, i),
			SpendCents: spendCents[i],
			Leads:      leads[i],
		})
	}
	return snapshots
}

// expectBatchReads programa as leituras em lote que toda execução faz antes de
// processar campanhas.
func expectBatchReads(
	m *engineMocks,
	alertConfig *domain.AlertConfig,
	campaigns []*domain.CampaignWithAccount,
	snapshots []*domain.MetricSnapshot,
	stored []*domain.Alert,
	integration *domain.Integration,
) {
	m.configRepo.EXPECT().GetByUserID(testUserID).Return(alertConfig, nil)
	m.campaignRepo.EXPECT().ListByUser(testUserID).Return(campaigns, nil)
	m.alertRepo.EXPECT().ListByUser(testUserID).Return(stored, nil)
	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(integration, nil)

	if len(campaigns) > 0 {
		m.snapshotRepo.EXPECT().
			ListByScope(domain.ScopeCampaign, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(snapshots, nil)
	}
}

// captureReplace captura o conjunto gravado pelo commit da execução.
func captureReplace(m *engineMocks, out *[]*domain.Alert) {
	m.alertRepo.EXPECT().
		ReplaceAll(gomock.Any(), testUserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int, alerts []*domain.Alert) error {
			*out = alerts
			return nil
		})
}

func titles(alerts []*domain.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, alert.Title)
	}
	return out
}

func TestSyncAlerts_ErroDePagamentoSempreGeraAlertaAlto(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	// Status persistido com assinatura de problema de pagamento; sem
	// integração conectada, então nenhuma chamada ao vivo acontece.
	campaign := campaignFixture("c1", "Lançamento", "ACTIVE", "ISSUE_PAYMENT", nil)

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), []*domain.CampaignWithAccount{campaign}, nil, nil, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, titlePaymentError, committed[0].Title)
	assert.Equal(t, domain.AlertSeverityHigh, committed[0].Severity)
	assert.Equal(t, "c1", *committed[0].CampaignID)
	assert.Equal(t, "acc-c1", *committed[0].AccountID)
}

func TestSyncAlerts_PicoDeGastoComPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	campaign := campaignFixture("c1", "Captação", "ACTIVE", "ACTIVE", nil)

	// Soma 15000 nos 7 dias (média 2142); ontem 5000 passa do dobro da média
	// e do piso de 2000.
	snapshots := series("c1",
		[]int64{1000, 1500, 2000, 2000, 1500, 2000, 5000},
		[]int64{3, 2, 4, 1, 2, 3, 5},
	)

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), []*domain.CampaignWithAccount{campaign}, snapshots, nil, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, titleSpendSpike, committed[0].Title)
	assert.Equal(t, domain.AlertSeverityHigh, committed[0].Severity)
	assert.Equal(t, int64(5000), committed[0].Payload["yesterday_spend_cents"])
	assert.Equal(t, int64(2142), committed[0].Payload["avg7_spend_cents"])
}

func TestSyncAlerts_PicoEQuedaSaoMutuamenteExclusivos(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	campaign := campaignFixture("c1", "Captação", "ACTIVE", "ACTIVE", nil)

	// Média 3000 (> 2000) e ontem 500 (< 30% da média): só a queda dispara e
	// o conjunto nunca contém pico e queda ao mesmo tempo.
	snapshots := series("c1",
		[]int64{3500, 3500, 3500, 3500, 3500, 3000, 500},
		[]int64{2, 2, 2, 2, 2, 2, 1},
	)

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), []*domain.CampaignWithAccount{campaign}, snapshots, nil, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, titleSpendDrop, committed[0].Title)
	assert.Equal(t, domain.AlertSeverityMedium, committed[0].Severity)
	assert.NotContains(t, titles(committed), titleSpendSpike)
}

func TestSyncAlerts_GastoSemResultados(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	campaign := campaignFixture("c1", "Captação", "ACTIVE", "ACTIVE", nil)

	snapshots := series("c1",
		[]int64{1000, 1000, 1000, 1000, 1000, 1000, 1200},
		[]int64{2, 3, 1, 2, 2, 1, 0},
	)

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), []*domain.CampaignWithAccount{campaign}, snapshots, nil, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, titleZeroResults, committed[0].Title)
	assert.Equal(t, domain.AlertSeverityMedium, committed[0].Severity)
}

func TestSyncAlerts_CampanhaPausadaSoDisparaOrcamentoBaixo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	// Orçamento diário 500 abaixo do limite default de 1000; pausada, então
	// as regras que exigem entrega ativa não disparam.
	campaign := campaignFixture("c1", "Institucional", "PAUSED", "PAUSED", int64Ptr(500))

	snapshots := series("c1",
		[]int64{5000, 5000, 5000, 5000, 5000, 5000, 15000},
		[]int64{1, 1, 1, 1, 1, 1, 0},
	)

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), []*domain.CampaignWithAccount{campaign}, snapshots, nil, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, titleLowBudget, committed[0].Title)
	assert.Equal(t, domain.AlertSeverityLow, committed[0].Severity)
}

func TestSyncAlerts_ConfiguracaoAusenteUsaDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	campaign := campaignFixture("c1", "Institucional", "PAUSED", "PAUSED", int64Ptr(500))

	// Sem linha de configuração: vale o default (limite 1000, habilitado).
	expectBatchReads(m, nil, []*domain.CampaignWithAccount{campaign}, nil, nil, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, titleLowBudget, committed[0].Title)
}

func TestSyncAlerts_TenantDesabilitadoNaoTocaNoEstoque(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	disabled := &domain.AlertConfig{UserID: testUserID, BudgetLowThresholdCents: 1000, Enabled: false}
	m.configRepo.EXPECT().GetByUserID(testUserID).Return(disabled, nil)

	// Nenhuma outra leitura nem escrita acontece.
	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSyncAlerts_StatusPreservadoEntreExecucoes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	campaign := campaignFixture("c1", "Institucional", "PAUSED", "PAUSED", int64Ptr(500))

	createdAt := time.Now().Add(-24 * time.Hour)
	stored := []*domain.Alert{
		{
			ID:         "abc123",
			UserID:     testUserID,
			Severity:   domain.AlertSeverityLow,
			Status:     domain.AlertStatusRead,
			CampaignID: &campaign.Campaign.ID,
			AccountID:  &campaign.Account.ID,
			Title:      titleLowBudget,
			Message:    "A campanha \"Institucional\" tem orçamento diário de R$ 5,00, abaixo do limite configurado de R$ 10,00",
			CreatedAt:  createdAt,
		},
	}

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), []*domain.CampaignWithAccount{campaign}, nil, stored, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	// Mesma chave lógica: o status marcado pelo usuário e o ID sobrevivem à
	// regeneração, em vez de voltar para NEW.
	assert.Equal(t, domain.AlertStatusRead, committed[0].Status)
	assert.Equal(t, "abc123", committed[0].ID)
	assert.Equal(t, createdAt, committed[0].CreatedAt)
}

func TestSyncAlerts_DeduplicacaoPorChave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	// Duas linhas da mesma campanha (join duplicado) produziriam dois alertas
	// idênticos; só o primeiro sobrevive.
	campaign := campaignFixture("c1", "Institucional", "PAUSED", "PAUSED", int64Ptr(500))
	duplicate := campaignFixture("c1", "Institucional", "PAUSED", "PAUSED", int64Ptr(500))

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), []*domain.CampaignWithAccount{campaign, duplicate}, nil, nil, nil)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncAlerts_RateLimitInterrompeChamadasExternas(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	// Primeira campanha tem problema persistido (balde prioritário) e gera o
	// alerta de pagamento antes do corte acontecer na segunda.
	troubled := campaignFixture("c1", "Institucional", "PAUSED", "ISSUE_PAYMENT", nil)
	healthy := campaignFixture("c2", "Captação", "ACTIVE", "ACTIVE", nil)
	untouched := campaignFixture("c3", "Remarketing", "ACTIVE", "ACTIVE", nil)

	lastSync := time.Now().Add(-1 * time.Hour)
	integration := &domain.Integration{
		UserID:         testUserID,
		Status:         domain.IntegrationConnected,
		EncryptedToken: "token-em-claro",
		LastSyncAt:     &lastSync,
	}

	campaigns := []*domain.CampaignWithAccount{healthy, troubled, untouched}
	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), campaigns, nil, nil, integration)

	// c1 vem primeiro pela priorização e responde normalmente.
	m.integrator.EXPECT().
		FetchCampaignStatus("token-em-claro", "c1").
		Return(&domain.LiveCampaignStatus{Status: "PAUSED", EffectiveStatus: "ISSUE_PAYMENT"}, nil)
	m.campaignRepo.EXPECT().UpdateStatus(gomock.Any()).Return(nil)

	// c2 estoura o rate limit: c3 não gera nenhuma chamada externa.
	m.integrator.EXPECT().
		FetchCampaignStatus("token-em-claro", "c2").
		Return(nil, &metadomain.APIError{
			StatusCode: http.StatusBadRequest,
			Details:    metadomain.ErrorDetails{Code: 80004, Message: "too many calls"},
		})

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Contains(t, titles(committed), titlePaymentError)
	assert.Contains(t, titles(committed), titleRateLimited)
}

func TestSyncAlerts_SincronizacaoDesatualizada(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newEngine(ctrl)

	lastSync := time.Now().Add(-13 * time.Hour)
	integration := &domain.Integration{
		UserID:     testUserID,
		Status:     domain.IntegrationDisconnected,
		LastSyncAt: &lastSync,
	}

	expectBatchReads(m, domain.DefaultAlertConfig(testUserID), nil, nil, nil, integration)

	var committed []*domain.Alert
	captureReplace(m, &committed)

	count, err := service.SyncAlerts(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, titleStaleSync, committed[0].Title)
	assert.Equal(t, domain.AlertSeverityMedium, committed[0].Severity)
	// Alerta do tenant inteiro: sem atribuição de cliente/conta/campanha.
	assert.Nil(t, committed[0].CampaignID)
	assert.Nil(t, committed[0].AccountID)
	assert.Nil(t, committed[0].ClientID)
}

func TestSummarizeSnapshots_SerieCurta(t *testing.T) {
	snapshots := series("c1", []int64{1000, 3000}, []int64{1, 0})

	metrics := summarizeSnapshots(snapshots)

	// Média calculada sobre os dias presentes, não sobre 7 fixos.
	assert.Equal(t, int64(4000), metrics.spend7Cents)
	assert.Equal(t, int64(2000), metrics.avg7Cents)
	assert.Equal(t, int64(3000), metrics.yesterdaySpend)
	assert.Equal(t, int64(0), metrics.yesterdayLeads)
	assert.Equal(t, 2, metrics.daysWithHistory)
}
