package dashboarding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	metamocks "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/mocks"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/repository/mocks"
	"github.com/rmonteiro89/lead-manager-api/internal/config"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

const testUserID = 7

type plainCipher struct{}

func (plainCipher) Encrypt(s string) (string, error) { return s, nil }
func (plainCipher) Decrypt(s string) (string, error) { return s, nil }

type aggregatorMocks struct {
	accountRepo     *mocks.MockAccountRepository
	campaignRepo    *mocks.MockCampaignRepository
	snapshotRepo    *mocks.MockMetricSnapshotRepository
	integrationRepo *mocks.MockIntegrationRepository
	integrator      *metamocks.MockAdsIntegrator
}

func newAggregator(ctrl *gomock.Controller) (*Service, *aggregatorMocks) {
	m := &aggregatorMocks{
		accountRepo:     mocks.NewMockAccountRepository(ctrl),
		campaignRepo:    mocks.NewMockCampaignRepository(ctrl),
		snapshotRepo:    mocks.NewMockMetricSnapshotRepository(ctrl),
		integrationRepo: mocks.NewMockIntegrationRepository(ctrl),
		integrator:      metamocks.NewMockAdsIntegrator(ctrl),
	}

	service := &Service{
		accountRepo:     m.accountRepo,
		campaignRepo:    m.campaignRepo,
		snapshotRepo:    m.snapshotRepo,
		integrationRepo: m.integrationRepo,
		integrator:      m.integrator,
		tokens:          plainCipher{},
		cfg:             &config.Config{},
	}

	return service, m
}

func accountFixture(id, name string) *domain.AdAccountWithClient {
	return &domain.AdAccountWithClient{
		AdAccount: domain.AdAccount{
			ID:         id,
			ExternalID: "ext-" + id,
			Name:       name,
			Status:     domain.AdAccountStatusActive,
		},
	}
}

func snapshotRow(scopeID string, date time.Time, spendCents, clicks, leads int64) *domain.MetricSnapshot {
	return &domain.MetricSnapshot{
		ScopeType:  domain.ScopeAdAccount,
		ScopeID:    scopeID,
		Date:       date,
		SpendCents: spendCents,
		Clicks:     clicks,
		Leads:      leads,
	}
}

func testFilters() *domain.DashboardFilters {
	to := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	return &domain.DashboardFilters{
		From:     to.AddDate(0, 0, -6),
		To:       to,
		Timezone: time.UTC,
	}
}

func connected() *domain.Integration {
	return &domain.Integration{
		UserID:         testUserID,
		Status:         domain.IntegrationConnected,
		EncryptedToken: "token",
	}
}

func TestGetDashboard_BaselineDeSnapshotsSemIntegracao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newAggregator(ctrl)
	filters := testFilters()

	account := accountFixture("a1", "Conta Alfa")
	budgetCap := int64(50000)
	account.BudgetCapCents = &budgetCap
	m.accountRepo.EXPECT().ListByUser(testUserID).Return([]*domain.AdAccountWithClient{account}, nil)

	day1 := filters.From
	day2 := filters.From.AddDate(0, 0, 1)

	// Janela pedida e mês corrente são duas leituras em lote.
	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1"}, filters.From, filters.To).
		Return([]*domain.MetricSnapshot{
			snapshotRow("a1", day1, 1000, 50, 5),
			snapshotRow("a1", day2, 2000, 30, 3),
		}, nil)
	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1"}, gomock.Any(), gomock.Any()).
		Return([]*domain.MetricSnapshot{snapshotRow("a1", day1, 9000, 0, 0)}, nil)

	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(nil, nil)

	response, err := service.GetDashboard(testUserID, filters)

	assert.NoError(t, err)
	assert.Equal(t, int64(3000), response.TotalSpendCents)
	assert.Equal(t, int64(8), response.TotalLeads)
	assert.Equal(t, int64(80), response.TotalClicks)
	assert.Equal(t, int64(375), response.CostPerLeadCents)
	assert.Equal(t, 10.0, response.ResponseRate)
	assert.False(t, response.LiveData)

	assert.Len(t, response.Timeline, 2)
	assert.Equal(t, day1.Format(time.DateOnly), response.Timeline[0].Date)
	assert.Equal(t, int64(1000), response.Timeline[0].SpendCents)

	assert.Len(t, response.Highlights, 1)
	assert.Equal(t, int64(9000), response.Highlights[0].MonthSpendCents)
	if assert.NotNil(t, response.Highlights[0].BudgetCapCents) {
		assert.Equal(t, int64(50000), *response.Highlights[0].BudgetCapCents)
	}
}

func TestGetDashboard_CPLEDRespostaZeramSemDenominador(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newAggregator(ctrl)
	filters := testFilters()

	account := accountFixture("a1", "Conta Alfa")
	m.accountRepo.EXPECT().ListByUser(testUserID).Return([]*domain.AdAccountWithClient{account}, nil)

	// Gasto sem leads nem cliques: os KPIs derivados valem zero, nunca erro de
	// divisão.
	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1"}, filters.From, filters.To).
		Return([]*domain.MetricSnapshot{snapshotRow("a1", filters.From, 5000, 0, 0)}, nil)
	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1"}, gomock.Any(), gomock.Any()).
		Return(nil, nil)

	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(nil, nil)

	response, err := service.GetDashboard(testUserID, filters)

	assert.NoError(t, err)
	assert.Equal(t, int64(5000), response.TotalSpendCents)
	assert.Equal(t, int64(0), response.CostPerLeadCents)
	assert.Equal(t, 0.0, response.ResponseRate)
}

func TestGetDashboard_DadosAoVivoSubstituemSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newAggregator(ctrl)
	filters := testFilters()

	account := accountFixture("a1", "Conta Alfa")
	m.accountRepo.EXPECT().ListByUser(testUserID).Return([]*domain.AdAccountWithClient{account}, nil)

	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1"}, filters.From, filters.To).
		Return([]*domain.MetricSnapshot{snapshotRow("a1", filters.From, 1000, 10, 1)}, nil)
	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1"}, gomock.Any(), gomock.Any()).
		Return([]*domain.MetricSnapshot{snapshotRow("a1", filters.From, 4000, 0, 0)}, nil)

	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(connected(), nil)

	// A janela e o mês corrente são refeitos ao vivo; os totais da conta
	// passam a ser os da API, não uma média com os snapshots.
	m.integrator.EXPECT().
		FetchAccountInsights("token", "ext-a1", filters.From, filters.To).
		Return([]*domain.LiveInsight{
			{Date: filters.From, SpendCents: 7000, Clicks: 100, Leads: 20},
		}, nil)
	m.integrator.EXPECT().
		FetchAccountInsights("token", "ext-a1", gomock.Any(), gomock.Any()).
		Return([]*domain.LiveInsight{
			{Date: filters.From, SpendCents: 30000},
		}, nil)

	response, err := service.GetDashboard(testUserID, filters)

	assert.NoError(t, err)
	assert.True(t, response.LiveData)
	assert.Equal(t, int64(7000), response.TotalSpendCents)
	assert.Equal(t, int64(20), response.TotalLeads)
	assert.Equal(t, int64(30000), response.Highlights[0].MonthSpendCents)
}

func TestGetDashboard_ContaComFalhaAoVivoCaiParaSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newAggregator(ctrl)
	filters := testFilters()

	healthy := accountFixture("a1", "Conta Alfa")
	broken := accountFixture("a2", "Conta Beta")
	m.accountRepo.EXPECT().ListByUser(testUserID).Return([]*domain.AdAccountWithClient{healthy, broken}, nil)

	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1", "a2"}, filters.From, filters.To).
		Return([]*domain.MetricSnapshot{
			snapshotRow("a1", filters.From, 1000, 10, 1),
			snapshotRow("a2", filters.From, 2000, 20, 2),
		}, nil)
	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeAdAccount, []string{"a1", "a2"}, gomock.Any(), gomock.Any()).
		Return(nil, nil)

	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(connected(), nil)

	m.integrator.EXPECT().
		FetchAccountInsights("token", "ext-a1", filters.From, filters.To).
		Return([]*domain.LiveInsight{{Date: filters.From, SpendCents: 5000, Clicks: 40, Leads: 8}}, nil)
	m.integrator.EXPECT().
		FetchAccountInsights("token", "ext-a1", gomock.Any(), gomock.Any()).
		Return(nil, nil)

	// A conta quebrada degrada em silêncio para a parcela de snapshots; a
	// resposta nunca erra por causa do caminho ao vivo.
	m.integrator.EXPECT().
		FetchAccountInsights("token", "ext-a2", filters.From, filters.To).
		Return(nil, errors.New("quota esgotada"))

	response, err := service.GetDashboard(testUserID, filters)

	assert.NoError(t, err)
	assert.True(t, response.LiveData)
	assert.Equal(t, int64(7000), response.TotalSpendCents)
	assert.Equal(t, int64(10), response.TotalLeads)
	assert.Equal(t, int64(60), response.TotalClicks)
}

func campaignWithClient(id, name, status, clientID string, dailyBudget *int64) *domain.CampaignWithAccount {
	campaign := &domain.CampaignWithAccount{
		Campaign: domain.Campaign{
			ID:               id,
			AccountID:        "a1",
			Name:             name,
			Status:           status,
			EffectiveStatus:  status,
			DailyBudgetCents: dailyBudget,
		},
		Account: domain.AdAccount{ID: "a1", Name: "Conta Alfa"},
	}

	if clientID != "" {
		campaign.PrimaryClient = &domain.Client{ID: clientID, Name: "Cliente " + clientID}
	}

	return campaign
}

func campaignFilters() *domain.CampaignFilters {
	to := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	return &domain.CampaignFilters{
		From:     to.AddDate(0, 0, -6),
		To:       to,
		Timezone: time.UTC,
	}
}

func TestGetCampaigns_FiltrosDeStatusClienteEBusca(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newAggregator(ctrl)

	campaigns := []*domain.CampaignWithAccount{
		campaignWithClient("c1", "Captação Centro", "ACTIVE", "cli1", nil),
		campaignWithClient("c2", "Captação Zona Sul", "PAUSED", "cli1", nil),
		campaignWithClient("c3", "Institucional", "ACTIVE", "cli2", nil),
	}
	m.campaignRepo.EXPECT().ListByUser(testUserID).Return(campaigns, nil)

	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeCampaign, []string{"c1"}, gomock.Any(), gomock.Any()).
		Return(nil, nil)
	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(nil, nil)

	filters := campaignFilters()
	status := "active"
	clientID := "cli1"
	filters.Status = &status
	filters.ClientID = &clientID
	filters.Search = "captação"

	items, err := service.GetCampaigns(testUserID, filters)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].CampaignID)
	assert.Equal(t, "Cliente cli1", *items[0].ClientName)
}

func TestGetCampaigns_OrcamentoEfetivoVemDosAdSets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newAggregator(ctrl)
	filters := campaignFilters()

	// Sem orçamento diário próprio: o efetivo é a soma dos ad sets.
	campaign := campaignWithClient("c1", "Captação", "ACTIVE", "", nil)
	m.campaignRepo.EXPECT().ListByUser(testUserID).Return([]*domain.CampaignWithAccount{campaign}, nil)

	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeCampaign, []string{"c1"}, filters.From, filters.To).
		Return(nil, nil)
	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(connected(), nil)

	m.integrator.EXPECT().
		FetchCampaignInsights("token", "c1", filters.From, filters.To).
		Return([]*domain.LiveInsight{{Date: filters.From, SpendCents: 3000, Clicks: 20, Leads: 6}}, nil)

	budgetA := int64(1500)
	budgetB := int64(2500)
	m.integrator.EXPECT().
		FetchCampaignAdSets("token", "c1").
		Return([]*domain.AdSetBudget{
			{Status: "ACTIVE", DailyBudgetCents: &budgetA},
			{Status: "ACTIVE", DailyBudgetCents: &budgetB},
			{Status: "PAUSED"},
		}, nil)

	items, err := service.GetCampaigns(testUserID, filters)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, items[0].LiveData)
	assert.Equal(t, int64(4000), *items[0].DailyBudgetCents)
	assert.Equal(t, int64(3000), items[0].SpendCents)
	assert.Equal(t, int64(500), *items[0].CostPerLeadCents)
}

func TestGetCampaigns_OrcamentoDaCampanhaTemPrecedencia(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newAggregator(ctrl)
	filters := campaignFilters()

	budget := int64(8000)
	campaign := campaignWithClient("c1", "Captação", "ACTIVE", "", &budget)
	m.campaignRepo.EXPECT().ListByUser(testUserID).Return([]*domain.CampaignWithAccount{campaign}, nil)

	m.snapshotRepo.EXPECT().
		ListByScope(domain.ScopeCampaign, []string{"c1"}, filters.From, filters.To).
		Return(nil, nil)
	m.integrationRepo.EXPECT().GetByUserID(testUserID).Return(connected(), nil)

	// Campanha com orçamento próprio nunca consulta ad sets.
	m.integrator.EXPECT().
		FetchCampaignInsights("token", "c1", filters.From, filters.To).
		Return(nil, nil)

	items, err := service.GetCampaigns(testUserID, filters)

	assert.NoError(t, err)
	assert.Equal(t, int64(8000), *items[0].DailyBudgetCents)
}
