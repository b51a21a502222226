package dashboarding

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/repository"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/secrets"
	"github.com/rmonteiro89/lead-manager-api/internal/config"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
	"github.com/rmonteiro89/lead-manager-api/pkg/utils"
)

// Número máximo de contas consultadas ao vivo em paralelo.
const maxConcurrentFetches = 5

type Dashboarder interface {
	GetDashboard(userID int, filters *domain.DashboardFilters) (*domain.DashboardResponse, error)
	GetCampaigns(userID int, filters *domain.CampaignFilters) ([]*domain.CampaignListItem, error)
}

type Service struct {
	accountRepo     repository.AccountRepository
	campaignRepo    repository.CampaignRepository
	snapshotRepo    repository.MetricSnapshotRepository
	integrationRepo repository.IntegrationRepository
	integrator      meta.AdsIntegrator
	tokens          secrets.TokenCipher
	cfg             *config.Config
}

func NewService(
	accountRepo repository.AccountRepository,
	campaignRepo repository.CampaignRepository,
	snapshotRepo repository.MetricSnapshotRepository,
	integrationRepo repository.IntegrationRepository,
	integrator meta.AdsIntegrator,
	tokens secrets.TokenCipher,
	cfg *config.Config,
) Dashboarder {
	return &Service{
		accountRepo:     accountRepo,
		campaignRepo:    campaignRepo,
		snapshotRepo:    snapshotRepo,
		integrationRepo: integrationRepo,
		integrator:      integrator,
		tokens:          tokens,
		cfg:             cfg,
	}
}

// accountContribution é a parcela de uma conta no dashboard: a série da janela
// pedida, o gasto do mês corrente e a origem dos números (snapshot ou ao vivo).
type accountContribution struct {
	account         *domain.AdAccountWithClient
	window          []*domain.LiveInsight
	monthSpendCents int64
	live            bool
}

// GetDashboard responde a consulta do dashboard com os melhores números
// disponíveis: snapshots como base, dados ao vivo por conta quando a
// integração está conectada. Problemas na busca ao vivo nunca derrubam a
// resposta; a conta afetada volta em silêncio para a base de snapshots.
func (s *Service) GetDashboard(userID int, filters *domain.DashboardFilters) (*domain.DashboardResponse, error) {
	accounts, err := s.listAccounts(userID, filters.ClientID)
	if err != nil {
		return nil, err
	}

	contributions, err := s.baselineContributions(accounts, filters.From, filters.To, filters.Timezone)
	if err != nil {
		return nil, err
	}

	token := s.resolveToken(userID)
	if token != "" {
		s.overlayLiveContributions(token, contributions, filters)
	}

	return buildDashboard(contributions, filters), nil
}

func (s *Service) listAccounts(userID int, clientID *string) ([]*domain.AdAccountWithClient, error) {
	if clientID != nil {
		return s.accountRepo.ListByClient(userID, *clientID)
	}
	return s.accountRepo.ListByUser(userID)
}

// baselineContributions monta a parcela de cada conta a partir dos snapshots
// persistidos: a janela pedida e o mês corrente em duas leituras em lote.
func (s *Service) baselineContributions(
	accounts []*domain.AdAccountWithClient,
	from, to time.Time,
	loc *time.Location,
) ([]*accountContribution, error) {
	if len(accounts) == 0 {
		return nil, nil
	}

	accountIDs := make([]string, 0, len(accounts))
	for _, account := range accounts {
		accountIDs = append(accountIDs, account.ID)
	}

	windowSnapshots, err := s.snapshotRepo.ListByScope(domain.ScopeAdAccount, accountIDs, from, to)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := utils.MonthToDateRange(loc, time.Now())
	monthSnapshots, err := s.snapshotRepo.ListByScope(domain.ScopeAdAccount, accountIDs, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	windowByAccount := groupSnapshots(windowSnapshots)
	monthSpendByAccount := make(map[string]int64)
	for _, snapshot := range monthSnapshots {
		monthSpendByAccount[snapshot.ScopeID] += snapshot.SpendCents
	}

	contributions := make([]*accountContribution, 0, len(accounts))
	for _, account := range accounts {
		contributions = append(contributions, &accountContribution{
			account:         account,
			window:          snapshotsToInsights(windowByAccount[account.ID]),
			monthSpendCents: monthSpendByAccount[account.ID],
		})
	}

	return contributions, nil
}

// overlayLiveContributions refaz em paralelo, por conta, a janela pedida e o
// mês corrente direto na API. Quando a conta responde, os números ao vivo
// substituem inteiramente a parcela de snapshots daquela conta.
func (s *Service) overlayLiveContributions(token string, contributions []*accountContribution, filters *domain.DashboardFilters) {
	monthStart, monthEnd := utils.MonthToDateRange(filters.Timezone, time.Now())

	semaphore := make(chan struct{}, maxConcurrentFetches)
	var wg sync.WaitGroup

	for _, contribution := range contributions {
		wg.Add(1)

		go func(c *accountContribution) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			externalID := c.account.ExternalID

			window, err := s.integrator.FetchAccountInsights(token, externalID, filters.From, filters.To)
			if err != nil {
				logrus.WithField("account_id", c.account.ID).Warn("erro ao buscar insights ao vivo da conta: ", err)
				return
			}

			month, err := s.integrator.FetchAccountInsights(token, externalID, monthStart, monthEnd)
			if err != nil {
				logrus.WithField("account_id", c.account.ID).Warn("erro ao buscar insights do mês da conta: ", err)
				return
			}

			c.window = window
			c.monthSpendCents = sumSpend(month)
			c.live = true
		}(contribution)
	}

	wg.Wait()
}

func buildDashboard(contributions []*accountContribution, filters *domain.DashboardFilters) *domain.DashboardResponse {
	response := &domain.DashboardResponse{
		Timeline:   make([]domain.SpendByDay, 0),
		Highlights: make([]domain.AccountHighlight, 0, len(contributions)),
	}

	spendByDate := make(map[string]int64)

	for _, contribution := range contributions {
		for _, insight := range contribution.window {
			response.TotalSpendCents += insight.SpendCents
			response.TotalLeads += insight.Leads
			response.TotalClicks += insight.Clicks
			spendByDate[insight.Date.Format(time.DateOnly)] += insight.SpendCents
		}

		account := contribution.account
		highlight := domain.AccountHighlight{
			AccountID:       account.ID,
			AccountName:     account.Name,
			Status:          string(account.Status),
			MonthSpendCents: contribution.monthSpendCents,
			BudgetCapCents:  account.BudgetCapCents,
		}
		if account.PrimaryClient != nil {
			highlight.ClientName = &account.PrimaryClient.Name
		}
		if !account.UpdatedAt.IsZero() {
			updatedAt := account.UpdatedAt
			highlight.UpdatedAt = &updatedAt
		}
		response.Highlights = append(response.Highlights, highlight)

		if contribution.live {
			response.LiveData = true
		}
	}

	dates := make([]string, 0, len(spendByDate))
	for date := range spendByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		response.Timeline = append(response.Timeline, domain.SpendByDay{Date: date, SpendCents: spendByDate[date]})
	}

	response.CostPerLeadCents = costPerLead(response.TotalSpendCents, response.TotalLeads)
	response.ResponseRate = responseRate(response.TotalLeads, response.TotalClicks)

	return response
}

// GetCampaigns responde a listagem de campanhas combinando o registro
// persistido com métricas (ao vivo quando a integração permite) e o orçamento
// efetivo: o diário da campanha ou, na falta dele, a soma dos ad sets.
func (s *Service) GetCampaigns(userID int, filters *domain.CampaignFilters) ([]*domain.CampaignListItem, error) {
	campaigns, err := s.campaignRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	campaigns = filterCampaigns(campaigns, filters)
	if len(campaigns) == 0 {
		return []*domain.CampaignListItem{}, nil
	}

	campaignIDs := make([]string, 0, len(campaigns))
	for _, campaign := range campaigns {
		campaignIDs = append(campaignIDs, campaign.ID)
	}

	snapshots, err := s.snapshotRepo.ListByScope(domain.ScopeCampaign, campaignIDs, filters.From, filters.To)
	if err != nil {
		return nil, err
	}
	seriesByCampaign := groupSnapshots(snapshots)

	items := make([]*domain.CampaignListItem, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, newCampaignItem(campaign, snapshotsToInsights(seriesByCampaign[campaign.ID])))
	}

	token := s.resolveToken(userID)
	if token != "" {
		s.overlayLiveCampaigns(token, campaigns, items, filters)
	}

	return items, nil
}

func filterCampaigns(campaigns []*domain.CampaignWithAccount, filters *domain.CampaignFilters) []*domain.CampaignWithAccount {
	filtered := make([]*domain.CampaignWithAccount, 0, len(campaigns))
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	for _, campaign := range campaigns {
		if filters.ClientID != nil {
			if campaign.PrimaryClient == nil || campaign.PrimaryClient.ID != *filters.ClientID {
				continue
			}
		}

		if filters.Status != nil &&
			!strings.EqualFold(campaign.Status, *filters.Status) &&
			!strings.EqualFold(campaign.EffectiveStatus, *filters.Status) {
			continue
		}

		if search != "" && !strings.Contains(strings.ToLower(campaign.Name), search) {
			continue
		}

		filtered = append(filtered, campaign)
	}

	return filtered
}

func newCampaignItem(campaign *domain.CampaignWithAccount, insights []*domain.LiveInsight) *domain.CampaignListItem {
	item := &domain.CampaignListItem{
		CampaignID:       campaign.ID,
		AccountID:        campaign.Account.ID,
		Name:             campaign.Name,
		Objective:        campaign.Objective,
		Status:           campaign.Status,
		EffectiveStatus:  campaign.EffectiveStatus,
		DailyBudgetCents: campaign.DailyBudgetCents,
	}

	if campaign.PrimaryClient != nil {
		item.ClientName = &campaign.PrimaryClient.Name
	}

	applyInsights(item, insights)

	return item
}

func applyInsights(item *domain.CampaignListItem, insights []*domain.LiveInsight) {
	item.SpendCents = 0
	item.Leads = 0
	item.Clicks = 0
	item.Impressions = 0

	for _, insight := range insights {
		item.SpendCents += insight.SpendCents
		item.Leads += insight.Leads
		item.Clicks += insight.Clicks
		item.Impressions += insight.Impressions
	}

	item.CostPerLeadCents = domain.ComputeCostPerLead(item.SpendCents, item.Leads)
}

// overlayLiveCampaigns busca em paralelo as métricas ao vivo de cada campanha
// listada e, quando a campanha não tem orçamento diário próprio, resolve o
// orçamento efetivo somando os diários dos seus ad sets.
func (s *Service) overlayLiveCampaigns(
	token string,
	campaigns []*domain.CampaignWithAccount,
	items []*domain.CampaignListItem,
	filters *domain.CampaignFilters,
) {
	semaphore := make(chan struct{}, maxConcurrentFetches)
	var wg sync.WaitGroup

	for i := range campaigns {
		wg.Add(1)

		go func(campaign *domain.CampaignWithAccount, item *domain.CampaignListItem) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			insights, err := s.integrator.FetchCampaignInsights(token, campaign.ID, filters.From, filters.To)
			if err != nil {
				logrus.WithField("campaign_id", campaign.ID).Warn("erro ao buscar insights ao vivo da campanha: ", err)
				return
			}

			applyInsights(item, insights)
			item.LiveData = true

			if item.DailyBudgetCents == nil {
				item.DailyBudgetCents = s.resolveAdSetBudget(token, campaign.ID)
			}
		}(campaigns[i], items[i])
	}

	wg.Wait()
}

// resolveAdSetBudget soma os orçamentos diários dos ad sets da campanha.
// Retorna nil quando nenhum ad set define orçamento diário.
func (s *Service) resolveAdSetBudget(token, campaignID string) *int64 {
	adSets, err := s.integrator.FetchCampaignAdSets(token, campaignID)
	if err != nil {
		logrus.WithField("campaign_id", campaignID).Warn("erro ao buscar ad sets da campanha: ", err)
		return nil
	}

	var total int64
	found := false
	for _, adSet := range adSets {
		if adSet.DailyBudgetCents != nil {
			total += *adSet.DailyBudgetCents
			found = true
		}
	}

	if !found {
		return nil
	}

	return &total
}

// resolveToken busca a integração do tenant e decifra o token quando ela está
// conectada. Qualquer falha degrada para "somente snapshots".
func (s *Service) resolveToken(userID int) string {
	integration, err := s.integrationRepo.GetByUserID(userID)
	if err != nil {
		logrus.WithField("user_id", userID).Warn("erro ao consultar a integração do tenant: ", err)
		return ""
	}

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

func groupSnapshots(snapshots []*domain.MetricSnapshot) map[string][]*domain.MetricSnapshot {
	grouped := make(map[string][]*domain.MetricSnapshot)
	for _, snapshot := range snapshots {
		grouped[snapshot.ScopeID] = append(grouped[snapshot.ScopeID], snapshot)
	}
	return grouped
}

func snapshotsToInsights(snapshots []*domain.MetricSnapshot) []*domain.LiveInsight {
	insights := make([]*domain.LiveInsight, 0, len(snapshots))
	for _, snapshot := range snapshots {
		insights = append(insights, &domain.LiveInsight{
			Date:        snapshot.Date,
			SpendCents:  snapshot.SpendCents,
			Impressions: snapshot.Impressions,
			Clicks:      snapshot.Clicks,
			Leads:       snapshot.Leads,
		})
	}
	return insights
}

func sumSpend(insights []*domain.LiveInsight) int64 {
	var total int64
	for _, insight := range insights {
		total += insight.SpendCents
	}
	return total
}

// costPerLead é o CPL do dashboard: zero quando não há leads, diferente do CPL
// nulo dos snapshots.
func costPerLead(spendCents, leads int64) int64 {
	if leads == 0 {
		return 0
	}
	return int64(math.Round(float64(spendCents) / float64(leads)))
}

// responseRate é leads/cliques em percentual, com uma casa decimal.
func responseRate(leads, clicks int64) float64 {
	if clicks == 0 {
		return 0
	}
	return utils.RoundWithOneDecimalPlace(float64(leads) / float64(clicks) * 100)
}
