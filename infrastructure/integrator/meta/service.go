package meta

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/metaclient"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

// AdsIntegrator expõe a API de anúncios já traduzida para os tipos do domínio:
// valores monetários em centavos e leads atribuídos pela precedência de ações.
type AdsIntegrator interface {
	FetchCampaignStatus(token, campaignID string) (*domain.LiveCampaignStatus, error)
	FetchCampaignInsights(token, campaignID string, since, until time.Time) ([]*domain.LiveInsight, error)
	FetchAccountInsights(token, accountID string, since, until time.Time) ([]*domain.LiveInsight, error)
	FetchCampaignAdSets(token, campaignID string) ([]*domain.AdSetBudget, error)
}

type MetaIntegrator struct {
	client metaclient.Client
}

func NewMetaIntegrator(client metaclient.Client) AdsIntegrator {
	return &MetaIntegrator{client: client}
}

func (i *MetaIntegrator) FetchCampaignStatus(token, campaignID string) (*domain.LiveCampaignStatus, error) {
	details, err := i.client.GetCampaignDetails(token, campaignID)
	if err != nil {
		return nil, err
	}

	return &domain.LiveCampaignStatus{
		Status:          details.Status,
		EffectiveStatus: details.EffectiveStatus,
		IssuesText:      details.IssuesText(),
	}, nil
}

func (i *MetaIntegrator) FetchCampaignInsights(token, campaignID string, since, until time.Time) ([]*domain.LiveInsight, error) {
	rows, err := i.client.GetCampaignInsights(token, campaignID, since, until, 1)
	if err != nil {
		return nil, err
	}

	return toLiveInsights(rows)
}

func (i *MetaIntegrator) FetchAccountInsights(token, accountID string, since, until time.Time) ([]*domain.LiveInsight, error) {
	rows, err := i.client.GetAccountInsights(token, accountID, since, until)
	if err != nil {
		return nil, err
	}

	return toLiveInsights(rows)
}

func (i *MetaIntegrator) FetchCampaignAdSets(token, campaignID string) ([]*domain.AdSetBudget, error) {
	adSets, err := i.client.GetCampaignAdSets(token, campaignID)
	if err != nil {
		return nil, err
	}

	budgets := make([]*domain.AdSetBudget, 0, len(adSets))
	for _, adSet := range adSets {
		budgets = append(budgets, &domain.AdSetBudget{
			Status:               adSet.Status,
			DailyBudgetCents:     budgetToCents(adSet.DailyBudget),
			LifetimeBudgetCents:  budgetToCents(adSet.LifetimeBudget),
			BudgetRemainingCents: budgetToCents(adSet.BudgetRemaining),
		})
	}

	return budgets, nil
}

func toLiveInsights(rows []metadomain.InsightRow) ([]*domain.LiveInsight, error) {
	insights := make([]*domain.LiveInsight, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(time.DateOnly, row.DateStart)
		if err != nil {
			return nil, errors.Wrapf(err, "erro ao interpretar a data %q da linha de insights", row.DateStart)
		}

		insights = append(insights, &domain.LiveInsight{
			Date:        date,
			SpendCents:  spendToCents(row.Spend),
			Impressions: parseCount(row.Impressions),
			Clicks:      parseCount(row.Clicks),
			Leads:       row.Leads(),
		})
	}

	return insights, nil
}

// spendToCents converte o gasto decimal do Graph API ("12.34") para centavos.
// Valores vazios ou malformados contam como zero em vez de derrubar o sync.
func spendToCents(spend string) int64 {
	if spend == "" {
		return 0
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(spend), 64)
	if err != nil {
		logrus.WithField("spend", spend).Warn("insights: valor de gasto inválido")
		return 0
	}

	return int64(math.Round(value * 100))
}

func parseCount(raw string) int64 {
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		logrus.WithField("value", raw).Warn("insights: valor de contagem inválido")
		return 0
	}

	return value
}

// budgetToCents lê os campos de orçamento de ad set, que o Graph API já retorna
// em centavos como string. Ausência vira nil, não zero.
func budgetToCents(raw string) *int64 {
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		logrus.WithField("value", raw).Warn("ad sets: valor de orçamento inválido")
		return nil
	}

	return &value
}
