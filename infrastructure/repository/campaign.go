package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/database/postgres"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

const (
	campaignsTable      = "campaigns c"
	adAccountsTable     = "ad_accounts a"
	clientAccountsTable = "client_ad_accounts ca"
	clientsTable        = "clients cl"
)

type CampaignRepository interface {
	ListByUser(userID int) ([]*domain.CampaignWithAccount, error)
	UpdateStatus(update *domain.CampaignStatusUpdate) error
}

type campaignRepository struct {
	conn postgres.Queryer
}

func NewCampaignRepository(conn postgres.Queryer) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

// ListByUser carrega todas as campanhas do tenant com a conta dona e o cliente
// primário dessa conta. LEFT JOIN porque contas podem não ter cliente primário.
func (r *campaignRepository) ListByUser(userID int) ([]*domain.CampaignWithAccount, error) {
	query, args, err := squirrel.
		Select(
			"c.id, c.account_id, c.name, c.objective, c.status, c.effective_status",
			"c.daily_budget_cents, c.lifetime_budget_cents, c.updated_at",
			"a.id, a.external_id, a.name, a.status",
			"cl.id, cl.name",
		).
		From(campaignsTable).
		Join("ad_accounts a ON c.account_id = a.id").
		LeftJoin("client_ad_accounts ca ON ca.account_id = a.id AND ca.is_primary").
		LeftJoin("clients cl ON cl.id = ca.client_id").
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("c.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*domain.CampaignWithAccount, 0)
	for rows.Next() {
		campaign, err := r.scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear campanha: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return campaigns, nil
}

// UpdateStatus persiste o status ao vivo obtido pelo motor de alertas, mantendo
// o registro de campanhas aquecido entre execuções.
func (r *campaignRepository) UpdateStatus(update *domain.CampaignStatusUpdate) error {
	query, args, err := squirrel.
		Update("campaigns").
		Set("status", update.Status).
		Set("effective_status", update.EffectiveStatus).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": update.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *campaignRepository) scanCampaign(rows *sql.Rows) (*domain.CampaignWithAccount, error) {
	campaign := &domain.CampaignWithAccount{}

	var clientID, clientName sql.NullString

	if err := rows.Scan(
		&campaign.ID,
		&campaign.AccountID,
		&campaign.Name,
		&campaign.Objective,
		&campaign.Status,
		&campaign.EffectiveStatus,
		&campaign.DailyBudgetCents,
		&campaign.LifetimeBudgetCents,
		&campaign.UpdatedAt,
		&campaign.Account.ID,
		&campaign.Account.ExternalID,
		&campaign.Account.Name,
		&campaign.Account.Status,
		&clientID,
		&clientName,
	); err != nil {
		return nil, err
	}

	if clientID.Valid {
		campaign.PrimaryClient = &domain.Client{
			ID:   clientID.String,
			Name: clientName.String,
		}
	}

	return campaign, nil
}
