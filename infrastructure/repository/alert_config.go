package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/database/postgres"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

const alertConfigsTable = "alert_configs ac"

type AlertConfigRepository interface {
	GetByUserID(userID int) (*domain.AlertConfig, error)
	Save(config *domain.AlertConfig) error
}

type alertConfigRepository struct {
	conn postgres.Queryer
}

func NewAlertConfigRepository(conn postgres.Queryer) AlertConfigRepository {
	return &alertConfigRepository{
		conn: conn,
	}
}

// GetByUserID retorna nil (sem erro) quando o tenant não possui configuração.
// O chamador aplica o default explícito nesse caso.
func (r *alertConfigRepository) GetByUserID(userID int) (*domain.AlertConfig, error) {
	query, args, err := squirrel.
		Select("ac.user_id, ac.budget_low_threshold_cents, ac.enabled, ac.created_at, ac.updated_at").
		From(alertConfigsTable).
		Where(squirrel.Eq{"ac.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	config := &domain.AlertConfig{}
	row := r.conn.QueryRow(query, args...)
	if err := row.Scan(
		&config.UserID,
		&config.BudgetLowThresholdCents,
		&config.Enabled,
		&config.CreatedAt,
		&config.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear configuração de alertas: %w", err)
	}

	return config, nil
}

func (r *alertConfigRepository) Save(config *domain.AlertConfig) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("alert_configs").
		Columns("user_id", "budget_low_threshold_cents", "enabled").
		Values(config.UserID, config.BudgetLowThresholdCents, config.Enabled).
		Suffix(`
			ON CONFLICT (user_id) DO UPDATE SET
				budget_low_threshold_cents = EXCLUDED.budget_low_threshold_cents,
				enabled = EXCLUDED.enabled,
				updated_at = NOW()
		`).
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
