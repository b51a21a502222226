package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/database/postgres"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

const integrationsTable = "integrations i"

type IntegrationRepository interface {
	GetByUserID(userID int) (*domain.Integration, error)
	ListConnectedUserIDs() ([]int, error)
	UpdateLastSyncAt(userID int, syncedAt time.Time) error
}

type integrationRepository struct {
	conn postgres.Queryer
}

func NewIntegrationRepository(conn postgres.Queryer) IntegrationRepository {
	return &integrationRepository{
		conn: conn,
	}
}

func (r *integrationRepository) GetByUserID(userID int) (*domain.Integration, error) {
	query, args, err := squirrel.
		Select("i.user_id, i.status, i.encrypted_token, i.last_sync_at, i.created_at, i.updated_at").
		From(integrationsTable).
		Where(squirrel.Eq{"i.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	integration := &domain.Integration{}
	row := r.conn.QueryRow(query, args...)
	if err := row.Scan(
		&integration.UserID,
		&integration.Status,
		&integration.EncryptedToken,
		&integration.LastSyncAt,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear integração: %w", err)
	}

	return integration, nil
}

// ListConnectedUserIDs retorna os tenants com integração conectada, usados
// pelos agendadores para iterar as execuções.
func (r *integrationRepository) ListConnectedUserIDs() ([]int, error) {
	query, args, err := squirrel.
		Select("i.user_id").
		From(integrationsTable).
		Where(squirrel.Eq{"i.status": domain.IntegrationConnected}).
		OrderBy("i.user_id ASC").
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

	userIDs := make([]int, 0)
	for rows.Next() {
		var userID int
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("erro ao escanear user_id: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return userIDs, nil
}

func (r *integrationRepository) UpdateLastSyncAt(userID int, syncedAt time.Time) error {
	query, args, err := squirrel.
		Update("integrations").
		Set("last_sync_at", syncedAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID}).
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
