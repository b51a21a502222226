package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/database/postgres"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

const alertsTable = "alerts al"

type AlertRepository interface {
	ListByUser(userID int) ([]*domain.Alert, error)
	ReplaceAll(ctx context.Context, userID int, alerts []*domain.Alert) error
	UpdateStatus(userID int, alertID string, status domain.AlertStatus) error
}

type alertRepository struct {
	conn *postgres.Connection
}

func NewAlertRepository(conn *postgres.Connection) AlertRepository {
	return &alertRepository{
		conn: conn,
	}
}

func (r *alertRepository) ListByUser(userID int) ([]*domain.Alert, error) {
	query, args, err := squirrel.
		Select(
			"al.id, al.user_id, al.severity, al.status, al.client_id, al.account_id",
			"al.campaign_id, al.title, al.message, al.payload, al.created_at, al.updated_at",
		).
		From(alertsTable).
		Where(squirrel.Eq{"al.user_id": userID}).
		OrderBy("al.created_at DESC").
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

	alerts := make([]*domain.Alert, 0)
	for rows.Next() {
		alert, err := r.scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear alerta: %w", err)
		}
		alerts = append(alerts, alert)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return alerts, nil
}

// ReplaceAll substitui o conjunto de alertas do tenant em uma única transação:
// delete de tudo seguido de insert em lote. Nenhum leitor observa o estado
// intermediário vazio; conjunto vazio deixa a tabela vazia para o tenant.
func (r *alertRepository) ReplaceAll(ctx context.Context, userID int, alerts []*domain.Alert) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deleteSQL, deleteArgs, err := squirrel.
			Delete("alerts").
			Where(squirrel.Eq{"user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query de delete: %w", err)
		}

		if _, err := tx.Exec(deleteSQL, deleteArgs...); err != nil {
			return fmt.Errorf("erro ao remover alertas anteriores: %w", err)
		}

		if len(alerts) == 0 {
			return nil
		}

		builder := squirrel.StatementBuilder.
			Insert("alerts").
			Columns("id", "user_id", "severity", "status", "client_id", "account_id", "campaign_id", "title", "message", "payload", "created_at", "updated_at").
			PlaceholderFormat(squirrel.Dollar)

		for _, alert := range alerts {
			var payloadJSON []byte
			if alert.Payload != nil {
				payloadJSON, err = json.Marshal(alert.Payload)
				if err != nil {
					return fmt.Errorf("erro ao serializar payload do alerta: %w", err)
				}
			}

			builder = builder.Values(
				alert.ID,
				alert.UserID,
				alert.Severity,
				alert.Status,
				alert.ClientID,
				alert.AccountID,
				alert.CampaignID,
				alert.Title,
				alert.Message,
				payloadJSON,
				alert.CreatedAt,
				alert.UpdatedAt,
			)
		}

		insertSQL, insertArgs, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query de insert: %w", err)
		}

		if _, err := tx.Exec(insertSQL, insertArgs...); err != nil {
			return fmt.Errorf("erro ao inserir alertas: %w", err)
		}

		return nil
	})
}

func (r *alertRepository) UpdateStatus(userID int, alertID string, status domain.AlertStatus) error {
	query, args, err := squirrel.
		Update("alerts").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": alertID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *alertRepository) scanAlert(rows *sql.Rows) (*domain.Alert, error) {
	alert := &domain.Alert{}
	var payloadJSON []byte

	if err := rows.Scan(
		&alert.ID,
		&alert.UserID,
		&alert.Severity,
		&alert.Status,
		&alert.ClientID,
		&alert.AccountID,
		&alert.CampaignID,
		&alert.Title,
		&alert.Message,
		&payloadJSON,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if payloadJSON != nil {
		if err := json.Unmarshal(payloadJSON, &alert.Payload); err != nil {
			return nil, fmt.Errorf("erro ao deserializar payload do alerta: %w", err)
		}
	}

	return alert, nil
}
