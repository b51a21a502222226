package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/database/postgres"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
)

type AccountRepository interface {
	ListByUser(userID int) ([]*domain.AdAccountWithClient, error)
	ListByClient(userID int, clientID string) ([]*domain.AdAccountWithClient, error)
}

type accountRepository struct {
	conn postgres.Queryer
}

func NewAccountRepository(conn postgres.Queryer) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (r *accountRepository) ListByUser(userID int) ([]*domain.AdAccountWithClient, error) {
	return r.listAccounts(squirrel.Eq{"a.user_id": userID})
}

// ListByClient restringe ao escopo de um cliente: contas vinculadas a ele por
// qualquer vínculo, não apenas o primário.
func (r *accountRepository) ListByClient(userID int, clientID string) ([]*domain.AdAccountWithClient, error) {
	return r.listAccounts(squirrel.And{
		squirrel.Eq{"a.user_id": userID},
		squirrel.Expr("a.id IN (SELECT account_id FROM client_ad_accounts WHERE client_id = ?)", clientID),
	})
}

func (r *accountRepository) listAccounts(whereClause squirrel.Sqlizer) ([]*domain.AdAccountWithClient, error) {
	query, args, err := squirrel.
		Select(
			"a.id, a.external_id, a.user_id, a.name, a.status, a.currency, a.budget_cap_cents, a.created_at, a.updated_at",
			"cl.id, cl.name",
		).
		From(adAccountsTable).
		LeftJoin("client_ad_accounts ca ON ca.account_id = a.id AND ca.is_primary").
		LeftJoin("clients cl ON cl.id = ca.client_id").
		Where(whereClause).
		OrderBy("a.name ASC").
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

	accounts := make([]*domain.AdAccountWithClient, 0)
	for rows.Next() {
		account := &domain.AdAccountWithClient{}
		var clientID, clientName sql.NullString

		if err := rows.Scan(
			&account.ID,
			&account.ExternalID,
			&account.UserID,
			&account.Name,
			&account.Status,
			&account.Currency,
			&account.BudgetCapCents,
			&account.CreatedAt,
			&account.UpdatedAt,
			&clientID,
			&clientName,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear conta: %w", err)
		}

		if clientID.Valid {
			account.PrimaryClient = &domain.Client{
				ID:   clientID.String,
				Name: clientName.String,
			}
		}

		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return accounts, nil
}
