package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/rmonteiro89/lead-manager-api/infrastructure/database/postgres"
	"github.com/rmonteiro89/lead-manager-api/internal/domain"
	"github.com/rmonteiro89/lead-manager-api/pkg/utils"
)

const metricSnapshotsTable = "metric_snapshots ms"

type MetricSnapshotRepository interface {
	ListByScope(scopeType domain.ScopeType, scopeIDs []string, startDate, endDate time.Time) ([]*domain.MetricSnapshot, error)
	SaveOrUpdate(snapshot *domain.MetricSnapshot) error
}

type metricSnapshotRepository struct {
	conn postgres.Queryer
}

func NewMetricSnapshotRepository(conn postgres.Queryer) MetricSnapshotRepository {
	return &metricSnapshotRepository{
		conn: conn,
	}
}

// ListByScope retorna a série de snapshots dos escopos informados no período,
// ordenada por data ascendente ("ontem" é sempre o último elemento da série de
// cada escopo).
func (r *metricSnapshotRepository) ListByScope(
	scopeType domain.ScopeType,
	scopeIDs []string,
	startDate, endDate time.Time,
) ([]*domain.MetricSnapshot, error) {
	if len(scopeIDs) == 0 {
		return []*domain.MetricSnapshot{}, nil
	}

	query, args, err := squirrel.
		Select(
			"ms.id, ms.scope_type, ms.scope_id, ms.date, ms.spend_cents, ms.impressions",
			"ms.clicks, ms.leads, ms.cost_per_lead_cents, ms.source, ms.created_at, ms.updated_at",
		).
		From(metricSnapshotsTable).
		Where(squirrel.Eq{"ms.scope_type": scopeType, "ms.scope_id": scopeIDs}).
		Where(squirrel.GtOrEq{"ms.date": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"ms.date": endDate.Format("2006-01-02")}).
		OrderBy("ms.scope_id ASC", "ms.date ASC").
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

	snapshots := make([]*domain.MetricSnapshot, 0)
	for rows.Next() {
		snapshot := &domain.MetricSnapshot{}
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.ScopeType,
			&snapshot.ScopeID,
			&snapshot.Date,
			&snapshot.SpendCents,
			&snapshot.Impressions,
			&snapshot.Clicks,
			&snapshot.Leads,
			&snapshot.CostPerLeadCents,
			&snapshot.Source,
			&snapshot.CreatedAt,
			&snapshot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

// SaveOrUpdate grava um snapshot diário. O CPL é recomputado de forma
// determinística a partir de spend/leads antes da escrita.
func (r *metricSnapshotRepository) SaveOrUpdate(snapshot *domain.MetricSnapshot) error {
	snapshot.CostPerLeadCents = domain.ComputeCostPerLead(snapshot.SpendCents, snapshot.Leads)

	if snapshot.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar o ID do snapshot: %w", err)
		}
		snapshot.ID = id
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("metric_snapshots").
		Columns("id", "scope_type", "scope_id", "date", "spend_cents", "impressions", "clicks", "leads", "cost_per_lead_cents", "source").
		Values(
			snapshot.ID,
			snapshot.ScopeType,
			snapshot.ScopeID,
			snapshot.Date.Format("2006-01-02"),
			snapshot.SpendCents,
			snapshot.Impressions,
			snapshot.Clicks,
			snapshot.Leads,
			snapshot.CostPerLeadCents,
			snapshot.Source,
		).
		Suffix(`
			ON CONFLICT (scope_type, scope_id, date) DO UPDATE SET
				spend_cents = EXCLUDED.spend_cents,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				leads = EXCLUDED.leads,
				cost_per_lead_cents = EXCLUDED.cost_per_lead_cents,
				source = EXCLUDED.source,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}
