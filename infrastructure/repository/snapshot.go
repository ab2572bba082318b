package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/vfg2006/cognitive-engine/infrastructure/database/postgres"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

//go:generate mockgen -source=snapshot.go -destination=mocks/mock_snapshot.go -package=mocks

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	snapshotsTable   = "daily_snapshots"
	snapshotsColumns = "id, tenant_id, date, scope, metrics, created_at, updated_at"
	dateLayout       = "2006-01-02"
)

type SnapshotRepository interface {
	GetByScope(ctx context.Context, tenantID, scope string, since time.Time) ([]*domain.SnapshotEntry, error)
	SaveOrUpdate(ctx context.Context, entry *domain.SnapshotEntry) error
	SaveBatch(ctx context.Context, entries []*domain.SnapshotEntry) error
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type snapshotRepository struct {
	conn postgres.Conn
	now  func() time.Time
}

func NewSnapshotRepository(conn postgres.Conn) SnapshotRepository {
	return &snapshotRepository{
		conn: conn,
		now:  time.Now,
	}
}

// GetByScope devolve os snapshots do escopo a partir de since, em ordem crescente de data
func (r *snapshotRepository) GetByScope(ctx context.Context, tenantID, scope string, since time.Time) ([]*domain.SnapshotEntry, error) {
	query, args, err := squirrel.
		Select(snapshotsColumns).
		From(snapshotsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "scope": scope}).
		Where(squirrel.GtOrEq{"date": since.Format(dateLayout)}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.SnapshotEntry, 0)
	for rows.Next() {
		entry, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

// SaveOrUpdate grava o snapshot, substituindo as métricas de (tenant, data, escopo) já existentes
func (r *snapshotRepository) SaveOrUpdate(ctx context.Context, entry *domain.SnapshotEntry) error {
	return r.upsert(ctx, r.conn, entry)
}

// SaveBatch grava todos os snapshots do dia na mesma transação
func (r *snapshotRepository) SaveBatch(ctx context.Context, entries []*domain.SnapshotEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, entry := range entries {
			if err := r.upsert(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *snapshotRepository) upsert(ctx context.Context, q postgres.Queryer, entry *domain.SnapshotEntry) error {
	if entry == nil {
		return nil
	}

	metricsJSON, err := json.Marshal(entry.Metrics)
	if err != nil {
		return fmt.Errorf("erro ao serializar métricas para JSON: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Insert(snapshotsTable).
		Columns("tenant_id", "date", "scope", "metrics").
		Values(
			entry.TenantID,
			entry.Date.Format(dateLayout),
			entry.Scope,
			metricsJSON,
		).
		Suffix(`
			ON CONFLICT (tenant_id, date, scope) DO UPDATE SET
				metrics = EXCLUDED.metrics,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *snapshotRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoffDate := r.now().AddDate(0, 0, -days).Format(dateLayout)

	query, args, err := squirrel.
		Delete(snapshotsTable).
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func scanSnapshot(rows *sql.Rows) (*domain.SnapshotEntry, error) {
	entry := &domain.SnapshotEntry{}
	var metricsJSON []byte

	err := rows.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.Date,
		&entry.Scope,
		&metricsJSON,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Metrics = make(map[string]float64)
	if metricsJSON != nil {
		if err := json.Unmarshal(metricsJSON, &entry.Metrics); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de metrics: %w", err)
		}
	}

	return entry, nil
}
