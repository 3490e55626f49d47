package featureflag

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("featureflag.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("featureflag.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("featureflag.repository: failed to scan row")
)

// Repository репозиторий флагов функциональности тенанта
// Флаги хранятся строками (tenant_id, name, enabled); отсутствующий флаг выключен
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория флагов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает флаги тенанта
func (r *Repository) Get(ctx context.Context, tenantID string) (domain.FeatureFlags, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("name", "enabled").
		From("feature_flags").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return domain.FeatureFlags{}, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.FeatureFlags{}, fmt.Errorf("%w: Get - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	known := make(map[string]bool)
	for _, name := range domain.FlagNames() {
		known[name] = true
	}

	values := make(map[string]bool)
	for rows.Next() {
		var (
			name    string
			enabled bool
		)
		if err := rows.Scan(&name, &enabled); err != nil {
			return domain.FeatureFlags{}, fmt.Errorf("%w: Get - scan row: %w", ErrScanRow, err)
		}
		// Флаги, удаленные из кода, могут оставаться в таблице
		if known[name] {
			values[name] = enabled
		}
	}
	if err := rows.Err(); err != nil {
		return domain.FeatureFlags{}, fmt.Errorf("%w: Get - rows error: %w", ErrScanRow, err)
	}

	return domain.FeatureFlags{}.Apply(values)
}

// Save сохраняет все флаги тенанта
func (r *Repository) Save(ctx context.Context, tenantID string, flags domain.FeatureFlags) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("feature_flags").
		Columns("tenant_id", "name", "enabled").
		Suffix("ON CONFLICT (tenant_id, name) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = NOW()")

	values := flags.ToMap()
	for _, name := range domain.FlagNames() {
		insert = insert.Values(tenantID, name, values[name])
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %w", ErrExecQuery, err)
	}
	return nil
}
