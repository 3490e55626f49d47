package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"name",
	"description",
	"price",
	"duration_minutes",
	"category",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий меню (услуг салона)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория меню
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает меню
func (r *Repository) Create(ctx context.Context, m *domain.Menu) (*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("menus").
		Columns("id", "name", "description", "price", "duration_minutes", "category", "is_active").
		Values(m.ID, m.Name, m.Description, m.Price, m.DurationMinutes, m.Category, m.IsActive).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time
	return m, nil
}

// Update обновляет меню
func (r *Repository) Update(ctx context.Context, m *domain.Menu) (*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("menus").
		Set("name", m.Name).
		Set("description", m.Description).
		Set("price", m.Price).
		Set("duration_minutes", m.DurationMinutes).
		Set("category", m.Category).
		Set("is_active", m.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	m.UpdatedAt = updatedAt.Time
	return m, nil
}

// GetByID получает меню по ID (включая неактивные)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("menus").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	m, err := scanMenu(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan menu: %w", ErrScanRow, err)
	}
	return m, nil
}

// List получает меню, отсортированные по категории и названию
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("menus").
		OrderBy("category ASC", "name ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	menus := make([]*domain.Menu, 0)
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}
	return menus, nil
}

// Delete физически удаляет меню
// Вызывается только для меню без бронирований
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("menus").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrMenuNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenu(row rowScanner) (*domain.Menu, error) {
	var m domain.Menu
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.DurationMinutes,
		&m.Category,
		&m.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time
	return &m, nil
}
