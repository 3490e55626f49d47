package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

const table = "reservations"

var columns = []string{
	"id",
	"user_id",
	"staff_id",
	"menu_id",
	"reserved_date",
	"reserved_time",
	"duration_minutes",
	"status",
	"notes",
	"menu_name",
	"menu_price",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db       DBExecutor
	location *time.Location
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// WithLocation задает часовой пояс магазина
// DATE приходит из драйвера полночью UTC, после чтения дата переносится в этот пояс
func (r *Repository) WithLocation(loc *time.Location) *Repository {
	r.location = loc
	return r
}

// Create создает новое бронирование
// ID генерируется на стороне приложения, если не задан
// Нарушение уникального индекса активных слотов возвращается как ErrSlotTaken
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"user_id",
			"staff_id",
			"menu_id",
			"reserved_date",
			"reserved_time",
			"duration_minutes",
			"status",
			"notes",
			"menu_name",
			"menu_price",
		).
		Values(
			res.ID,
			res.UserID,
			res.StaffID,
			res.MenuID,
			res.ReservedDate,
			res.ReservedTime,
			res.DurationMinutes,
			res.Status,
			res.Notes,
			res.MenuName,
			res.MenuPrice,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if txmanager.IsUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до конца транзакции
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...), r.location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// List получает бронирования по фильтру
// Сортировка: по дате и времени, для одной даты - по времени начала
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.MenuID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"menu_id": *filter.MenuID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reserved_date": domain.DateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reserved_date": domain.DateOnly(*filter.EndDate)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	query, args, err := selectBuilder.
		OrderBy("reserved_date ASC", "reserved_time ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows, r.location)
}

// ListActiveByStaffAndDate получает активные бронирования сотрудника на дату
// Внутри транзакции строки блокируются (FOR UPDATE)
// Строки, закоммиченные после снимка SERIALIZABLE, здесь не видны: от двойной брони
// защищают ошибка сериализации при коммите и частичный уникальный индекс активных слотов
func (r *Repository) ListActiveByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"staff_id":      staffID,
			"reserved_date": domain.DateOnly(date),
			"status":        statusStrings(domain.ActiveStatuses),
		}).
		OrderBy("reserved_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByStaffAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByStaffAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows, r.location)
}

// Update сохраняет все изменяемые поля бронирования одним UPDATE
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("staff_id", res.StaffID).
		Set("menu_id", res.MenuID).
		Set("reserved_date", res.ReservedDate).
		Set("reserved_time", res.ReservedTime).
		Set("duration_minutes", res.DurationMinutes).
		Set("status", res.Status).
		Set("notes", res.Notes).
		Set("menu_name", res.MenuName).
		Set("menu_price", res.MenuPrice).
		Set("cancellation_reason", res.CancellationReason).
		Set("cancelled_at", res.CancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		if txmanager.IsUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	res.UpdatedAt = updatedAt.Time
	return res, nil
}

// ExistsByMenu проверяет, есть ли бронирования (в любом статусе) с указанным меню
func (r *Repository) ExistsByMenu(ctx context.Context, menuID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"menu_id": menuID}).
		Limit(1).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByMenu - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsByMenu - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

// LockStaffDay берет транзакционную advisory-блокировку на пару (сотрудник, дата)
// Сериализует конкурентные записи в один календарный день сотрудника
// Вне транзакции ничего не делает
func (r *Repository) LockStaffDay(ctx context.Context, staffID uuid.UUID, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := staffID.String() + "|" + date.Format(domain.DateFormat)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("%w: LockStaffDay - execute: %w", ErrExecQuery, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner, loc *time.Location) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.StaffID,
		&res.MenuID,
		&res.ReservedDate,
		&res.ReservedTime,
		&res.DurationMinutes,
		&res.Status,
		&res.Notes,
		&res.MenuName,
		&res.MenuPrice,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.ReservedDate = domain.DateIn(res.ReservedDate, loc)
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows, loc *time.Location) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %w", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
