package staff

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
)

// Repository репозиторий сотрудников, их смен и отпусков
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сотрудника (без смен и отпусков)
func (r *Repository) Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("staff").
		Columns("id", "name", "email", "phone", "is_active", "display_order").
		Values(s.ID, s.Name, s.Email, s.Phone, s.IsActive, s.DisplayOrder).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return s, nil
}

// Update обновляет основные поля сотрудника
func (r *Repository) Update(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff").
		Set("name", s.Name).
		Set("email", s.Email).
		Set("phone", s.Phone).
		Set("is_active", s.IsActive).
		Set("display_order", s.DisplayOrder).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	s.UpdatedAt = updatedAt.Time
	return s, nil
}

// GetByID получает сотрудника вместе со сменами и отпусками
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "email", "phone", "is_active", "display_order", "created_at", "updated_at",
	).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %w", ErrScanRow, err)
	}

	if err := r.attachSchedules(ctx, executor, []*domain.Staff{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// List получает сотрудников в порядке автоназначения: display_order, name, id
func (r *Repository) List(ctx context.Context, includeInactive bool) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "name", "email", "phone", "is_active", "display_order", "created_at", "updated_at",
	).
		From("staff").
		OrderBy("display_order ASC", "name ASC", "id ASC")

	if !includeInactive {
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

	staff := make([]*domain.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	if err := r.attachSchedules(ctx, executor, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ReplaceShifts заменяет недельное расписание сотрудника целиком
func (r *Repository) ReplaceShifts(ctx context.Context, staffID uuid.UUID, shifts []domain.StaffShift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_shifts").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceShifts - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceShifts - execute delete: %w", ErrExecQuery, err)
	}

	if len(shifts) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("staff_shifts").Columns("staff_id", "day_of_week", "start_time", "end_time")
	for _, shift := range shifts {
		insert = insert.Values(staffID, int(shift.DayOfWeek), shift.StartTime, shift.EndTime)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceShifts - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceShifts - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// AddVacation добавляет отпуск сотруднику
func (r *Repository) AddVacation(ctx context.Context, v *domain.StaffVacation) (*domain.StaffVacation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("staff_vacations").
		Columns("id", "staff_id", "start_date", "end_date", "reason").
		Values(v.ID, v.StaffID, domain.DateOnly(v.StartDate), domain.DateOnly(v.EndDate), v.Reason).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddVacation - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: AddVacation - execute insert: %w", ErrExecQuery, err)
	}
	return v, nil
}

// DeleteVacation удаляет отпуск сотрудника
func (r *Repository) DeleteVacation(ctx context.Context, staffID, vacationID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_vacations").
		Where(squirrel.Eq{"id": vacationID, "staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteVacation - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteVacation - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteVacation - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVacationNotFound
	}
	return nil
}

// attachSchedules подгружает смены и отпуска для набора сотрудников двумя запросами
func (r *Repository) attachSchedules(ctx context.Context, executor dbmetrics.DBExecutor, staff []*domain.Staff) error {
	if len(staff) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Staff, len(staff))
	ids := make([]uuid.UUID, 0, len(staff))
	for _, s := range staff {
		s.Shifts = make([]domain.StaffShift, 0)
		s.Vacations = make([]domain.StaffVacation, 0)
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	query, args, err := psqlbuilder.Select("staff_id", "day_of_week", "start_time", "end_time").
		From("staff_shifts").
		Where(squirrel.Eq{"staff_id": ids}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachSchedules - build shifts query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachSchedules - execute shifts query: %w", ErrExecQuery, err)
	}
	for rows.Next() {
		var (
			staffID   uuid.UUID
			dayOfWeek int
			shift     domain.StaffShift
		)
		if err := rows.Scan(&staffID, &dayOfWeek, &shift.StartTime, &shift.EndTime); err != nil {
			rows.Close()
			return fmt.Errorf("%w: attachSchedules - scan shift: %w", ErrScanRow, err)
		}
		shift.DayOfWeek = time.Weekday(dayOfWeek)
		if s, ok := byID[staffID]; ok {
			s.Shifts = append(s.Shifts, shift)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: attachSchedules - shifts rows error: %w", ErrScanRow, err)
	}
	rows.Close()

	query, args, err = psqlbuilder.Select("id", "staff_id", "start_date", "end_date", "reason").
		From("staff_vacations").
		Where(squirrel.Eq{"staff_id": ids}).
		OrderBy("start_date ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachSchedules - build vacations query: %v", ErrBuildQuery, err)
	}

	rows, err = executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachSchedules - execute vacations query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.StaffVacation
		if err := rows.Scan(&v.ID, &v.StaffID, &v.StartDate, &v.EndDate, &v.Reason); err != nil {
			return fmt.Errorf("%w: attachSchedules - scan vacation: %w", ErrScanRow, err)
		}
		if s, ok := byID[v.StaffID]; ok {
			s.Vacations = append(s.Vacations, v)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachSchedules - vacations rows error: %w", ErrScanRow, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var s domain.Staff
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.IsActive,
		&s.DisplayOrder,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}
