package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// settingsRowID настройки хранятся одной строкой
const settingsRowID = 1

// daySchedule JSON представление дня недели в колонке schedule (jsonb)
type daySchedule struct {
	IsOpen    bool             `json:"isOpen"`
	OpenTime  types.TimeString `json:"openTime"`
	CloseTime types.TimeString `json:"closeTime"`
}

// Repository репозиторий настроек магазина
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки магазина вместе с праздничными днями
func (r *Repository) Get(ctx context.Context) (*domain.StoreSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"schedule",
		"break_start",
		"break_end",
		"slot_duration_minutes",
		"advance_booking_min_days",
		"advance_booking_max_days",
		"min_booking_notice_minutes",
		"updated_at",
	).
		From("store_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s                    domain.StoreSettings
		rawSchedule          []byte
		breakStart, breakEnd types.TimeString
		updatedAt            sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rawSchedule,
		&breakStart,
		&breakEnd,
		&s.SlotDurationMinutes,
		&s.AdvanceBookingMinDays,
		&s.AdvanceBookingMaxDays,
		&s.MinBookingNoticeMinutes,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	var schedule [7]daySchedule
	if err := json.Unmarshal(rawSchedule, &schedule); err != nil {
		return nil, fmt.Errorf("%w: Get - decode schedule: %v", ErrScanRow, err)
	}
	for i, day := range schedule {
		s.Schedule[i] = domain.DaySchedule{IsOpen: day.IsOpen, OpenTime: day.OpenTime, CloseTime: day.CloseTime}
	}
	if !breakStart.IsZero() {
		s.BreakStart = &breakStart
	}
	if !breakEnd.IsZero() {
		s.BreakEnd = &breakEnd
	}
	s.UpdatedAt = updatedAt.Time

	holidays, err := r.listHolidays(ctx, executor)
	if err != nil {
		return nil, err
	}
	s.Holidays = holidays

	return &s, nil
}

// Save сохраняет настройки (upsert единственной строки) и заменяет список праздников
func (r *Repository) Save(ctx context.Context, s *domain.StoreSettings) (*domain.StoreSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var schedule [7]daySchedule
	for i, day := range s.Schedule {
		schedule[i] = daySchedule{IsOpen: day.IsOpen, OpenTime: day.OpenTime, CloseTime: day.CloseTime}
	}
	rawSchedule, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: Save: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("store_settings").
		Columns(
			"id",
			"schedule",
			"break_start",
			"break_end",
			"slot_duration_minutes",
			"advance_booking_min_days",
			"advance_booking_max_days",
			"min_booking_notice_minutes",
		).
		Values(
			settingsRowID,
			rawSchedule,
			s.BreakStart,
			s.BreakEnd,
			s.SlotDurationMinutes,
			s.AdvanceBookingMinDays,
			s.AdvanceBookingMaxDays,
			s.MinBookingNoticeMinutes,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			schedule = EXCLUDED.schedule,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			advance_booking_min_days = EXCLUDED.advance_booking_min_days,
			advance_booking_max_days = EXCLUDED.advance_booking_max_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			updated_at = NOW()
			RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %w", ErrExecQuery, err)
	}
	s.UpdatedAt = updatedAt.Time

	if err := r.replaceHolidays(ctx, executor, s.Holidays); err != nil {
		return nil, err
	}

	return s, nil
}

func (r *Repository) listHolidays(ctx context.Context, executor dbmetrics.DBExecutor) ([]time.Time, error) {
	query, args, err := psqlbuilder.Select("holiday_date").
		From("store_holidays").
		OrderBy("holiday_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listHolidays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listHolidays - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: listHolidays - scan row: %w", ErrScanRow, err)
		}
		holidays = append(holidays, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listHolidays - rows error: %w", ErrScanRow, err)
	}
	return holidays, nil
}

func (r *Repository) replaceHolidays(ctx context.Context, executor dbmetrics.DBExecutor, holidays []time.Time) error {
	query, args, err := psqlbuilder.Delete("store_holidays").ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceHolidays - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceHolidays - execute delete: %w", ErrExecQuery, err)
	}

	if len(holidays) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("store_holidays").
		Columns("holiday_date").
		Suffix("ON CONFLICT DO NOTHING")
	for _, h := range holidays {
		insert = insert.Values(domain.DateOnly(h))
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceHolidays - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceHolidays - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}
