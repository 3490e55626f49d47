package reservations

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

const (
	reservationsSheet = "Reservations"
	summarySheet      = "Summary"

	// Максимальный период выгрузки
	maxExportDays = 366
)

var exportColumns = []string{
	"ID", "Date", "Time", "Duration", "Status", "Menu", "Price", "Staff ID", "User ID", "Notes", "Cancellation reason", "Created at",
}

// Export выгружает бронирования за период в XLSX
// Доступно администраторам при включенной аналитике
func (s *Service) Export(ctx context.Context, actor domain.Actor, from, to time.Time) ([]byte, error) {
	s.logger.Info("Export: exporting reservations %s to %s by user=%s",
		from.Format(domain.DateFormat), to.Format(domain.DateFormat), actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Export: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, ErrInvalidTimeRange
	}
	if to.Sub(from) > maxExportDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period must be at most %d days", ErrInvalidTimeRange, maxExportDays)
	}

	flags, err := s.flags.Current(ctx)
	if err != nil {
		s.logger.Error("Export: failed to get feature flags: %v", err)
		return nil, fmt.Errorf("%w: failed to get feature flags: %v", ErrInternal, err)
	}
	if !flags.Analytics {
		s.logger.Warn("Export: analytics feature is disabled")
		return nil, ErrFeatureDisabled
	}

	reservations, err := s.reservationRepo.List(ctx, domain.ReservationFilter{
		StartDate:       &from,
		EndDate:         &to,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("Export: repository error: %v", err)
		return nil, fmt.Errorf("%w: Export - repository error: %v", ErrInternal, err)
	}

	data, err := writeWorkbook(reservations)
	if err != nil {
		s.logger.Error("Export: failed to build workbook: %v", err)
		return nil, fmt.Errorf("%w: failed to build workbook: %v", ErrInternal, err)
	}

	s.logger.Info("Export: exported %d reservations, %d bytes", len(reservations), len(data))
	return data, nil
}

// writeWorkbook строит книгу: лист бронирований и сводка по статусам
func writeWorkbook(reservations []*domain.Reservation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reservationsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, reservationsSheet, 1, toCells(exportColumns)); err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = f.SetCellStyle(reservationsSheet, "A1", endCell, style)
	}

	counts := make(map[domain.ReservationStatus]int)
	revenue := 0
	for i, r := range reservations {
		counts[r.Status]++
		if r.Status == domain.StatusCompleted {
			revenue += r.MenuPrice
		}

		staffID := ""
		if r.StaffID != nil {
			staffID = r.StaffID.String()
		}
		row := []interface{}{
			r.ID.String(),
			r.ReservedDate.Format(domain.DateFormat),
			r.ReservedTime.String(),
			r.DurationMinutes,
			string(r.Status),
			r.MenuName,
			r.MenuPrice,
			staffID,
			r.UserID.String(),
			ptr.Deref(r.Notes, ""),
			ptr.Deref(r.CancellationReason, ""),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := writeRow(f, reservationsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", summarySheet, err)
	}
	summary := [][]interface{}{{"Status", "Count"}}
	for _, status := range append(append([]domain.ReservationStatus{}, domain.ActiveStatuses...), domain.InactiveStatuses...) {
		summary = append(summary, []interface{}{string(status), counts[status]})
	}
	summary = append(summary, []interface{}{"Total", len(reservations)}, []interface{}{"Completed revenue", revenue})
	for i, row := range summary {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
