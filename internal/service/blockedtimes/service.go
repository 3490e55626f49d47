package blockedtimes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	blockedTimeRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/blockedtime"
	staffRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-ReservationService/internal/service/blockedtimes/models"
)

// Service сервис для управления блокировками времени
type Service struct {
	blockedTimeRepo BlockedTimeRepository
	staffRepo       StaffRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(blockedTimeRepo BlockedTimeRepository, staffRepo StaffRepository, logger Logger) *Service {
	return &Service{
		blockedTimeRepo: blockedTimeRepo,
		staffRepo:       staffRepo,
		logger:          logger,
	}
}

// Create блокирует интервал времени для магазина или сотрудника
// Уже созданные бронирования не отменяются
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreateBlockedTimeRequest) (*models.BlockedTimeResponse, error) {
	s.logger.Info("Create: blocking %s..%s, staff=%v, reason=%s by user=%s",
		req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), req.StaffID, req.Reason, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Create: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	blocked := req.ToDomain()
	if !blocked.Reason.IsValid() {
		return nil, fmt.Errorf("%w: unknown reason %q", ErrInvalidInput, req.Reason)
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return nil, fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, ErrInvalidTimeRange
	}

	if req.StaffID != nil {
		if _, err := s.staffRepo.GetByID(ctx, *req.StaffID); err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				s.logger.Warn("Create: staff id=%s not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			s.logger.Error("Create: failed to get staff id=%s: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
	}

	created, err := s.blockedTimeRepo.Create(ctx, blocked)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created blocked time id=%s", created.ID)
	return models.FromDomainBlockedTime(created), nil
}

// List получает блокировки, пересекающиеся с периодом [from, to)
func (s *Service) List(ctx context.Context, from, to time.Time) (*models.BlockedTimeListResponse, error) {
	s.logger.Info("List: fetching blocked times %s..%s", from.Format(time.RFC3339), to.Format(time.RFC3339))

	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if !to.After(from) {
		return nil, ErrInvalidTimeRange
	}

	list, err := s.blockedTimeRepo.ListOverlapping(ctx, from, to)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d blocked times", len(list))
	return models.FromDomainBlockedTimeList(list), nil
}

// Delete снимает блокировку
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	s.logger.Info("Delete: deleting blocked time id=%s by user=%s", id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Delete: user=%s is not an admin", actor.UserID)
		return ErrAccessDenied
	}

	if err := s.blockedTimeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockedTimeRepo.ErrBlockedTimeNotFound) {
			s.logger.Warn("Delete: blocked time id=%s not found", id)
			return ErrBlockedTimeNotFound
		}
		s.logger.Error("Delete: repository error for blocked time id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted blocked time id=%s", id)
	return nil
}
