package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис для чтения и выгрузки бронирований
type Service struct {
	reservationRepo ReservationRepository
	flags           FeatureFlagProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	flags FeatureFlagProvider,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		flags:           flags,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, администратор любые
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%s for user=%s", id, actor.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.IsAdmin() && !reservation.IsOwnedBy(actor.UserID) {
		s.logger.Warn("GetByID: access denied for user=%s to reservation id=%s", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%s", id)
	return models.FromDomainReservation(reservation), nil
}

// ListOwn получает бронирования текущего пользователя
// Опционально фильтрует по статусу, без статуса возвращает всю историю
func (s *Service) ListOwn(ctx context.Context, actor domain.Actor, status *string) (*models.ReservationListResponse, error) {
	s.logger.Info("ListOwn: fetching reservations for user=%s, status=%v", actor.UserID, status)

	req := &models.ListReservationsRequest{
		UserID:          &actor.UserID,
		Status:          status,
		IncludeInactive: true,
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListOwn: invalid status for user=%s", actor.UserID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListOwn: repository error for user=%s: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: ListOwn - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListOwn: successfully fetched %d reservations for user=%s", len(reservations), actor.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// List получает бронирования магазина с фильтрацией
// Доступно только администраторам
//
// Примеры использования:
// - Все активные бронирования: List(ctx, admin, &ListReservationsRequest{})
// - Бронирования сотрудника на дату: StaffID, StartDate и EndDate на одну дату
// - Включая отмененные: IncludeInactive = true
func (s *Service) List(ctx context.Context, actor domain.Actor, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := fmt.Sprintf("List: fetching reservations by user=%s", actor.UserID)
	if req.StaffID != nil {
		logMsg += fmt.Sprintf(", staff=%s", *req.StaffID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !actor.IsAdmin() {
		s.logger.Warn("List: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, ErrInvalidTimeRange
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}
