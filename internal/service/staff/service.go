package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	staffRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-ReservationService/internal/service/staff/models"
)

// Service сервис для управления сотрудниками, сменами и отпусками
type Service struct {
	staffRepo StaffRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса сотрудников
func NewService(staffRepo StaffRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		staffRepo: staffRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create создает сотрудника
// Доступно только администраторам
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreateStaffRequest) (*models.StaffResponse, error) {
	s.logger.Info("Create: creating staff name=%s by user=%s", req.Name, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Create: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	if strings.TrimSpace(req.Name) == "" || len(req.Name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if req.DisplayOrder < 0 {
		return nil, fmt.Errorf("%w: displayOrder must not be negative", ErrInvalidInput)
	}

	created, err := s.staffRepo.Create(ctx, req.ToDomain())
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created staff id=%s", created.ID)
	return models.FromDomainStaff(created), nil
}

// Update обновляет основные поля сотрудника
func (s *Service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.UpdateStaffRequest) (*models.StaffResponse, error) {
	s.logger.Info("Update: updating staff id=%s by user=%s", id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Update: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	if req.Name != nil && (strings.TrimSpace(*req.Name) == "" || len(*req.Name) > domain.MaxNameLength) {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if req.DisplayOrder != nil && *req.DisplayOrder < 0 {
		return nil, fmt.Errorf("%w: displayOrder must not be negative", ErrInvalidInput)
	}

	var result *domain.Staff
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.getByID(txCtx, id, "Update")
		if err != nil {
			return err
		}

		req.ApplyTo(current)

		updated, err := s.staffRepo.Update(txCtx, current)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				return ErrStaffNotFound
			}
			s.logger.Error("Update: repository error for staff id=%s: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated staff id=%s", id)
	return models.FromDomainStaff(result), nil
}

// Deactivate выключает сотрудника, его бронирования сохраняются
func (s *Service) Deactivate(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.StaffResponse, error) {
	inactive := false
	return s.Update(ctx, actor, id, &models.UpdateStaffRequest{IsActive: &inactive})
}

// GetByID получает сотрудника по ID вместе со сменами и отпусками
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.StaffResponse, error) {
	s.logger.Info("GetByID: fetching staff id=%s", id)

	staff, err := s.getByID(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}
	return models.FromDomainStaff(staff), nil
}

// List получает список сотрудников в порядке отображения
func (s *Service) List(ctx context.Context, includeInactive bool) (*models.StaffListResponse, error) {
	s.logger.Info("List: fetching staff, includeInactive=%t", includeInactive)

	staff, err := s.staffRepo.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d staff", len(staff))
	return models.FromDomainStaffList(staff), nil
}

// ReplaceShifts заменяет все недельные смены сотрудника
func (s *Service) ReplaceShifts(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.ReplaceShiftsRequest) (*models.StaffResponse, error) {
	s.logger.Info("ReplaceShifts: replacing %d shifts for staff id=%s by user=%s", len(req.Shifts), id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("ReplaceShifts: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	shifts, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("ReplaceShifts: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Staff
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getByID(txCtx, id, "ReplaceShifts"); err != nil {
			return err
		}

		if err := s.staffRepo.ReplaceShifts(txCtx, id, shifts); err != nil {
			s.logger.Error("ReplaceShifts: repository error for staff id=%s: %v", id, err)
			return fmt.Errorf("%w: ReplaceShifts - repository error: %v", ErrInternal, err)
		}

		updated, err := s.getByID(txCtx, id, "ReplaceShifts")
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ReplaceShifts: successfully replaced shifts for staff id=%s", id)
	return models.FromDomainStaff(result), nil
}

// AddVacation добавляет отпуск сотруднику
func (s *Service) AddVacation(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.AddVacationRequest) (*models.VacationResponse, error) {
	s.logger.Info("AddVacation: staff id=%s, %s..%s by user=%s", id, req.StartDate, req.EndDate, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("AddVacation: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	vacation, err := req.ToDomain(id)
	if err != nil {
		s.logger.Warn("AddVacation: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.staffRepo.AddVacation(ctx, vacation)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("AddVacation: staff id=%s not found", id)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("AddVacation: repository error for staff id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: AddVacation - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddVacation: successfully added vacation id=%s for staff id=%s", created.ID, id)
	return &models.VacationResponse{
		ID:        created.ID,
		StartDate: created.StartDate.Format(domain.DateFormat),
		EndDate:   created.EndDate.Format(domain.DateFormat),
		Reason:    created.Reason,
	}, nil
}

// DeleteVacation удаляет отпуск сотрудника
func (s *Service) DeleteVacation(ctx context.Context, actor domain.Actor, staffID, vacationID uuid.UUID) error {
	s.logger.Info("DeleteVacation: staff id=%s, vacation id=%s by user=%s", staffID, vacationID, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("DeleteVacation: user=%s is not an admin", actor.UserID)
		return ErrAccessDenied
	}

	if err := s.staffRepo.DeleteVacation(ctx, staffID, vacationID); err != nil {
		if errors.Is(err, staffRepo.ErrVacationNotFound) {
			s.logger.Warn("DeleteVacation: vacation id=%s not found", vacationID)
			return ErrVacationNotFound
		}
		s.logger.Error("DeleteVacation: repository error: %v", err)
		return fmt.Errorf("%w: DeleteVacation - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteVacation: successfully deleted vacation id=%s", vacationID)
	return nil
}

func (s *Service) getByID(ctx context.Context, id uuid.UUID, op string) (*domain.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff id=%s not found", op, id)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("%s: repository error for staff id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return staff, nil
}
