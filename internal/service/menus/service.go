package menus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	menuRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/menu"
	"github.com/m04kA/SMC-ReservationService/internal/service/menus/models"
)

// Service сервис для управления меню
type Service struct {
	menuRepo        MenuRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса меню
func NewService(
	menuRepo MenuRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		menuRepo:        menuRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Create создает меню
// Доступно только администраторам
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreateMenuRequest) (*models.MenuResponse, error) {
	s.logger.Info("Create: creating menu name=%s by user=%s", req.Name, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Create: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	menu := req.ToDomain()
	if err := validateMenu(menu); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.menuRepo.Create(ctx, menu)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created menu id=%s", created.ID)
	return models.FromDomainMenu(created), nil
}

// Update обновляет меню
func (s *Service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.UpdateMenuRequest) (*models.MenuResponse, error) {
	s.logger.Info("Update: updating menu id=%s by user=%s", id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Update: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	var result *domain.Menu
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.getByID(txCtx, id, "Update")
		if err != nil {
			return err
		}

		req.ApplyTo(current)
		if err := validateMenu(current); err != nil {
			s.logger.Warn("Update: validation failed: %v", err)
			return err
		}

		updated, err := s.menuRepo.Update(txCtx, current)
		if err != nil {
			if errors.Is(err, menuRepo.ErrMenuNotFound) {
				return ErrMenuNotFound
			}
			s.logger.Error("Update: repository error for menu id=%s: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated menu id=%s", id)
	return models.FromDomainMenu(result), nil
}

// GetByID получает меню по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuResponse, error) {
	s.logger.Info("GetByID: fetching menu id=%s", id)

	menu, err := s.getByID(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}
	return models.FromDomainMenu(menu), nil
}

// List получает список меню
// Публичный список содержит только активные позиции
func (s *Service) List(ctx context.Context, activeOnly bool) (*models.MenuListResponse, error) {
	s.logger.Info("List: fetching menus, activeOnly=%t", activeOnly)

	menus, err := s.menuRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d menus", len(menus))
	return models.FromDomainMenuList(menus), nil
}

// Delete удаляет меню
// Меню, на которое ссылаются бронирования, не удаляется, а выключается
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.DeleteMenuResponse, error) {
	s.logger.Info("Delete: deleting menu id=%s by user=%s", id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Delete: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	result := &models.DeleteMenuResponse{ID: id}
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		menu, err := s.getByID(txCtx, id, "Delete")
		if err != nil {
			return err
		}

		referenced, err := s.reservationRepo.ExistsByMenu(txCtx, id)
		if err != nil {
			s.logger.Error("Delete: failed to check references for menu id=%s: %v", id, err)
			return fmt.Errorf("%w: Delete - check references: %v", ErrInternal, err)
		}

		if referenced {
			menu.IsActive = false
			if _, err := s.menuRepo.Update(txCtx, menu); err != nil {
				s.logger.Error("Delete: failed to deactivate menu id=%s: %v", id, err)
				return fmt.Errorf("%w: Delete - deactivate: %v", ErrInternal, err)
			}
			result.Deactivated = true
			return nil
		}

		if err := s.menuRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, menuRepo.ErrMenuNotFound) {
				return ErrMenuNotFound
			}
			s.logger.Error("Delete: repository error for menu id=%s: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		result.Deleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Delete: menu id=%s deleted=%t, deactivated=%t", id, result.Deleted, result.Deactivated)
	return result, nil
}

func (s *Service) getByID(ctx context.Context, id uuid.UUID, op string) (*domain.Menu, error) {
	menu, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			s.logger.Warn("%s: menu id=%s not found", op, id)
			return nil, ErrMenuNotFound
		}
		s.logger.Error("%s: repository error for menu id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return menu, nil
}

// validateMenu проверяет бизнес-ограничения меню
func validateMenu(m *domain.Menu) error {
	if strings.TrimSpace(m.Name) == "" || len(m.Name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if strings.TrimSpace(m.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if m.Price < domain.MinMenuPrice || m.Price > domain.MaxMenuPrice {
		return fmt.Errorf("%w: price must be between %d and %d", ErrInvalidInput, domain.MinMenuPrice, domain.MaxMenuPrice)
	}
	if m.DurationMinutes < domain.MinMenuDurationMinutes || m.DurationMinutes > domain.MaxMenuDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinMenuDurationMinutes, domain.MaxMenuDurationMinutes)
	}
	return nil
}
