package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	menuRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/menu"
	staffRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/staff"
)

// StaffRepository сотрудники в памяти
type StaffRepository struct {
	store *Store
}

// Create создает сотрудника
func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := r.store.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.store.data.staff[s.ID] = s.Clone()
	return s, nil
}

// Update обновляет основные поля сотрудника, расписание не трогает
func (r *StaffRepository) Update(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.data.staff[s.ID]
	if !ok {
		return nil, staffRepo.ErrStaffNotFound
	}

	existing.Name = s.Name
	existing.Email = s.Email
	existing.Phone = s.Phone
	existing.IsActive = s.IsActive
	existing.DisplayOrder = s.DisplayOrder
	existing.UpdatedAt = r.store.now()

	s.UpdatedAt = existing.UpdatedAt
	return s, nil
}

// GetByID получает сотрудника
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	s, ok := r.store.data.staff[id]
	if !ok {
		return nil, staffRepo.ErrStaffNotFound
	}
	return s.Clone(), nil
}

// List получает сотрудников в порядке автоназначения
func (r *StaffRepository) List(ctx context.Context, includeInactive bool) ([]*domain.Staff, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]*domain.Staff, 0, len(r.store.data.staff))
	for _, s := range r.store.data.staff {
		if includeInactive || s.IsActive {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return strings.Compare(a.ID.String(), b.ID.String()) < 0
	})
	return out, nil
}

// ReplaceShifts заменяет смены сотрудника
func (r *StaffRepository) ReplaceShifts(ctx context.Context, staffID uuid.UUID, shifts []domain.StaffShift) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	s, ok := r.store.data.staff[staffID]
	if !ok {
		return staffRepo.ErrStaffNotFound
	}
	s.Shifts = append([]domain.StaffShift(nil), shifts...)
	return nil
}

// AddVacation добавляет отпуск
func (r *StaffRepository) AddVacation(ctx context.Context, v *domain.StaffVacation) (*domain.StaffVacation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	s, ok := r.store.data.staff[v.StaffID]
	if !ok {
		return nil, staffRepo.ErrStaffNotFound
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	s.Vacations = append(s.Vacations, *v)
	return v, nil
}

// DeleteVacation удаляет отпуск
func (r *StaffRepository) DeleteVacation(ctx context.Context, staffID, vacationID uuid.UUID) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	s, ok := r.store.data.staff[staffID]
	if !ok {
		return staffRepo.ErrVacationNotFound
	}
	for i, v := range s.Vacations {
		if v.ID == vacationID {
			s.Vacations = append(s.Vacations[:i], s.Vacations[i+1:]...)
			return nil
		}
	}
	return staffRepo.ErrVacationNotFound
}

// MenuRepository меню в памяти
type MenuRepository struct {
	store *Store
}

// Create создает меню
func (r *MenuRepository) Create(ctx context.Context, m *domain.Menu) (*domain.Menu, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := r.store.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	stored := *m
	r.store.data.menus[m.ID] = &stored
	return m, nil
}

// Update обновляет меню
func (r *MenuRepository) Update(ctx context.Context, m *domain.Menu) (*domain.Menu, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.data.menus[m.ID]
	if !ok {
		return nil, menuRepo.ErrMenuNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = r.store.now()
	stored := *m
	r.store.data.menus[m.ID] = &stored
	return m, nil
}

// GetByID получает меню
func (r *MenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Menu, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	m, ok := r.store.data.menus[id]
	if !ok {
		return nil, menuRepo.ErrMenuNotFound
	}
	out := *m
	return &out, nil
}

// List получает меню, отсортированные по категории и названию
func (r *MenuRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Menu, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]*domain.Menu, 0, len(r.store.data.menus))
	for _, m := range r.store.data.menus {
		if activeOnly && !m.IsActive {
			continue
		}
		menu := *m
		out = append(out, &menu)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Delete удаляет меню
func (r *MenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.menus[id]; !ok {
		return menuRepo.ErrMenuNotFound
	}
	delete(r.store.data.menus, id)
	return nil
}
