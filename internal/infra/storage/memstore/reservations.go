package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
)

// ReservationRepository бронирования в памяти
// Повторяет контракт reservation.Repository, включая уникальность активного слота
type ReservationRepository struct {
	store *Store
}

// Create создает бронирование
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if r.slotTaken(res) {
		return nil, reservationRepo.ErrSlotTaken
	}

	now := r.store.now()
	res.CreatedAt = now
	res.UpdatedAt = now
	r.store.data.reservations[res.ID] = res.Clone()

	return res, nil
}

// GetByID получает бронирование по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	res, ok := r.store.data.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res.Clone(), nil
}

// List получает бронирования по фильтру
func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]*domain.Reservation, 0)
	for _, res := range r.store.data.reservations {
		if filter.Matches(res) {
			out = append(out, res.Clone())
		}
	}
	sortReservations(out)
	return out, nil
}

// ListActiveByStaffAndDate получает активные бронирования сотрудника на дату
func (r *ReservationRepository) ListActiveByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*domain.Reservation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]*domain.Reservation, 0)
	for _, res := range r.store.data.reservations {
		if res.IsActive() && res.StaffID != nil && *res.StaffID == staffID && domain.SameDay(res.ReservedDate, date) {
			out = append(out, res.Clone())
		}
	}
	sortReservations(out)
	return out, nil
}

// Update сохраняет изменения бронирования
func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.data.reservations[res.ID]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	if r.slotTaken(res) {
		return nil, reservationRepo.ErrSlotTaken
	}

	res.CreatedAt = existing.CreatedAt
	res.UpdatedAt = r.store.now()
	r.store.data.reservations[res.ID] = res.Clone()

	return res, nil
}

// ExistsByMenu проверяет наличие бронирований с меню
func (r *ReservationRepository) ExistsByMenu(ctx context.Context, menuID uuid.UUID) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, res := range r.store.data.reservations {
		if res.MenuID == menuID {
			return true, nil
		}
	}
	return false, nil
}

// LockStaffDay транзакции в памяти уже сериализованы
func (r *ReservationRepository) LockStaffDay(ctx context.Context, staffID uuid.UUID, date time.Time) error {
	return nil
}

// slotTaken повторяет частичный уникальный индекс (staff_id, reserved_date, reserved_time) для активных статусов
func (r *ReservationRepository) slotTaken(res *domain.Reservation) bool {
	if res.StaffID == nil || !res.IsActive() {
		return false
	}
	for id, other := range r.store.data.reservations {
		if id == res.ID || !other.IsActive() || other.StaffID == nil {
			continue
		}
		if *other.StaffID == *res.StaffID &&
			domain.SameDay(other.ReservedDate, res.ReservedDate) &&
			other.ReservedTime == res.ReservedTime {
			return true
		}
	}
	return false
}

func sortReservations(list []*domain.Reservation) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !domain.SameDay(a.ReservedDate, b.ReservedDate) {
			return a.ReservedDate.Before(b.ReservedDate)
		}
		if a.ReservedTime != b.ReservedTime {
			return a.ReservedTime.IsBefore(b.ReservedTime)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
