package mocks

import (
	"context"
	"sync"
	"time"

	"healthcare-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// MemoryAppointmentRepository implements repository.AppointmentRepository on
// a map. Create enforces the partial slot uniqueness the real schema gets
// from uq_appointments_slot: at most one non-cancelled appointment per
// (doctor, time) pair.
type MemoryAppointmentRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment

	// CreateErr, when set, fails every Create with that error.
	CreateErr error
}

func NewMemoryAppointmentRepository() *MemoryAppointmentRepository {
	return &MemoryAppointmentRepository{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (r *MemoryAppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	for _, existing := range r.appointments {
		if existing.DoctorID == appointment.DoctorID &&
			existing.AppointmentTime.Equal(appointment.AppointmentTime) &&
			!existing.IsCancelled() {
			return DuplicateKeyError("uq_appointments_slot")
		}
	}
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	copied := *appointment
	r.appointments[appointment.ID] = &copied
	return nil
}

func (r *MemoryAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appointment, ok := r.appointments[id]; ok {
		copied := *appointment
		return &copied, nil
	}
	return nil, nil
}

func (r *MemoryAppointmentRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Appointment
	for _, appointment := range r.appointments {
		if appointment.DoctorID == doctorID {
			result = append(result, *appointment)
		}
	}
	return result, nil
}

func (r *MemoryAppointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Appointment
	for _, appointment := range r.appointments {
		if appointment.PatientID == patientID {
			result = append(result, *appointment)
		}
	}
	return result, nil
}

func (r *MemoryAppointmentRepository) ExistsByDoctorAndTime(ctx context.Context, doctorID uuid.UUID, t time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appointment := range r.appointments {
		if appointment.DoctorID == doctorID && appointment.AppointmentTime.Equal(t) && !appointment.IsCancelled() {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryAppointmentRepository) CancelByID(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[id]
	if !ok || appointment.IsCancelled() {
		return 0, nil
	}
	appointment.Cancel()
	return 1, nil
}

// Count reports how many appointment rows exist, cancelled included.
func (r *MemoryAppointmentRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments)
}
