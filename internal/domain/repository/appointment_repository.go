package repository

import (
	"context"
	"time"

	"healthcare-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	// ExistsByDoctorAndTime reports whether a non-cancelled appointment
	// already occupies the (doctor, time) slot.
	ExistsByDoctorAndTime(ctx context.Context, doctorID uuid.UUID, t time.Time) (bool, error)
	// CancelByID atomically flips status to cancelled unless it already is.
	// Returns affected rows: 1 = cancelled now, 0 = was already cancelled.
	CancelByID(ctx context.Context, id uuid.UUID) (int64, error)
}
