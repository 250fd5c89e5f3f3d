package usecase

import (
	"context"
	"errors"
	"time"

	"healthcare-appointment-api/internal/converter"
	"healthcare-appointment-api/internal/delivery/dto"
	"healthcare-appointment-api/internal/domain/entity"
	"healthcare-appointment-api/internal/domain/repository"
	"healthcare-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorRequired          = errors.New("doctor id is required")
	ErrInvalidDoctorID         = errors.New("doctor id is not a valid uuid")
	ErrAppointmentTimeRequired = errors.New("appointment time is required")
	ErrInvalidTimeFormat       = errors.New("appointment time must be RFC3339 or YYYY-MM-DDTHH:MM")
	ErrSlotUnavailable         = errors.New("doctor is not available at this time")
	ErrDoctorProfileNotFound   = errors.New("doctor profile not found")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotOwned     = errors.New("appointment does not belong to you")
	ErrAlreadyCancelled        = errors.New("appointment is already cancelled")
)

// appointmentTimeLayouts are the accepted request formats. Times are stored
// UTC at minute precision so equal slots always compare equal.
var appointmentTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// SlotReserver serializes concurrent bookings for the same slot.
type SlotReserver interface {
	Reserve(ctx context.Context, doctorID uuid.UUID, t time.Time, patientID uuid.UUID) error
	Release(ctx context.Context, doctorID uuid.UUID, t time.Time)
}

type AppointmentUsecase interface {
	Book(ctx context.Context, caller *entity.User, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	ListForCaller(ctx context.Context, caller *entity.User) (*dto.AppointmentListResponse, error)
	Cancel(ctx context.Context, caller *entity.User, id uuid.UUID) error
}

type appointmentUsecase struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	slots           SlotReserver
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	slots SlotReserver,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		slots:           slots,
		auditService:    auditService,
	}
}

// Book validates and persists an appointment request, enforcing at most one
// non-cancelled appointment per (doctor, time) slot.
//
// Flow:
// 1. Resolve the doctor; reject missing or unknown references
// 2. Parse the requested time
// 3. Check the slot is free, then take the Redis slot hold (atomic under
//    concurrent requests for the same slot)
// 4. Insert with the caller as patient, status PENDING; a unique-index
//    violation on insert is the race backstop, and the hold is released on
//    any insert failure
func (u *appointmentUsecase) Book(ctx context.Context, caller *entity.User, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.DoctorID == "" {
		return nil, ErrDoctorRequired
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrInvalidDoctorID
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointmentTime, err := parseAppointmentTime(req.AppointmentTime)
	if err != nil {
		return nil, err
	}

	taken, err := u.appointmentRepo.ExistsByDoctorAndTime(ctx, doctor.ID, appointmentTime)
	if err != nil {
		u.log.Warnf("Failed to check slot availability: %+v", err)
		return nil, err
	}
	if taken {
		return nil, ErrSlotUnavailable
	}

	if err := u.slots.Reserve(ctx, doctor.ID, appointmentTime, caller.ID); err != nil {
		if errors.Is(err, service.ErrSlotHeld) {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to reserve slot: %+v", err)
		return nil, err
	}

	appointment := &entity.Appointment{
		DoctorID:        doctor.ID,
		PatientID:       caller.ID,
		AppointmentTime: appointmentTime,
		Status:          entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.slots.Release(ctx, doctor.ID, appointmentTime)
		if isDuplicateKeyError(err, "slot") {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to insert appointment: %+v", err)
		return nil, err
	}
	appointment.Doctor = *doctor

	if err := u.auditService.LogCreate(ctx, &caller.ID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, time=%s", appointment.ID, doctor.ID, appointmentTime.Format(time.RFC3339))
	return converter.AppointmentToResponse(appointment), nil
}

// ListForCaller returns the union of the caller's doctor-side and
// patient-side appointments. A caller holding the doctor role without a
// profile fails rather than silently seeing nothing.
func (u *appointmentUsecase) ListForCaller(ctx context.Context, caller *entity.User) (*dto.AppointmentListResponse, error) {
	var appointments []entity.Appointment
	seen := make(map[uuid.UUID]bool)

	if caller.Roles.Has(entity.RoleDoctor) {
		doctor, err := u.doctorRepo.FindByUserID(ctx, caller.ID)
		if err != nil {
			u.log.Warnf("Failed to resolve doctor profile for %s: %+v", caller.Username, err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorProfileNotFound
		}

		doctorSide, err := u.appointmentRepo.FindByDoctorID(ctx, doctor.ID)
		if err != nil {
			u.log.Warnf("Failed to list doctor appointments: %+v", err)
			return nil, err
		}
		for _, a := range doctorSide {
			if !seen[a.ID] {
				seen[a.ID] = true
				appointments = append(appointments, a)
			}
		}
	}

	patientSide, err := u.appointmentRepo.FindByPatientID(ctx, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to list patient appointments: %+v", err)
		return nil, err
	}
	for _, a := range patientSide {
		if !seen[a.ID] {
			seen[a.ID] = true
			appointments = append(appointments, a)
		}
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// Cancel frees a slot. Only the booking patient may cancel, and cancelling
// twice is rejected; the status flip is atomic against concurrent cancels.
func (u *appointmentUsecase) Cancel(ctx context.Context, caller *entity.User, id uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if appointment.PatientID != caller.ID {
		return ErrAppointmentNotOwned
	}
	if appointment.IsCancelled() {
		return ErrAlreadyCancelled
	}

	rows, err := u.appointmentRepo.CancelByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrAlreadyCancelled
	}

	u.slots.Release(ctx, appointment.DoctorID, appointment.AppointmentTime)

	if err := u.auditService.LogUpdate(ctx, &caller.ID, entity.AuditActionAppointmentCancel, "appointment", id.String(), string(appointment.Status), string(entity.AppointmentStatusCancelled)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	u.log.Infof("Appointment cancelled: id=%s", id)
	return nil
}

func parseAppointmentTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, ErrAppointmentTimeRequired
	}
	for _, layout := range appointmentTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(time.Minute), nil
		}
	}
	return time.Time{}, ErrInvalidTimeFormat
}
