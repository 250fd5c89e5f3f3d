package usecase

import (
	"context"
	"errors"

	"healthcare-appointment-api/internal/converter"
	"healthcare-appointment-api/internal/delivery/dto"
	"healthcare-appointment-api/internal/domain/entity"
	"healthcare-appointment-api/internal/domain/repository"
	"healthcare-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorProfileExists = errors.New("user already owns a doctor profile")
	ErrNotProfileOwner     = errors.New("doctor profile belongs to another user")
)

type DoctorUsecase interface {
	CreateProfile(ctx context.Context, caller *entity.User, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	List(ctx context.Context, specialty string) (*dto.DoctorListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	Update(ctx context.Context, id uuid.UUID, caller *entity.User, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

// CreateProfile binds a new doctor profile to the calling user. A user owns
// at most one profile; the unique index on user_id backs the pre-check.
func (u *doctorUsecase) CreateProfile(ctx context.Context, caller *entity.User, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	existing, err := u.doctorRepo.FindByUserID(ctx, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to check existing doctor profile: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDoctorProfileExists
	}

	doctor := &entity.Doctor{
		Name:      req.Name,
		Specialty: req.Specialty,
		Contact:   req.Contact,
		UserID:    caller.ID,
	}

	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		// Concurrent create for the same user loses against the index.
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrDoctorProfileExists
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, &caller.ID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	u.log.Infof("Doctor profile created: id=%s, user=%s", doctor.ID, caller.Username)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) List(ctx context.Context, specialty string) (*dto.DoctorListResponse, error) {
	var (
		doctors []entity.Doctor
		err     error
	)
	if specialty == "" {
		doctors, err = u.doctorRepo.FindAll(ctx)
	} else {
		doctors, err = u.doctorRepo.FindBySpecialty(ctx, specialty)
	}
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

// Update mutates name/specialty/contact. Only the owning user may update;
// anyone else gets ErrNotProfileOwner, distinct from not-found.
func (u *doctorUsecase) Update(ctx context.Context, id uuid.UUID, caller *entity.User, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if doctor.UserID != caller.ID {
		return nil, ErrNotProfileOwner
	}

	oldValue := converter.DoctorToResponse(doctor)

	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Specialty != "" {
		doctor.Specialty = req.Specialty
	}
	if req.Contact != "" {
		doctor.Contact = req.Contact
	}

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", id, err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, &caller.ID, entity.AuditActionDoctorUpdate, "doctor", id.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	return newValue, nil
}
