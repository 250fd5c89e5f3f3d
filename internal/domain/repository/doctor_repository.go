package repository

import (
	"context"

	"healthcare-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	// FindByUserID resolves the profile owned by a user, (nil, nil) when absent.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context) ([]entity.Doctor, error)
	FindBySpecialty(ctx context.Context, specialty string) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
}
