package mocks

import (
	"context"
	"sync"
	"time"

	"healthcare-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// MemoryDoctorRepository implements repository.DoctorRepository on a map,
// enforcing the one-profile-per-user unique constraint.
type MemoryDoctorRepository struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*entity.Doctor
}

func NewMemoryDoctorRepository() *MemoryDoctorRepository {
	return &MemoryDoctorRepository{doctors: make(map[uuid.UUID]*entity.Doctor)}
}

func (r *MemoryDoctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.doctors {
		if existing.UserID == doctor.UserID {
			return DuplicateKeyError("uq_doctors_user_id")
		}
	}
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	copied := *doctor
	r.doctors[doctor.ID] = &copied
	return nil
}

func (r *MemoryDoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doctor, ok := r.doctors[id]; ok {
		copied := *doctor
		return &copied, nil
	}
	return nil, nil
}

func (r *MemoryDoctorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doctor := range r.doctors {
		if doctor.UserID == userID {
			copied := *doctor
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryDoctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]entity.Doctor, 0, len(r.doctors))
	for _, doctor := range r.doctors {
		result = append(result, *doctor)
	}
	return result, nil
}

func (r *MemoryDoctorRepository) FindBySpecialty(ctx context.Context, specialty string) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Doctor
	for _, doctor := range r.doctors {
		if doctor.Specialty == specialty {
			result = append(result, *doctor)
		}
	}
	return result, nil
}

func (r *MemoryDoctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doctor
	r.doctors[doctor.ID] = &copied
	return nil
}
