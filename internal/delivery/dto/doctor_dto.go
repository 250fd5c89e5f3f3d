package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Specialty string `json:"specialty" validate:"required"`
	Contact   string `json:"contact" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	Name      string `json:"name" validate:"omitempty,min=2"`
	Specialty string `json:"specialty" validate:"omitempty"`
	Contact   string `json:"contact" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Contact   string    `json:"contact,omitempty"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
