package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor represents a doctor profile in the directory. Each profile is bound
// one-to-one to its owning user; the unique index on user_id backs that
// invariant at the storage layer.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Specialty string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Contact   string    `gorm:"type:varchar(255)" json:"contact,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_doctors_user_id;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
