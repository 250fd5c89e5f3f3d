package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents the centralized authentication record. Passwords are only
// ever stored as bcrypt hashes.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex:uq_users_username;not null" json:"username"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Roles     RoleSet   `gorm:"type:jsonb;not null" json:"roles"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:UserID" json:"doctor,omitempty"`
}

func (User) TableName() string {
	return "users"
}
