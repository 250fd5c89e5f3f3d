package mocks

import (
	"context"
	"sync"
	"time"

	"healthcare-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// MemoryUserRepository implements repository.UserRepository on a map. It
// enforces the username unique constraint the way the real schema does.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User

	// CreateErr, when set, fails every Create with that error.
	CreateErr error
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*entity.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return DuplicateKeyError("uq_users_username")
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}
