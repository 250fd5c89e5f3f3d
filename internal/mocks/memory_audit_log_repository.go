package mocks

import (
	"context"
	"sync"

	"healthcare-appointment-api/internal/domain/entity"
)

// MemoryAuditLogRepository implements repository.AuditLogRepository on a
// slice, in insertion order.
type MemoryAuditLogRepository struct {
	mu      sync.Mutex
	entries []entity.AuditLog
}

func NewMemoryAuditLogRepository() *MemoryAuditLogRepository {
	return &MemoryAuditLogRepository{}
}

func (r *MemoryAuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

func (r *MemoryAuditLogRepository) FindAll(ctx context.Context) ([]entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.AuditLog(nil), r.entries...), nil
}

// Actions returns the recorded action names in insertion order.
func (r *MemoryAuditLogRepository) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, len(r.entries))
	for i, e := range r.entries {
		actions[i] = e.Action
	}
	return actions
}
