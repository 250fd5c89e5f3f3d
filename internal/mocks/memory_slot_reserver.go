package mocks

import (
	"context"
	"sync"
	"time"

	"healthcare-appointment-api/internal/service"

	"github.com/google/uuid"
)

// MemorySlotReserver mirrors the Redis hold semantics: a slot can be held by
// one booking at a time until released.
type MemorySlotReserver struct {
	mu       sync.Mutex
	held     map[string]bool
	reserves int
	releases int

	// ReserveErr, when set, fails every Reserve with that error.
	ReserveErr error
}

func NewMemorySlotReserver() *MemorySlotReserver {
	return &MemorySlotReserver{held: make(map[string]bool)}
}

func (s *MemorySlotReserver) key(doctorID uuid.UUID, t time.Time) string {
	return doctorID.String() + ":" + t.UTC().Format(time.RFC3339)
}

func (s *MemorySlotReserver) Reserve(ctx context.Context, doctorID uuid.UUID, t time.Time, patientID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReserveErr != nil {
		return s.ReserveErr
	}
	key := s.key(doctorID, t)
	if s.held[key] {
		return service.ErrSlotHeld
	}
	s.held[key] = true
	s.reserves++
	return nil
}

func (s *MemorySlotReserver) Release(ctx context.Context, doctorID uuid.UUID, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, s.key(doctorID, t))
	s.releases++
}

// Reserves counts successful holds.
func (s *MemorySlotReserver) Reserves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserves
}

// Releases counts hold releases.
func (s *MemorySlotReserver) Releases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}
