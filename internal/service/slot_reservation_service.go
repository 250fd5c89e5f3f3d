package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotHeld is returned when another in-flight booking holds the slot.
var ErrSlotHeld = errors.New("slot is already reserved")

// reserveScript claims the slot key only when absent, with a TTL. The hold
// covers the window between the availability check and the database insert;
// once the appointment row exists, the row itself blocks later bookings.
//
// The Redis client switches to EVALSHA automatically after the first call.
var reserveScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
	return 1
`)

const (
	slotKeyPrefix = "appointment:slot:"

	// Long enough to outlive any booking request, short enough not to block
	// a slot after a crashed request.
	defaultHoldTTL = 2 * time.Minute
)

// SlotReservationService serializes concurrent bookings for the same
// (doctor, time) slot through an atomic Redis hold. Redis being down is not
// fatal: the partial unique index on appointments is the backstop.
type SlotReservationService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	holdTTL     time.Duration
}

func NewSlotReservationService(redisClient *redis.Client, log *logrus.Logger) *SlotReservationService {
	return &SlotReservationService{
		redisClient: redisClient,
		log:         log,
		holdTTL:     defaultHoldTTL,
	}
}

func slotKey(doctorID uuid.UUID, t time.Time) string {
	return fmt.Sprintf("%s%s:%d", slotKeyPrefix, doctorID, t.UTC().Unix())
}

// Reserve claims the slot for the given patient. ErrSlotHeld means another
// request got there first.
func (s *SlotReservationService) Reserve(ctx context.Context, doctorID uuid.UUID, t time.Time, patientID uuid.UUID) error {
	key := slotKey(doctorID, t)
	res, err := reserveScript.Run(ctx, s.redisClient, []string{key}, patientID.String(), s.holdTTL.Milliseconds()).Int()
	if err != nil {
		// Degrade to the storage-level unique constraint.
		s.log.Warnf("Redis slot reservation unavailable for %s: %+v", key, err)
		return nil
	}
	if res == 0 {
		return ErrSlotHeld
	}
	return nil
}

// Release frees the hold, used both as compensation when the insert fails
// and on cancellation. A missing key is not an error.
func (s *SlotReservationService) Release(ctx context.Context, doctorID uuid.UUID, t time.Time) {
	key := slotKey(doctorID, t)
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.log.Warnf("Failed to release slot hold %s (non-fatal): %+v", key, err)
	}
}
