package repository

import (
	"context"
	"sync"
	"time"

	"otp-gateway/models/otp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryOTPRepository keeps records in a mutex-guarded map keyed by
// userId, which mirrors the upsert semantics of the Mongo repository. It
// backs the test suites and lets the gateway run without a Mongo instance.
type InMemoryOTPRepository struct {
	mu      sync.Mutex
	byUser  map[string]*otp.OTP
	nowFunc func() time.Time
}

// NewInMemoryOTPRepository creates an empty in-memory repository.
func NewInMemoryOTPRepository() *InMemoryOTPRepository {
	return &InMemoryOTPRepository{
		byUser:  make(map[string]*otp.OTP),
		nowFunc: time.Now,
	}
}

// SetNow overrides the clock, letting tests move records past expiry.
func (r *InMemoryOTPRepository) SetNow(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nowFunc = now
}

func (r *InMemoryOTPRepository) Replace(_ context.Context, rec *otp.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[rec.UserID]; ok {
		rec.ID = prev.ID
	} else {
		rec.ID = primitive.NewObjectID()
	}
	clone := *rec
	r.byUser[rec.UserID] = &clone
	return nil
}

func (r *InMemoryOTPRepository) FindActiveByUserID(_ context.Context, userID string) (*otp.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byUser[userID]
	if !ok || rec.IsUsed || !rec.ExpiryTime.After(r.nowFunc()) {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (r *InMemoryOTPRepository) FindByUserID(_ context.Context, userID string) (*otp.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (r *InMemoryOTPRepository) IncrementAttempts(_ context.Context, id primitive.ObjectID) (*otp.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.byUser {
		if rec.ID == id && !rec.IsUsed {
			rec.Attempts++
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *InMemoryOTPRepository) MarkUsed(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.byUser {
		if rec.ID == id && !rec.IsUsed {
			rec.IsUsed = true
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryOTPRepository) CountTotal(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byUser)), nil
}

func (r *InMemoryOTPRepository) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := r.nowFunc()
	for _, rec := range r.byUser {
		if !rec.IsUsed && rec.ExpiryTime.After(now) {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryOTPRepository) CountExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := r.nowFunc()
	for _, rec := range r.byUser {
		if !rec.ExpiryTime.After(now) {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryOTPRepository) CountUsed(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, rec := range r.byUser {
		if rec.IsUsed {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryOTPRepository) DeleteExpiredOrUsed(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := r.nowFunc()
	for userID, rec := range r.byUser {
		if rec.IsUsed || !rec.ExpiryTime.After(now) {
			delete(r.byUser, userID)
			n++
		}
	}
	return n, nil
}
