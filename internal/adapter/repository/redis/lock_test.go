package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/traveldesk/cashbox/internal/domain"
)

func TestEmployeeLockerAcquireAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	locker := NewEmployeeLocker(client)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, 7, time.Minute)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	if _, err := locker.Acquire(ctx, 7, time.Minute); !errors.Is(err, domain.ErrEmployeeLocked) {
		t.Fatalf("expected ErrEmployeeLocked, got %v", err)
	}

	// Another employee's lock is independent.
	otherRelease, err := locker.Acquire(ctx, 8, time.Minute)
	if err != nil {
		t.Fatalf("acquire for other employee failed: %v", err)
	}
	defer func() { _ = otherRelease(ctx) }()

	if err := release(ctx); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	release, err = locker.Acquire(ctx, 7, time.Minute)
	if err != nil {
		t.Fatalf("expected re-acquire after release, got %v", err)
	}
	_ = release(ctx)
}

func TestEmployeeLockerStaleReleaseKeepsNewHolder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	locker := NewEmployeeLocker(client)
	ctx := context.Background()

	staleRelease, err := locker.Acquire(ctx, 7, time.Minute)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	// Simulate TTL expiry and a new holder taking over.
	mr.FastForward(2 * time.Minute)

	newRelease, err := locker.Acquire(ctx, 7, time.Minute)
	if err != nil {
		t.Fatalf("acquire after expiry failed: %v", err)
	}
	defer func() { _ = newRelease(ctx) }()

	if err := staleRelease(ctx); err != nil {
		t.Fatalf("stale release errored: %v", err)
	}

	// The stale release must not free the new holder's lock.
	if _, err := locker.Acquire(ctx, 7, time.Minute); !errors.Is(err, domain.ErrEmployeeLocked) {
		t.Fatalf("expected lock still held by new holder, got %v", err)
	}
}
