package redis

import (
	"context"
	"fmt"

	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/traveldesk/cashbox/internal/domain"
)

// Lua script for a token-checked release: only the holder that set the key
// may delete it, so a lock that expired and was re-acquired by someone else
// survives the stale release.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// EmployeeLocker implements usecase.EmployeeLocker using Redis SET NX.
// One lock per employee serializes cascades and reconciliations over the
// same box chain across server instances.
type EmployeeLocker struct {
	client *redis.Client
	prefix string
}

// NewEmployeeLocker creates a new EmployeeLocker.
func NewEmployeeLocker(client *redis.Client) *EmployeeLocker {
	return &EmployeeLocker{
		client: client,
		prefix: "lock:employee:",
	}
}

// Acquire takes the employee lock and returns its release func. Returns
// domain.ErrEmployeeLocked while another holder is active. The TTL bounds
// how long a crashed holder can block the employee.
func (l *EmployeeLocker) Acquire(ctx context.Context, employeeID int64, ttl time.Duration) (func(context.Context) error, error) {
	key := fmt.Sprintf("%s%d", l.prefix, employeeID)
	token := uuid.New().String()

	set, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}

	if !set {
		return nil, domain.ErrEmployeeLocked
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}

	return release, nil
}
