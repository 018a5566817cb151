package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries the caller's
// token, so an expired holder cannot drop a lock someone else now owns.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ProvisionLock marks an email address as being provisioned so concurrent
// requests for the same address fail fast. The database unique index stays
// authoritative; the lock only narrows the window.
// Key format: provision:<lowercased email>
type ProvisionLock struct {
	client *redis.Client
}

func NewProvisionLock(client *redis.Client) *ProvisionLock {
	return &ProvisionLock{client: client}
}

// Acquire reports whether the caller now holds the lock for email. The
// returned token identifies this holder to Release.
func (l *ProvisionLock) Acquire(ctx context.Context, email string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(email), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("provision lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release is a no-op when the lock expired or was taken over by another holder.
func (l *ProvisionLock) Release(ctx context.Context, email, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(email)}, token).Err(); err != nil {
		return fmt.Errorf("provision unlock: %w", err)
	}
	return nil
}

func (l *ProvisionLock) key(email string) string {
	return "provision:" + strings.ToLower(strings.TrimSpace(email))
}
