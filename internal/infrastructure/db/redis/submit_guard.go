package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 30 * time.Second

// SubmitGuard rejects repeated leave-request submissions within a short
// window, catching double form posts before they reach the backend.
// Key format: submit:<user_id>:<leave_type_id>:<start>:<end>
type SubmitGuard struct {
	client *redis.Client
}

// NewSubmitGuard creates a SubmitGuard wrapping the given Redis client.
func NewSubmitGuard(client *redis.Client) *SubmitGuard {
	return &SubmitGuard{client: client}
}

// IsDuplicate reports whether an identical submission was seen recently.
func (g *SubmitGuard) IsDuplicate(ctx context.Context, userID, leaveTypeID int, start, end string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(userID, leaveTypeID, start, end)).Result()
	if err != nil {
		return false, fmt.Errorf("submit guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records a submission (expires after guardTTL).
func (g *SubmitGuard) Mark(ctx context.Context, userID, leaveTypeID int, start, end string) error {
	return g.client.Set(ctx, g.key(userID, leaveTypeID, start, end), "1", guardTTL).Err()
}

func (g *SubmitGuard) key(userID, leaveTypeID int, start, end string) string {
	return fmt.Sprintf("submit:%d:%d:%s:%s", userID, leaveTypeID, start, end)
}
