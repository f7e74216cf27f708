package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bt-group/leave-portal/internal/core/ports"
)

const auditCollection = "auth_audit"

// AuditRepository writes auth events to the audit trail collection.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRecorder = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Event     string `bson:"event"`
	Email     string `bson:"email,omitempty"`
	RoleID    int    `bson:"role_id,omitempty"`
	UserID    int    `bson:"user_id,omitempty"`
	SessionID string `bson:"session_id,omitempty"`
	At        int64  `bson:"at"`
}

// Record inserts a single audit entry.
func (r *AuditRepository) Record(ctx context.Context, entry ports.AuditEntry) error {
	doc := auditDoc{
		Event:     entry.Event,
		Email:     entry.Email,
		RoleID:    int(entry.RoleID),
		UserID:    entry.UserID,
		SessionID: entry.SessionID,
		At:        entry.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
