package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/melodia/admin-api/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes indexes events by username and time for per-user history queries.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}

// InsertEvent persists an audit event to the auth_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	_, err := r.coll.InsertOne(ctx, auditDocument(event, time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func auditDocument(event *domain.AuthEvent, recordedAt time.Time) bson.M {
	doc := bson.M{
		"kind":        string(event.Kind),
		"username":    event.Username,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": recordedAt,
	}
	if event.PrincipalID != "" {
		doc["principal_id"] = event.PrincipalID
	}
	if event.ActorID != "" {
		doc["actor_id"] = event.ActorID
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}
	return doc
}
