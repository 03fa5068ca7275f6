package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedbackhub/portal/internal/core/ports"
)

const sessionCollection = "sessions"

// SessionRepository keeps one document per session. Entry writes touch a
// single document, which MongoDB applies atomically.
type SessionRepository struct {
	col *mongo.Collection
	ttl time.Duration
	now func() time.Time
}

func NewSessionRepository(db *mongo.Database, ttl time.Duration) *SessionRepository {
	return &SessionRepository{col: db.Collection(sessionCollection), ttl: ttl, now: time.Now}
}

type sessionDocument struct {
	ID        string            `bson:"_id"`
	Entries   map[string]string `bson:"entries"`
	UpdatedAt time.Time         `bson:"updated_at"`
	ExpiresAt *time.Time        `bson:"expires_at,omitempty"`
}

func (r *SessionRepository) Get(ctx context.Context, sid, key string) (string, error) {
	var doc sessionDocument
	err := r.col.FindOne(ctx, bson.M{"_id": sid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ports.ErrSessionEntryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo session get: %w", err)
	}
	// The TTL monitor runs about once a minute; expired documents may linger.
	if doc.ExpiresAt != nil && r.now().After(*doc.ExpiresAt) {
		return "", ports.ErrSessionEntryNotFound
	}
	v, ok := doc.Entries[key]
	if !ok {
		return "", ports.ErrSessionEntryNotFound
	}
	return v, nil
}

func (r *SessionRepository) Set(ctx context.Context, sid string, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	now := r.now().UTC()
	set := bson.M{"updated_at": now}
	for k, v := range entries {
		set["entries."+k] = v
	}
	if r.ttl > 0 {
		set["expires_at"] = now.Add(r.ttl)
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": sid},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo session set: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["entries."+k] = ""
	}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": sid}, bson.M{"$unset": unset}); err != nil {
		return fmt.Errorf("mongo session delete: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the TTL index that lets MongoDB drop expired sessions.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
