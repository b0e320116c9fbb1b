package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/messagely/messaging-system/internal/core/domain"
	"github.com/messagely/messaging-system/internal/core/ports"
)

// MessageRepository stores messages keyed by integer ids handed out by an
// external sequence, since MongoDB has no auto-increment.
type MessageRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
	seq   ports.Sequence
}

func NewMessageRepository(db *mongo.Database, seq ports.Sequence) *MessageRepository {
	return &MessageRepository{
		coll:  db.Collection(collectionMessages),
		users: db.Collection(collectionUsers),
		seq:   seq,
	}
}

type mongoMessage struct {
	ID           int64      `bson:"_id"`
	FromUsername string     `bson:"from_username"`
	ToUsername   string     `bson:"to_username"`
	Body         string     `bson:"body"`
	SentAt       time.Time  `bson:"sent_at"`
	ReadAt       *time.Time `bson:"read_at"`
}

func (mm *mongoMessage) toDomain() *domain.Message {
	m := &domain.Message{
		ID:           mm.ID,
		FromUsername: mm.FromUsername,
		ToUsername:   mm.ToUsername,
		Body:         mm.Body,
		SentAt:       mm.SentAt.UTC(),
	}
	if mm.ReadAt != nil {
		at := mm.ReadAt.UTC()
		m.ReadAt = &at
	}
	return m
}

// Create checks both participants exist before inserting, standing in for
// the foreign keys a relational store would enforce.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	participants := []string{msg.FromUsername}
	if msg.ToUsername != msg.FromUsername {
		participants = append(participants, msg.ToUsername)
	}
	n, err := r.users.CountDocuments(ctx, bson.M{"username": bson.M{"$in": participants}})
	if err != nil {
		return nil, fmt.Errorf("check participants: %w", err)
	}
	if n != int64(len(participants)) {
		return nil, domain.ErrUserNotFound
	}

	id, err := r.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("next message id: %w", err)
	}

	doc := mongoMessage{
		ID:           id,
		FromUsername: msg.FromUsername,
		ToUsername:   msg.ToUsername,
		Body:         msg.Body,
		SentAt:       msg.SentAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoMessage
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return mm.toDomain(), nil
}

// MarkRead only matches unread documents, so concurrent callers cannot
// overwrite an existing read_at.
func (r *MessageRepository) MarkRead(ctx context.Context, id int64, at time.Time) (*domain.MessageRead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "read_at": nil},
		bson.M{"$set": bson.M{"read_at": at.UTC()}},
	)
	if err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}

	var mm mongoMessage
	err = r.coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"read_at": 1}),
	).Decode(&mm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("read back message: %w", err)
	}

	return &domain.MessageRead{ID: id, ReadAt: mm.toDomain().ReadAt}, nil
}

func (r *MessageRepository) ListTo(ctx context.Context, username string) ([]*domain.Message, error) {
	return r.list(ctx, bson.M{"to_username": username})
}

func (r *MessageRepository) ListFrom(ctx context.Context, username string) ([]*domain.Message, error) {
	return r.list(ctx, bson.M{"from_username": username})
}

func (r *MessageRepository) list(ctx context.Context, filter bson.M) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMessage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]*domain.Message, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}
