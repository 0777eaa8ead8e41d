package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

type messageDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SenderID    string             `bson:"senderId"`
	SenderName  string             `bson:"senderName"`
	SenderRole  string             `bson:"senderRole"`
	Content     string             `bson:"content"`
	Type        string             `bson:"type"`
	ProjectID   string             `bson:"projectId"`
	ProjectName string             `bson:"projectName"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *messageDocument) toModel() model.Message {
	return model.Message{
		ID:          d.ID.Hex(),
		SenderID:    d.SenderID,
		SenderName:  d.SenderName,
		SenderRole:  d.SenderRole,
		Content:     d.Content,
		Type:        d.Type,
		ProjectID:   d.ProjectID,
		ProjectName: d.ProjectName,
		CreatedAt:   d.CreatedAt,
	}
}

// MongoMessageRepository stores messages in the "messages" collection.
type MongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository.
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(messagesCollection)}
}

func (r *MongoMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	doc := messageDocument{
		ID:          primitive.NewObjectID(),
		SenderID:    msg.SenderID,
		SenderName:  msg.SenderName,
		SenderRole:  msg.SenderRole,
		Content:     msg.Content,
		Type:        msg.Type,
		ProjectID:   msg.ProjectID,
		ProjectName: msg.ProjectName,
		CreatedAt:   msg.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	msg.ID = doc.ID.Hex()
	return nil
}

func (r *MongoMessageRepository) List(ctx context.Context) ([]model.Message, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoMessageRepository) ListByProject(ctx context.Context, projectID string) ([]model.Message, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *MongoMessageRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoMessageRepository) find(ctx context.Context, filter bson.M) ([]model.Message, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	messages := make([]model.Message, len(docs))
	for i := range docs {
		messages[i] = docs[i].toModel()
	}
	return messages, nil
}
