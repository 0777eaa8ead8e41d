package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	projectsCollection = "projects"
	tasksCollection    = "tasks"
	messagesCollection = "messages"
)

// NewMongoDB connects to MongoDB and returns the named database.
func NewMongoDB(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(25))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		slog.Warn("mongodb ping failed, continuing", "error", err)
	}

	return client, client.Database(database), nil
}

func openMongo(ctx context.Context, uri, database string) (*Store, error) {
	client, db, err := NewMongoDB(ctx, uri, database)
	if err != nil {
		return nil, err
	}

	return &Store{
		Users:    NewMongoUserRepository(db),
		Projects: NewMongoProjectRepository(db),
		Tasks:    NewMongoTaskRepository(db),
		Messages: NewMongoMessageRepository(db),
		driver:   DriverMongo,
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		migrate:  func(ctx context.Context) error { return EnsureMongoIndexes(ctx, db) },
		close:    client.Disconnect,
	}, nil
}

// EnsureMongoIndexes lowercases stored emails and then creates the indexes
// the queries rely on. The unique email index is what guarantees one account
// per email under concurrent registrations. Two legacy accounts that differ
// only by case make the index build fail.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := LowercaseMongoEmails(ctx, db); err != nil {
		return err
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		projectsCollection: {
			{Keys: bson.D{{Key: "managerId", Value: 1}}},
			{Keys: bson.D{{Key: "teamIds", Value: 1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}}},
			{Keys: bson.D{{Key: "assigneeId", Value: 1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", name, err)
		}
	}
	return nil
}

// LowercaseMongoEmails rewrites user emails that contain upper-case letters
// so lookups by normalized email find them. It returns the number of
// documents changed.
func LowercaseMongoEmails(ctx context.Context, db *mongo.Database) (int64, error) {
	filter := bson.M{"email": bson.M{"$regex": "[A-Z]"}}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{"email": bson.M{"$toLower": "$email"}}}}}

	res, err := db.Collection(usersCollection).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("lowercasing user emails: %w", err)
	}
	return res.ModifiedCount, nil
}

// objectID parses a hex id. Malformed ids cannot match any document.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}
