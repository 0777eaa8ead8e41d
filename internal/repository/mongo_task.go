package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

type taskDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID    string             `bson:"projectId"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	Status       string             `bson:"status"`
	Priority     string             `bson:"priority"`
	AssigneeID   string             `bson:"assigneeId,omitempty"`
	AssigneeName string             `bson:"assigneeName"`
	DueDate      *time.Time         `bson:"dueDate,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func newTaskDocument(t *model.Task) taskDocument {
	return taskDocument{
		ProjectID:    t.ProjectID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		DueDate:      t.DueDate,
		CreatedAt:    t.CreatedAt,
	}
}

func (d *taskDocument) toModel() *model.Task {
	return &model.Task{
		ID:           d.ID.Hex(),
		ProjectID:    d.ProjectID,
		Title:        d.Title,
		Description:  d.Description,
		Status:       model.TaskStatus(d.Status),
		Priority:     model.TaskPriority(d.Priority),
		AssigneeID:   d.AssigneeID,
		AssigneeName: d.AssigneeName,
		DueDate:      d.DueDate,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoTaskRepository stores tasks in the "tasks" collection.
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a new MongoTaskRepository.
func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	doc := newTaskDocument(task)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	task.ID = doc.ID.Hex()
	return nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrTaskNotFound
	}

	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *model.Task) error {
	oid, ok := objectID(task.ID)
	if !ok {
		return ErrTaskNotFound
	}
	doc := newTaskDocument(task)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrTaskNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *MongoTaskRepository) ListByAssignee(ctx context.Context, userID string) ([]model.Task, error) {
	return r.find(ctx, bson.M{"assigneeId": userID})
}

func (r *MongoTaskRepository) find(ctx context.Context, filter bson.M) ([]model.Task, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, len(docs))
	for i := range docs {
		tasks[i] = *docs[i].toModel()
	}
	return tasks, nil
}
