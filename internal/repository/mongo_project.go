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

type projectDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description"`
	TotalProgress int                `bson:"totalProgress"`
	Status        string             `bson:"status"`
	ManagerID     string             `bson:"managerId"`
	ManagerName   string             `bson:"managerName"`
	TeamIDs       []string           `bson:"teamIds"`
	Deadline      *time.Time         `bson:"deadline,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func newProjectDocument(p *model.Project) projectDocument {
	doc := projectDocument{
		Name:          p.Name,
		Description:   p.Description,
		TotalProgress: p.TotalProgress,
		Status:        p.Status,
		ManagerID:     p.ManagerID,
		ManagerName:   p.ManagerName,
		TeamIDs:       p.TeamIDs,
		CreatedAt:     p.CreatedAt,
	}
	if doc.TeamIDs == nil {
		doc.TeamIDs = []string{}
	}
	if !p.Deadline.IsZero() {
		d := p.Deadline.UTC()
		doc.Deadline = &d
	}
	return doc
}

func (d *projectDocument) toModel() *model.Project {
	p := &model.Project{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		TotalProgress: d.TotalProgress,
		Status:        d.Status,
		ManagerID:     d.ManagerID,
		ManagerName:   d.ManagerName,
		TeamIDs:       d.TeamIDs,
		CreatedAt:     d.CreatedAt,
	}
	if d.Deadline != nil {
		p.Deadline = d.Deadline.UTC()
	}
	return p
}

// MongoProjectRepository stores projects in the "projects" collection.
type MongoProjectRepository struct {
	coll *mongo.Collection
}

// NewMongoProjectRepository creates a new MongoProjectRepository.
func NewMongoProjectRepository(db *mongo.Database) *MongoProjectRepository {
	return &MongoProjectRepository{coll: db.Collection(projectsCollection)}
}

func (r *MongoProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	doc := newProjectDocument(project)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	project.ID = doc.ID.Hex()
	return nil
}

func (r *MongoProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrProjectNotFound
	}

	var doc projectDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	return r.find(ctx, bson.M{})
}

// ListByMember matches on either field in a single query, so a user who both
// manages and belongs to a project sees it once.
func (r *MongoProjectRepository) ListByMember(ctx context.Context, userID string) ([]model.Project, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"managerId": userID},
		bson.M{"teamIds": userID},
	}})
}

func (r *MongoProjectRepository) Update(ctx context.Context, project *model.Project) error {
	oid, ok := objectID(project.ID)
	if !ok {
		return ErrProjectNotFound
	}
	doc := newProjectDocument(project)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrProjectNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *MongoProjectRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoProjectRepository) find(ctx context.Context, filter bson.M) ([]model.Project, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []projectDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	projects := make([]model.Project, len(docs))
	for i := range docs {
		projects[i] = *docs[i].toModel()
	}
	return projects, nil
}
