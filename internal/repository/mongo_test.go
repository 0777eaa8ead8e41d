package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// cursorResponses returns a first batch followed by an exhausted next batch.
func cursorResponses(ns string, docs ...bson.D) []bson.D {
	return []bson.D{
		mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, docs...),
		mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
	}
}

func TestMongoUserRepository_Create(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("success", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &model.User{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash", Role: model.RoleMember}
		require.NoError(mt, repo.Create(context.Background(), user))
		_, err := primitive.ObjectIDFromHex(user.ID)
		assert.NoError(mt, err)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error collection: users index: email_unique",
		}))

		user := &model.User{Email: "ann@example.com", Role: model.RoleMember}
		assert.ErrorIs(mt, repo.Create(context.Background(), user), ErrDuplicateEmail)
		assert.Empty(mt, user.ID)
	})
}

func TestMongoUserRepository_GetByEmail(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "email", Value: "ann@example.com"},
			{Key: "name", Value: "Ann"},
			{Key: "password", Value: "hash"},
			{Key: "role", Value: "Admin"},
			{Key: "createdAt", Value: time.Now()},
		}))

		user, err := repo.GetByEmail(context.Background(), "ann@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)
		assert.Equal(mt, model.RoleAdmin, user.Role)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch))

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})
}

func TestMongoUserRepository_GetByIDMalformed(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		_, err := repo.GetByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})
}

func TestMongoUserRepository_ExistsByEmail(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("exists", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int64(1)}}))

		exists, err := repo.ExistsByEmail(context.Background(), "ann@example.com")
		require.NoError(mt, err)
		assert.True(mt, exists)
	})

	mt.Run("absent", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch))

		exists, err := repo.ExistsByEmail(context.Background(), "ann@example.com")
		require.NoError(mt, err)
		assert.False(mt, exists)
	})
}

func TestMongoUserRepository_ListByRoles(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("managers", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(cursorResponses(mt.DB.Name()+".users",
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "m@example.com"}, {Key: "role", Value: "Manager"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "a@example.com"}, {Key: "role", Value: "Admin"}},
		)...)

		users, err := repo.ListByRoles(context.Background(), model.RoleManager, model.RoleAdmin)
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, model.RoleManager, users[0].Role)
		assert.Equal(mt, model.RoleAdmin, users[1].Role)
	})
}

func TestMongoProjectRepository(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoProjectRepository(mt.DB)
		oid := primitive.NewObjectID()
		deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".projects", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Apollo"},
			{Key: "status", Value: model.ProjectStatusInProgress},
			{Key: "managerId", Value: "u-1"},
			{Key: "teamIds", Value: bson.A{"u-2", "u-3"}},
			{Key: "deadline", Value: deadline},
		}))

		project, err := repo.GetByID(context.Background(), oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "Apollo", project.Name)
		assert.Equal(mt, []string{"u-2", "u-3"}, project.TeamIDs)
		assert.True(mt, deadline.Equal(project.Deadline))
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewMongoProjectRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(context.Background(), &model.Project{ID: primitive.NewObjectID().Hex(), Name: "x"})
		assert.ErrorIs(mt, err, ErrProjectNotFound)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoProjectRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()), ErrProjectNotFound)
	})

	mt.Run("delete existing", func(mt *mtest.T) {
		repo := NewMongoProjectRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})
}

func TestMongoTaskRepository(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("list by project", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(cursorResponses(mt.DB.Name()+".tasks",
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "projectId", Value: "p-1"},
				{Key: "title", Value: "Write docs"},
				{Key: "status", Value: "REVIEW"},
				{Key: "priority", Value: "URGENT"},
				{Key: "assigneeName", Value: model.UnassignedName},
			},
		)...)

		tasks, err := repo.ListByProject(context.Background(), "p-1")
		require.NoError(mt, err)
		require.Len(mt, tasks, 1)
		assert.Equal(mt, model.TaskReview, tasks[0].Status)
		assert.Equal(mt, model.PriorityUrgent, tasks[0].Priority)
		assert.Empty(mt, tasks[0].AssigneeID)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".tasks", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrTaskNotFound)
	})
}

func TestMongoMessageRepository(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		msg := &model.Message{SenderID: "u-1", Content: "hello", Type: model.DefaultMessageType}
		require.NoError(mt, repo.Create(context.Background(), msg))
		assert.NotEmpty(mt, msg.ID)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoMessageRepository(mt.DB)
		now := time.Now()
		mt.AddMockResponses(cursorResponses(mt.DB.Name()+".messages",
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "content", Value: "newer"}, {Key: "createdAt", Value: now}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "content", Value: "older"}, {Key: "createdAt", Value: now.Add(-time.Minute)}},
		)...)

		messages, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, messages, 2)
		assert.Equal(mt, "newer", messages[0].Content)
	})
}

func TestEnsureMongoIndexes(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("creates every collection's indexes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		require.NoError(mt, EnsureMongoIndexes(context.Background(), mt.DB))

		first := mt.GetStartedEvent()
		require.NotNil(mt, first)
		assert.Equal(mt, "update", first.CommandName)
	})

	mt.Run("propagates index failures", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    13,
				Name:    "Unauthorized",
				Message: "not authorized",
			}),
		)
		assert.Error(mt, EnsureMongoIndexes(context.Background(), mt.DB))
	})

	mt.Run("propagates email rewrite failures", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))
		assert.Error(mt, EnsureMongoIndexes(context.Background(), mt.DB))
	})
}

func TestLowercaseMongoEmails(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("rewrites mixed-case emails", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		n, err := LowercaseMongoEmails(context.Background(), mt.DB)
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, n)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		assert.Equal(mt, usersCollection, started.Command.Lookup("update").StringValue())

		stmt := started.Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.Equal(mt, "[A-Z]", stmt.Lookup("q", "email", "$regex").StringValue())
		pipeline := stmt.Lookup("u").Array().Index(0).Value().Document()
		assert.Equal(mt, "$email", pipeline.Lookup("$set", "email", "$toLower").StringValue())
	})
}
