// Package repository persists users, projects, tasks and messages. MongoDB
// (the default document store), MySQL and an in-memory store implement the
// same interfaces.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRoles(ctx context.Context, roles ...model.Role) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	// ListByMember returns projects the user manages or belongs to, each once.
	ListByMember(ctx context.Context, userID string) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]model.Task, error)
}

// MessageRepository lists are ordered newest first.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	List(ctx context.Context) ([]model.Message, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Message, error)
	Count(ctx context.Context) (int64, error)
}

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	MySQLDSN      string
}

// Store bundles the repositories of one backend.
type Store struct {
	Users    UserRepository
	Projects ProjectRepository
	Tasks    TaskRepository
	Messages MessageRepository

	driver  string
	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the configured backend.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Driver {
	case DriverMongo, "":
		return openMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case DriverMySQL:
		return openMySQL(opts.MySQLDSN)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", opts.Driver)
	}
}

// Driver returns the backend name.
func (s *Store) Driver() string { return s.driver }

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Migrate creates the schema: indexes on MongoDB, goose migrations on MySQL.
// Both create the unique index on users.email.
func (s *Store) Migrate(ctx context.Context) error { return s.migrate(ctx) }

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }
