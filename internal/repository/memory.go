package repository

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

// NewMemoryStore returns a Store kept in process memory. It enforces the same
// email uniqueness as the database backends and is used for local runs and
// tests.
func NewMemoryStore() *Store {
	return &Store{
		Users:    &MemoryUserRepository{byID: map[string]model.User{}},
		Projects: &MemoryProjectRepository{byID: map[string]model.Project{}},
		Tasks:    &MemoryTaskRepository{byID: map[string]model.Task{}},
		Messages: &MemoryMessageRepository{},
		driver:   DriverMemory,
		ping:     func(context.Context) error { return nil },
		migrate:  func(context.Context) error { return nil },
		close:    func(context.Context) error { return nil },
	}
}

// MemoryUserRepository is a UserRepository backed by a map.
type MemoryUserRepository struct {
	mu   sync.RWMutex
	byID map[string]model.User
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	return r.filter(func(model.User) bool { return true }), nil
}

func (r *MemoryUserRepository) ListByRoles(_ context.Context, roles ...model.Role) ([]model.User, error) {
	return r.filter(func(u model.User) bool { return slices.Contains(roles, u.Role) }), nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

// Delete removes a user. It is not part of UserRepository; tests use it to
// simulate accounts that disappear while their tokens are still valid.
func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

func (r *MemoryUserRepository) filter(keep func(model.User) bool) []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.User{}
	for _, u := range r.byID {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// MemoryProjectRepository is a ProjectRepository backed by a map.
type MemoryProjectRepository struct {
	mu   sync.RWMutex
	byID map[string]model.Project
}

func (r *MemoryProjectRepository) Create(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project.ID = uuid.NewString()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	r.byID[project.ID] = cloneProject(*project)
	return nil
}

func (r *MemoryProjectRepository) GetByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	p = cloneProject(p)
	return &p, nil
}

func (r *MemoryProjectRepository) List(_ context.Context) ([]model.Project, error) {
	return r.filter(func(model.Project) bool { return true }), nil
}

func (r *MemoryProjectRepository) ListByMember(_ context.Context, userID string) ([]model.Project, error) {
	return r.filter(func(p model.Project) bool {
		return p.ManagerID == userID || slices.Contains(p.TeamIDs, userID)
	}), nil
}

func (r *MemoryProjectRepository) Update(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[project.ID]; !ok {
		return ErrProjectNotFound
	}
	r.byID[project.ID] = cloneProject(*project)
	return nil
}

func (r *MemoryProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrProjectNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryProjectRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func (r *MemoryProjectRepository) filter(keep func(model.Project) bool) []model.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Project{}
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func cloneProject(p model.Project) model.Project {
	p.TeamIDs = slices.Clone(p.TeamIDs)
	if p.TeamIDs == nil {
		p.TeamIDs = []string{}
	}
	return p
}

// MemoryTaskRepository is a TaskRepository backed by a map.
type MemoryTaskRepository struct {
	mu   sync.RWMutex
	byID map[string]model.Task
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = uuid.NewString()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	r.byID[task.ID] = *task
	return nil
}

func (r *MemoryTaskRepository) GetByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return &t, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[task.ID]; !ok {
		return ErrTaskNotFound
	}
	r.byID[task.ID] = *task
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryTaskRepository) ListByProject(_ context.Context, projectID string) ([]model.Task, error) {
	return r.filter(func(t model.Task) bool { return t.ProjectID == projectID }), nil
}

func (r *MemoryTaskRepository) ListByAssignee(_ context.Context, userID string) ([]model.Task, error) {
	return r.filter(func(t model.Task) bool { return t.AssigneeID == userID }), nil
}

func (r *MemoryTaskRepository) filter(keep func(model.Task) bool) []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Task{}
	for _, t := range r.byID {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// MemoryMessageRepository is a MessageRepository backed by a slice kept in
// insertion order.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []model.Message
}

func (r *MemoryMessageRepository) Create(_ context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MemoryMessageRepository) List(_ context.Context) ([]model.Message, error) {
	return r.newestFirst(func(model.Message) bool { return true }), nil
}

func (r *MemoryMessageRepository) ListByProject(_ context.Context, projectID string) ([]model.Message, error) {
	return r.newestFirst(func(m model.Message) bool { return m.ProjectID == projectID }), nil
}

func (r *MemoryMessageRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.messages)), nil
}

func (r *MemoryMessageRepository) newestFirst(keep func(model.Message) bool) []model.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Message{}
	for i := len(r.messages) - 1; i >= 0; i-- {
		if keep(r.messages[i]) {
			out = append(out, r.messages[i])
		}
	}
	return out
}
