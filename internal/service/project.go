package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

var (
	ErrProjectNameRequired = errors.New("name is required")
	ErrManagerRequired     = errors.New("managerId is required")
	ErrManagerNotFound     = errors.New("manager not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrInvalidDeadline     = errors.New("deadline must be formatted as YYYY-MM-DD")
	ErrUserIDRequired      = errors.New("userId is required")
)

// ProjectService handles project business logic.
type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// Create starts a new project owned by an existing manager.
func (s *ProjectService) Create(ctx context.Context, req model.ProjectRequest) (model.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.ProjectResponse{}, ErrProjectNameRequired
	}
	if req.ManagerID == "" {
		return model.ProjectResponse{}, ErrManagerRequired
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return model.ProjectResponse{}, err
	}

	manager, err := s.users.GetByID(ctx, req.ManagerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.ProjectResponse{}, ErrManagerNotFound
		}
		return model.ProjectResponse{}, err
	}

	project := &model.Project{
		Name:          name,
		Description:   model.DefaultProjectDescription,
		TotalProgress: 0,
		Status:        model.ProjectStatusInProgress,
		ManagerID:     manager.ID,
		ManagerName:   manager.Name,
		TeamIDs:       []string{},
		Deadline:      deadline,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return model.ProjectResponse{}, err
	}

	return model.NewProjectResponse(project), nil
}

// List returns every project.
func (s *ProjectService) List(ctx context.Context) ([]model.ProjectResponse, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProjectResponses(projects), nil
}

// ListForUser returns the projects a user manages or is a team member of.
func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]model.ProjectResponse, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	projects, err := s.projects.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Backends already return each project once; this keeps the guarantee
	// independent of the query shape.
	seen := make(map[string]bool, len(projects))
	unique := projects[:0]
	for _, p := range projects {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		unique = append(unique, p)
	}
	return toProjectResponses(unique), nil
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id string) (model.ProjectResponse, error) {
	project, err := s.get(ctx, id)
	if err != nil {
		return model.ProjectResponse{}, err
	}
	return model.NewProjectResponse(project), nil
}

// Update applies the non-nil fields of req.
func (s *ProjectService) Update(ctx context.Context, id string, req model.ProjectUpdateRequest) (model.ProjectResponse, error) {
	project, err := s.get(ctx, id)
	if err != nil {
		return model.ProjectResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.ProjectResponse{}, ErrProjectNameRequired
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil && *req.Status != "" {
		project.Status = *req.Status
	}
	if req.Deadline != nil {
		deadline, err := parseDate(*req.Deadline)
		if err != nil {
			return model.ProjectResponse{}, err
		}
		project.Deadline = deadline
	}

	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return model.ProjectResponse{}, ErrProjectNotFound
		}
		return model.ProjectResponse{}, err
	}
	return model.NewProjectResponse(project), nil
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

func (s *ProjectService) get(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// parseDate accepts "" as no date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDeadline
	}
	return t, nil
}

func toProjectResponses(projects []model.Project) []model.ProjectResponse {
	out := make([]model.ProjectResponse, len(projects))
	for i := range projects {
		out[i] = model.NewProjectResponse(&projects[i])
	}
	return out
}
