package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

var (
	ErrTaskTitleRequired = errors.New("title is required")
	ErrProjectIDRequired = errors.New("projectId is required")
	ErrInvalidStatus     = errors.New("status must be one of TODO, IN_PROGRESS, REVIEW, DONE")
	ErrInvalidPriority   = errors.New("priority must be one of LOW, MEDIUM, HIGH, URGENT")
	ErrTaskNotFound      = errors.New("task not found")
)

// TaskService handles task business logic.
type TaskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// Create adds a task to a project. Status defaults to TODO and priority to
// MEDIUM.
func (s *TaskService) Create(ctx context.Context, req model.TaskRequest) (model.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.TaskResponse{}, ErrTaskTitleRequired
	}
	if req.ProjectID == "" {
		return model.TaskResponse{}, ErrProjectIDRequired
	}

	task := &model.Task{
		ProjectID: req.ProjectID,
		Title:     title,
		Status:    model.TaskTodo,
		Priority:  model.PriorityMedium,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if err := applyStatusAndPriority(task, req.Status, req.Priority); err != nil {
		return model.TaskResponse{}, err
	}

	assigneeID := ""
	if req.AssignedID != nil {
		assigneeID = *req.AssignedID
	}
	if err := s.assign(ctx, task, assigneeID); err != nil {
		return model.TaskResponse{}, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return model.TaskResponse{}, err
	}
	return model.NewTaskResponse(task), nil
}

// Update applies the fields present in req. A blank title is ignored.
func (s *TaskService) Update(ctx context.Context, id string, req model.TaskRequest) (model.TaskResponse, error) {
	task, err := s.get(ctx, id)
	if err != nil {
		return model.TaskResponse{}, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if err := applyStatusAndPriority(task, req.Status, req.Priority); err != nil {
		return model.TaskResponse{}, err
	}
	if req.AssignedID != nil {
		if err := s.assign(ctx, task, *req.AssignedID); err != nil {
			return model.TaskResponse{}, err
		}
	}

	return s.save(ctx, task)
}

// UpdateStatus moves a task to another workflow column.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status model.TaskStatus) (model.TaskResponse, error) {
	status = status.Normalize()
	if !status.Valid() {
		return model.TaskResponse{}, ErrInvalidStatus
	}

	task, err := s.get(ctx, id)
	if err != nil {
		return model.TaskResponse{}, err
	}
	task.Status = status
	return s.save(ctx, task)
}

// ListByProject returns a project's tasks.
func (s *TaskService) ListByProject(ctx context.Context, projectID string) ([]model.TaskResponse, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toTaskResponses(tasks), nil
}

// ListForUser returns the tasks assigned to a user.
func (s *TaskService) ListForUser(ctx context.Context, userID string) ([]model.TaskResponse, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	tasks, err := s.tasks.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toTaskResponses(tasks), nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// assign sets the assignee. An empty or unknown id leaves the task
// unassigned by name but keeps the id the caller sent.
func (s *TaskService) assign(ctx context.Context, task *model.Task, assigneeID string) error {
	task.AssigneeID = assigneeID
	task.AssigneeName = model.UnassignedName
	if assigneeID == "" {
		return nil
	}

	user, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}
	task.AssigneeName = user.Name
	return nil
}

func (s *TaskService) get(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) save(ctx context.Context, task *model.Task) (model.TaskResponse, error) {
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.TaskResponse{}, ErrTaskNotFound
		}
		return model.TaskResponse{}, err
	}
	return model.NewTaskResponse(task), nil
}

func applyStatusAndPriority(task *model.Task, status *model.TaskStatus, priority *model.TaskPriority) error {
	if status != nil {
		st := status.Normalize()
		if !st.Valid() {
			return ErrInvalidStatus
		}
		task.Status = st
	}
	if priority != nil {
		pr := priority.Normalize()
		if !pr.Valid() {
			return ErrInvalidPriority
		}
		task.Priority = pr
	}
	return nil
}

func toTaskResponses(tasks []model.Task) []model.TaskResponse {
	out := make([]model.TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = model.NewTaskResponse(&tasks[i])
	}
	return out
}
