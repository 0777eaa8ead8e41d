package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

func seedUser(t *testing.T, store *repository.Store, name string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Email: model.NormalizeEmail(name + "@example.com"), Name: name, PasswordHash: "x", Role: role}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func TestProjectService_CreateDefaults(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewProjectService(store.Projects, store.Users)
	manager := seedUser(t, store, "mia", model.RoleManager)

	resp, err := svc.Create(context.Background(), model.ProjectRequest{
		Name:      "  Apollo ",
		ManagerID: manager.ID,
		Deadline:  "2026-12-31",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Apollo", resp.Name)
	assert.Equal(t, model.DefaultProjectDescription, resp.Description)
	assert.Equal(t, model.ProjectStatusInProgress, resp.Status)
	assert.Equal(t, 0, resp.TotalProgress)
	assert.Equal(t, "mia", resp.ManagerName)
	assert.Equal(t, "2026-12-31", resp.Deadline)
	assert.Equal(t, 0, resp.TeamSize)
}

func TestProjectService_CreateErrors(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewProjectService(store.Projects, store.Users)
	manager := seedUser(t, store, "mia", model.RoleManager)

	tests := []struct {
		name string
		req  model.ProjectRequest
		want error
	}{
		{name: "missing name", req: model.ProjectRequest{ManagerID: manager.ID}, want: ErrProjectNameRequired},
		{name: "missing manager id", req: model.ProjectRequest{Name: "Apollo"}, want: ErrManagerRequired},
		{name: "unknown manager", req: model.ProjectRequest{Name: "Apollo", ManagerID: "nobody"}, want: ErrManagerNotFound},
		{name: "bad deadline", req: model.ProjectRequest{Name: "Apollo", ManagerID: manager.ID, Deadline: "31/12/2026"}, want: ErrInvalidDeadline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProjectService_ListForUser(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewProjectService(store.Projects, store.Users)
	ctx := context.Background()

	// The user both manages and belongs to "both".
	for _, p := range []*model.Project{
		{Name: "both", ManagerID: "u-1", TeamIDs: []string{"u-1", "u-2"}},
		{Name: "member", ManagerID: "u-9", TeamIDs: []string{"u-1"}},
		{Name: "unrelated", ManagerID: "u-9"},
	} {
		require.NoError(t, store.Projects.Create(ctx, p))
	}

	projects, err := svc.ListForUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, projects, 2)

	_, err = svc.ListForUser(ctx, "")
	assert.ErrorIs(t, err, ErrUserIDRequired)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewProjectService(store.Projects, store.Users)
	ctx := context.Background()
	manager := seedUser(t, store, "mia", model.RoleManager)

	created, err := svc.Create(ctx, model.ProjectRequest{Name: "Apollo", ManagerID: manager.ID})
	require.NoError(t, err)
	assert.Empty(t, created.Deadline)

	status := "Done"
	deadline := "2027-01-15"
	updated, err := svc.Update(ctx, created.ID, model.ProjectUpdateRequest{Status: &status, Deadline: &deadline})
	require.NoError(t, err)
	assert.Equal(t, "Apollo", updated.Name)
	assert.Equal(t, "Done", updated.Status)
	assert.Equal(t, "2027-01-15", updated.Deadline)

	blank := " "
	_, err = svc.Update(ctx, created.ID, model.ProjectUpdateRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrProjectNameRequired)

	_, err = svc.Update(ctx, "missing", model.ProjectUpdateRequest{})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProjectNotFound)
}
