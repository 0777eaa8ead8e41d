package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

func TestMessageService_Post(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewMessageService(store.Messages)
	sender := &model.User{ID: "u-1", Name: "Ann", Role: model.RoleManager}

	resp, err := svc.Post(context.Background(), sender, model.MessageRequest{Content: "kickoff at 10", ProjectID: "p-1", ProjectName: "Apollo"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.SenderID)
	assert.Equal(t, "Ann", resp.SenderName)
	assert.Equal(t, "Manager", resp.SenderRole)
	assert.Equal(t, model.DefaultMessageType, resp.Type)
	assert.False(t, resp.CreatedAt.IsZero())

	decision, err := svc.Post(context.Background(), sender, model.MessageRequest{Content: "go", Type: "decision"})
	require.NoError(t, err)
	assert.Equal(t, "decision", decision.Type)

	_, err = svc.Post(context.Background(), sender, model.MessageRequest{Content: "  "})
	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestMessageService_ListNewestFirst(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewMessageService(store.Messages)
	sender := &model.User{ID: "u-1", Name: "Ann", Role: model.RoleMember}
	ctx := context.Background()

	for _, content := range []string{"one", "two"} {
		_, err := svc.Post(ctx, sender, model.MessageRequest{Content: content, ProjectID: "p-1"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Content)

	none, err := svc.ListByProject(ctx, "p-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}
