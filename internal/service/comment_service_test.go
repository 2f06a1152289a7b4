package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"studygram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	var created *models.Comment
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 5
		created = c
		return nil
	}
	commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{
			ID:        id,
			Content:   created.Content,
			UserID:    created.UserID,
			PostID:    created.PostID,
			User:      models.User{ID: created.UserID, Email: "ada.lovelace@university.edu"},
			CreatedAt: time.Now(),
		}, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  7,
		PostID:  1,
		Content: "  This helped a lot, thanks!  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "This helped a lot, thanks!", comment.Content)
	assert.Equal(t, "ada.lovelace", comment.User.Username)
	assert.Equal(t, "just now", comment.TimeLabel)
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo())
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 7, PostID: 1, Content: "   "})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{UserID: 7, PostID: 1, Content: strings.Repeat("x", 2001)})
	assertValidationError(t, err)
}

func TestCommentService_CreateComment_MissingPost(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewCommentService(noopCommentRepo(), postRepo)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 7, PostID: 99, Content: "hi"})
	assertNotFoundError(t, err)
}

func TestCommentService_ListComments(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, _ uint) ([]*models.Comment, error) {
		return []*models.Comment{
			{ID: 1, Content: "first", User: models.User{Email: "a.b@uni.edu"}, CreatedAt: time.Now().Add(-2 * time.Hour)},
			{ID: 2, Content: "second", User: models.User{Email: "c.d@uni.edu"}, CreatedAt: time.Now()},
		}, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	comments, err := svc.ListComments(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "a.b", comments[0].User.Username)
	assert.Equal(t, "2 hours ago", comments[0].TimeLabel)
}
