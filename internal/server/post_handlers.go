// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"studygram/internal/models"
	"studygram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// Query parameters: module (catalogue ID), q (title search), sort (recent|popular|comments).
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	moduleID := c.QueryInt("module", 0)
	if moduleID < 0 {
		moduleID = 0
	}
	sortBy := c.Query("sort", service.SortRecent)

	posts, err := s.feedService.ListFeed(ctx, service.ListFeedInput{
		ModuleID:      uint(moduleID),
		Search:        c.Query("q"),
		SortBy:        sortBy,
		CurrentUserID: userID,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.feedService.GetPost(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts (multipart/form-data)
// Fields: title, module_id; attachments under repeated "files" parts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	title := c.FormValue("title")
	moduleID := parseFormUint(c, "module_id")
	if title == "" || moduleID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and module are required"))
	}

	files, err := collectUploads(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid file upload"))
	}

	post, err := s.feedService.CreatePost(ctx, service.CreatePostInput{
		UserID:   userID,
		Title:    title,
		ModuleID: uint(moduleID),
		Files:    files,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishBroadcastEvent(EventPostCreated, map[string]interface{}{
		"post_id":    post.ID,
		"author_id":  post.UserID,
		"module_id":  post.ModuleID,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id (multipart/form-data)
// Fields: title, module_id, repeated existing_files (IDs of attachments to keep);
// new attachments under repeated "files" parts. Omitted existing attachments are removed.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	title := c.FormValue("title")
	moduleID := parseFormUint(c, "module_id")
	if title == "" || moduleID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and module are required"))
	}

	files, err := collectUploads(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid file upload"))
	}

	// Attachments to keep come first, new uploads after.
	kept := collectKeptFileIDs(c)
	files = append(kept, files...)

	post, err := s.feedService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:   userID,
		PostID:   postID,
		Title:    title,
		ModuleID: uint(moduleID),
		Files:    files,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishBroadcastEvent(EventPostUpdated, map[string]interface{}{
		"post_id":    post.ID,
		"author_id":  post.UserID,
		"module_id":  post.ModuleID,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.feedService.DeletePost(ctx, service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishBroadcastEvent(EventPostDeleted, map[string]interface{}{
		"post_id":    postID,
		"deleted_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
// This endpoint toggles the like status - if already liked, it unlikes; if not liked, it likes
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.feedService.ToggleLike(ctx, userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishBroadcastEvent(EventPostReactionUpdated, map[string]interface{}{
		"post_id":        post.ID,
		"likes_count":    post.LikesCount,
		"comments_count": post.CommentsCount,
		"updated_at":     time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(post)
}

// parseFormUint reads a form field as a positive int, returning 0 when absent or invalid.
func parseFormUint(c *fiber.Ctx, field string) int {
	var v int
	if _, err := fmt.Sscanf(c.FormValue(field), "%d", &v); err != nil || v < 0 {
		return 0
	}
	return v
}

// collectUploads reads all "files" parts from the multipart form into attachment inputs.
func collectUploads(c *fiber.Ctx) ([]service.PostFileInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request or no form at all; treat as no attachments.
		return nil, nil
	}

	headers := form.File["files"]
	files := make([]service.PostFileInput, 0, len(headers))
	for i, fh := range headers {
		content, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, service.PostFileInput{
			ID:          fmt.Sprintf("%s%d", service.TempFileIDPrefix, i),
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     content,
		})
	}
	return files, nil
}

// collectKeptFileIDs reads repeated "existing_files" form values carrying IDs of
// attachments that survive an update.
func collectKeptFileIDs(c *fiber.Ctx) []service.PostFileInput {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	values := form.Value["existing_files"]
	kept := make([]service.PostFileInput, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		kept = append(kept, service.PostFileInput{ID: v})
	}
	return kept
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
