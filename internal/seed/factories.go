// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"studygram/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// studyFileTypes are plausible attachment extensions with upload weights.
var studyFileTypes = []struct {
	ext  string
	mime string
}{
	{"pdf", "application/pdf"},
	{"pdf", "application/pdf"},
	{"pdf", "application/pdf"},
	{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{"png", "image/png"},
	{"zip", "application/zip"},
}

var postTitleTemplates = []string{
	"Lecture notes week %d",
	"Exam summary SS%d",
	"Cheatsheet chapter %d",
	"Solved exercise sheet %d",
	"Flashcards for chapter %d",
	"Old exam %d with solutions",
}

// CreateUser constructs and persists a sample `models.User`. The email
// local part doubles as the display handle, so it is built from the name.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	user := &models.User{
		FirstName: first,
		LastName:  last,
		Email: strings.ToLower(fmt.Sprintf("%s.%s%d@stud.example.edu",
			first, last, gofakeit.Number(10, 99))),
		Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s %s <%s>", user.FirstName, user.LastName, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post struct for the given user and module but does
// not persist it. Useful for batching and dry runs.
func (f *Factory) BuildPost(user *models.User, module *models.Module, overrides ...func(*models.Post)) *models.Post {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	post := &models.Post{
		Title:    fmt.Sprintf(postTitleTemplates[r.Intn(len(postTitleTemplates))], r.Intn(12)+1),
		UserID:   user.ID,
		ModuleID: module.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
	post.UpdatedAt = post.CreatedAt

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample `models.Post` for the given
// user tagged with the given module.
func (f *Factory) CreatePost(user *models.User, module *models.Module, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, module, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: user=%d module=%d title=%q", post.UserID, post.ModuleID, post.Title)
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateFile constructs and persists a sample attachment row for the post.
// Only the metadata row is written; no blob is placed in object storage.
func (f *Factory) CreateFile(post *models.Post, overrides ...func(*models.File)) (*models.File, error) {
	ft := studyFileTypes[gofakeit.Number(0, len(studyFileTypes)-1)]
	name := fmt.Sprintf("%s.%s", strings.ReplaceAll(strings.ToLower(gofakeit.BookTitle()), " ", "_"), ft.ext)
	path := fmt.Sprintf("uploads/%d/%d_%s", post.UserID, time.Now().UnixNano(), name)

	file := &models.File{
		PostID:      post.ID,
		FileName:    name,
		FileURL:     "/media/" + path,
		FileType:    ft.mime,
		FileSize:    int64(gofakeit.Number(10_000, 5_000_000)),
		Version:     1,
		StoragePath: path,
	}

	for _, override := range overrides {
		override(file)
	}

	if f.opts.DryRun {
		f.nextID++
		file.ID = f.nextID
		log.Printf("[dry-run] CreateFile: post=%d name=%s", file.PostID, file.FileName)
		return file, nil
	}

	if err := f.db.Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `post`. Duplicate likes are
// silently skipped, mirroring the unique index on (user_id, post_id).
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}
