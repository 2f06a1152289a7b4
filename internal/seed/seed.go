// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"studygram/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// DryRun builds entities without touching the database.
	DryRun bool
	// SkipBcrypt stores a plaintext dev password instead of hashing (fast mode).
	SkipBcrypt bool
	// MaxDays spreads generated created_at timestamps over this many days back.
	MaxDays int
}

// moduleCatalogue is the static study module catalogue. Seeding is
// idempotent: existing rows are matched by code and left untouched.
var moduleCatalogue = []models.Module{
	{Name: "Programming 1", Code: "CS101", Type: "Computer Science", Credits: 8, Semester: 1},
	{Name: "Programming 2", Code: "CS102", Type: "Computer Science", Credits: 8, Semester: 2},
	{Name: "Algorithms and Data Structures", Code: "CS201", Type: "Computer Science", Credits: 6, Semester: 3},
	{Name: "Operating Systems", Code: "CS301", Type: "Computer Science", Credits: 6, Semester: 4},
	{Name: "Databases", Code: "CS305", Type: "Computer Science", Credits: 6, Semester: 4},
	{Name: "Software Engineering", Code: "CS310", Type: "Computer Science", Credits: 8, Semester: 5},
	{Name: "Computer Networks", Code: "CS320", Type: "Computer Science", Credits: 5, Semester: 5},
	{Name: "Linear Algebra", Code: "MA101", Type: "Mathematics", Credits: 8, Semester: 1},
	{Name: "Analysis 1", Code: "MA102", Type: "Mathematics", Credits: 8, Semester: 1},
	{Name: "Discrete Mathematics", Code: "MA201", Type: "Mathematics", Credits: 6, Semester: 2},
	{Name: "Statistics", Code: "MA301", Type: "Mathematics", Credits: 5, Semester: 3},
	{Name: "Technical English", Code: "LA101", Type: "Electives", Credits: 3, Semester: 2},
	{Name: "Entrepreneurship", Code: "BA201", Type: "Electives", Credits: 4, Semester: 5},
	{Name: "Project Management", Code: "BA301", Type: "Electives", Credits: 4, Semester: 6},
}

// Modules ensures the static module catalogue exists. Safe to call on every boot.
func Modules(db *gorm.DB) error {
	for _, m := range moduleCatalogue {
		var module models.Module
		err := db.Where(models.Module{Code: m.Code}).
			Attrs(models.Module{
				Name:     m.Name,
				Type:     m.Type,
				Credits:  m.Credits,
				Semester: m.Semester,
			}).
			FirstOrCreate(&module).Error
		if err != nil {
			return fmt.Errorf("seed module %s: %w", m.Code, err)
		}
	}
	return nil
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	// Module catalogue must exist before posts can reference it
	if err := Modules(db); err != nil {
		return fmt.Errorf("failed to seed modules: %w", err)
	}
	var modules []models.Module
	if err := db.Find(&modules).Error; err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}
	log.Printf("✓ %d modules available", len(modules))

	factory := NewFactory(db, opts)

	// Create test users
	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	// Create posts with attachments for users
	posts, err := createPosts(factory, users, modules, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	// Sprinkle comments and likes over the feed
	if err := createEngagement(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("✓ comments and likes created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, files, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a known login for manual testing
	if count >= 1 {
		user, err := f.CreateUser(func(u *models.User) {
			u.FirstName = "Test"
			u.LastName = "Student"
			u.Email = "test.student@stud.example.edu"
		})
		if err == nil {
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(f *Factory, users []*models.User, modules []models.Module, count int) ([]*models.Post, error) {
	if len(users) == 0 || len(modules) == 0 {
		return nil, nil
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, count)

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		module := modules[r.Intn(len(modules))]

		post, err := f.CreatePost(user, &module)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		// Most posts carry at least one attachment
		numFiles := r.Intn(3)
		if r.Float32() < 0.7 {
			numFiles++
		}
		for j := 0; j < numFiles; j++ {
			if _, err := f.CreateFile(post); err != nil {
				return nil, err
			}
		}

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

func createEngagement(f *Factory, users []*models.User, posts []*models.Post) error {
	if len(users) == 0 {
		return nil
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		for i := 0; i < r.Intn(4); i++ {
			commenter := users[r.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return err
			}
		}
		for i := 0; i < r.Intn(6); i++ {
			liker := users[r.Intn(len(users))]
			if err := f.CreateLike(liker, post); err != nil {
				return err
			}
		}
	}
	return nil
}
