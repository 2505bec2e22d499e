package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/notes-news/internal/model"
)

// newTestDB returns a fresh, migrated in-memory database closed at test end.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "hash"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestNote(t *testing.T, db *DB, author *model.User, slug string) *model.Note {
	t.Helper()
	note := &model.Note{Title: "Заголовок", Text: "Текст", Slug: slug, AuthorID: author.ID}
	if err := db.Notes().Create(context.Background(), note); err != nil {
		t.Fatalf("failed to create test note: %v", err)
	}
	return note
}

func createTestNews(t *testing.T, db *DB, title string, date time.Time) *model.News {
	t.Helper()
	news := &model.News{Title: title, Text: "Просто текст.", Date: date}
	if err := db.News().Create(context.Background(), news); err != nil {
		t.Fatalf("failed to create test news: %v", err)
	}
	return news
}

func createTestComment(t *testing.T, db *DB, news *model.News, author *model.User, created time.Time) *model.Comment {
	t.Helper()
	c := &model.Comment{NewsID: news.ID, AuthorID: author.ID, Text: "Текст комментария", Created: created}
	if err := db.Comments().Create(context.Background(), c); err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}
	return c
}
