package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/repository"
)

func TestNewsList_OrderedByDateDesc(t *testing.T) {
	db := newTestDB(t)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	// created oldest date first, so insertion order is the reverse of the wanted order
	var want []string
	for i := 0; i < 5; i++ {
		n := createTestNews(t, db, fmt.Sprintf("Новость %d", i), today.AddDate(0, 0, -4+i))
		want = append([]string{n.ID}, want...)
	}

	list, err := db.News().List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var got []string
	for _, n := range list {
		got = append(got, n.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
}

func TestNewsList_Pagination(t *testing.T) {
	db := newTestDB(t)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 11; i++ {
		createTestNews(t, db, fmt.Sprintf("Новость %d", i), today.AddDate(0, 0, -i))
	}
	ctx := context.Background()

	page1, err := db.News().List(ctx, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page1) != 10 {
		t.Errorf("page 1 has %d items, want 10", len(page1))
	}

	page2, err := db.News().List(ctx, repository.ListOptions{Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page2) != 1 || page2[0].Title != "Новость 10" {
		t.Errorf("page 2 = %+v, want only the oldest item", page2)
	}
}

func TestNewsCommentCount(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	news := createTestNews(t, db, "Заголовок", time.Now())
	now := time.Now()
	createTestComment(t, db, news, author, now)
	createTestComment(t, db, news, author, now.Add(time.Second))

	got, err := db.News().GetByID(context.Background(), news.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", got.CommentCount)
	}
}

func TestNewsCreate_DefaultsDateToToday(t *testing.T) {
	db := newTestDB(t)
	n := createTestNews(t, db, "Без даты", time.Time{})

	y, m, d := time.Now().UTC().Date()
	if got := n.Date; got.Year() != y || got.Month() != m || got.Day() != d {
		t.Errorf("Date = %v, want today", got)
	}
}

func TestNewsGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.News().GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}
