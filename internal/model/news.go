package model

import "time"

// News is a public news item. Items are listed newest Date first.
//
// CommentCount is filled in by list queries only; it is not a column.
type News struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
	CommentCount int       `json:"commentCount"`
}

// Comment is a user comment on a news item, listed oldest Created first.
// AuthorName is joined from users for display and is never written.
type Comment struct {
	ID         string    `json:"id"`
	NewsID     string    `json:"newsId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
