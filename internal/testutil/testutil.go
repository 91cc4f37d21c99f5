package testutil

import (
	"fmt"
	"time"

	"newsfeed/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestArticle creates a test article
func NewTestArticle(id string, liked bool) domain.Article {
	return domain.Article{
		ID:        domain.ID(id),
		Title:     "Bài viết " + id,
		Summary:   "Tóm tắt " + id,
		Publisher: "VnExpress",
		CreatedAt: domain.Timestamp{Time: time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)},
		Link:      "https://news.example/" + id,
		IsLiked:   liked,
	}
}

// NewTestPage creates n articles with ids start, start+1, ...
func NewTestPage(start, n int) []domain.Article {
	page := make([]domain.Article, 0, n)
	for i := 0; i < n; i++ {
		page = append(page, NewTestArticle(fmt.Sprintf("%d", start+i), false))
	}
	return page
}
