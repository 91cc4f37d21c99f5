package handler

import (
	"strings"
	"testing"

	"newsfeed/internal/domain"
	"newsfeed/internal/feed"
	"newsfeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "a &lt; b &amp; &#34;c&#34;", escape(`a < b & "c"`))
	assert.Equal(t, "alert", escape("<script>x</script>alert"))
}

func TestRenderSlide(t *testing.T) {
	article := testutil.NewTestArticle("1", false)
	article.Title = `Giá vàng "tăng" & bạc`

	tests := []struct {
		name     string
		snap     feed.Snapshot
		index    int
		contains []string
		excludes []string
	}{
		{
			name:     "article card",
			snap:     feed.Snapshot{Items: []domain.Article{article, testutil.NewTestArticle("2", false)}, HasMore: true},
			index:    0,
			contains: []string{"Chào <b>Mai</b>! Tin nóng hôm nay", "<b>Giá vàng &#34;tăng&#34; &amp; bạc</b>", "Tóm tắt 1", "<b>VnExpress</b> • 20/11/2024", "<i>1/2</i>"},
			excludes: []string{textLoadingMore, "<a href"},
		},
		{
			name:     "empty feed",
			snap:     feed.Snapshot{},
			contains: []string{textEmptyFeed},
		},
		{
			name:     "empty feed while loading",
			snap:     feed.Snapshot{IsLoading: true},
			contains: []string{textLoadingMore},
		},
		{
			name:     "last article while loading",
			snap:     feed.Snapshot{Items: []domain.Article{article}, IsLoading: true},
			index:    0,
			contains: []string{"<i>1/1</i>", textLoadingMore},
		},
		{
			name:     "past the end",
			snap:     feed.Snapshot{Items: []domain.Article{article}},
			index:    1,
			contains: []string{textLoadingMore},
			excludes: []string{"Giá vàng"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := renderSlide("Mai", tt.snap, tt.index)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestRenderSlide_Image(t *testing.T) {
	article := testutil.NewTestArticle("1", false)
	article.ImageURL = "https://img.example/a.jpg?w=1&h=2"

	text := renderSlide("Mai", feed.Snapshot{Items: []domain.Article{article}}, 0)
	assert.Contains(t, text, `<a href="https://img.example/a.jpg?w=1&amp;h=2">`)

	article.ImageURL = "javascript:alert(1)"
	text = renderSlide("Mai", feed.Snapshot{Items: []domain.Article{article}}, 0)
	assert.NotContains(t, text, "<a href")
}

func TestSlideMarkup(t *testing.T) {
	items := testutil.NewTestPage(1, 3)

	tests := []struct {
		name        string
		snap        feed.Snapshot
		index       int
		expectedNav []string
	}{
		{
			name:        "first slide",
			snap:        feed.Snapshot{Items: items},
			index:       0,
			expectedNav: []string{"🤍", "➡️"},
		},
		{
			name:        "middle slide liked",
			snap:        feed.Snapshot{Items: items, LikedIDs: map[domain.ID]bool{"2": true}},
			index:       1,
			expectedNav: []string{"⬅️", "❤️", "➡️"},
		},
		{
			name:        "last slide",
			snap:        feed.Snapshot{Items: items},
			index:       2,
			expectedNav: []string{"⬅️", "🤍"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := slideMarkup(tt.snap, tt.index)
			require.Len(t, markup.InlineKeyboard, 2)

			var texts []string
			for _, btn := range markup.InlineKeyboard[0] {
				texts = append(texts, btn.Text)
			}
			assert.Equal(t, tt.expectedNav, texts)

			read := markup.InlineKeyboard[1][0]
			assert.Equal(t, textReadNow, read.Text)
			assert.Equal(t, tt.snap.Items[tt.index].Link, read.URL)
		})
	}
}

func TestTopicsMarkup(t *testing.T) {
	markup := topicsMarkup([]string{"Xe", "Du lịch"})

	// 12 topics two per row plus the submit row
	require.Len(t, markup.InlineKeyboard, 7)

	var selected []string
	for _, row := range markup.InlineKeyboard[:6] {
		for _, btn := range row {
			if strings.HasPrefix(btn.Text, "✅ ") {
				selected = append(selected, btn.Text)
			}
		}
	}
	assert.ElementsMatch(t, []string{"✅ Xe", "✅ Du lịch"}, selected)
	assert.Equal(t, "Xem Tin Gợi Ý (2)", markup.InlineKeyboard[6][0].Text)
}

func TestTopicAt(t *testing.T) {
	label, ok := topicAt("6")
	assert.True(t, ok)
	assert.Equal(t, "Thể thao", label)

	_, ok = topicAt("12")
	assert.False(t, ok)

	_, ok = topicAt("x")
	assert.False(t, ok)
}

func TestSlideMarkup_LikePayloadKeepsIDToken(t *testing.T) {
	tests := []struct {
		name     string
		id       domain.ID
		expected string
	}{
		{name: "numeric id", id: "42", expected: "42"},
		{name: "digit string id", id: `"42"`, expected: `"42"`},
		{name: "plain string id", id: "5f1c-aa", expected: "5f1c-aa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testutil.NewTestArticle("1", false)
			a.ID = tt.id

			markup := slideMarkup(feed.Snapshot{Items: []domain.Article{a}}, 0)
			require.NotEmpty(t, markup.InlineKeyboard)

			like := markup.InlineKeyboard[0][0]
			assert.Equal(t, btnLike.Unique, like.Unique)
			assert.Equal(t, tt.expected, like.Data)
			assert.Equal(t, tt.id, domain.ID(cleanCallbackData(like.Data)))
		})
	}
}
