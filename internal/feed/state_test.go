package feed

import (
	"strconv"
	"testing"

	"newsfeed/internal/domain"
	"newsfeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_NewStateExpectsFirstPage(t *testing.T) {
	s := NewState()

	assert.True(t, s.HasMore())
	assert.False(t, s.IsLoading())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.LikedIDs())
}

func TestState_BeginLoadIsExclusive(t *testing.T) {
	s := NewState()

	require.True(t, s.beginLoad())
	assert.True(t, s.IsLoading())
	assert.False(t, s.beginLoad())

	s.completeLoad(testutil.NewTestPage(1, 10), false, 10)
	assert.False(t, s.IsLoading())
	assert.True(t, s.beginLoad())
}

func TestState_CompleteLoad(t *testing.T) {
	tests := []struct {
		name            string
		existing        int
		page            []domain.Article
		appendItems     bool
		expectedLen     int
		expectedHasMore bool
	}{
		{name: "full first page", page: testutil.NewTestPage(1, 10), expectedLen: 10, expectedHasMore: true},
		{name: "short first page", page: testutil.NewTestPage(1, 4), expectedLen: 4, expectedHasMore: false},
		{name: "empty page", page: nil, expectedLen: 0, expectedHasMore: false},
		{name: "append full page", existing: 10, page: testutil.NewTestPage(11, 10), appendItems: true, expectedLen: 20, expectedHasMore: true},
		{name: "append short page", existing: 10, page: testutil.NewTestPage(11, 3), appendItems: true, expectedLen: 13, expectedHasMore: false},
		{name: "replace", existing: 10, page: testutil.NewTestPage(50, 10), appendItems: false, expectedLen: 10, expectedHasMore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			if tt.existing > 0 {
				require.True(t, s.beginLoad())
				s.completeLoad(testutil.NewTestPage(1, tt.existing), false, 10)
			}

			require.True(t, s.beginLoad())
			s.completeLoad(tt.page, tt.appendItems, 10)

			assert.Equal(t, tt.expectedLen, s.Len())
			assert.Equal(t, tt.expectedHasMore, s.HasMore())
			assert.False(t, s.IsLoading())
		})
	}
}

func TestState_AppendPreservesOrder(t *testing.T) {
	s := NewState()
	require.True(t, s.beginLoad())
	s.completeLoad(testutil.NewTestPage(1, 10), false, 10)
	require.True(t, s.beginLoad())
	s.completeLoad(testutil.NewTestPage(11, 10), true, 10)

	items := s.Items()
	require.Len(t, items, 20)
	for i, a := range items {
		assert.Equal(t, domain.ID(strconv.Itoa(1+i)), a.ID)
	}
}

func TestState_LikedSeededFromPage(t *testing.T) {
	s := NewState()
	page := []domain.Article{
		testutil.NewTestArticle("1", true),
		testutil.NewTestArticle("2", false),
		testutil.NewTestArticle("3", true),
	}

	require.True(t, s.beginLoad())
	s.completeLoad(page, false, 10)

	assert.True(t, s.IsLiked("1"))
	assert.False(t, s.IsLiked("2"))
	assert.True(t, s.IsLiked("3"))
	assert.Equal(t, []domain.ID{"1", "3"}, s.LikedIDs())
}

func TestState_SeedNeverRemovesLocalLikes(t *testing.T) {
	s := NewState()
	require.True(t, s.beginLoad())
	s.completeLoad(testutil.NewTestPage(1, 10), false, 10)

	liked, err := s.toggleLiked("2")
	require.NoError(t, err)
	require.True(t, liked)

	// a later page reports the same article as not liked
	require.True(t, s.beginLoad())
	s.completeLoad([]domain.Article{testutil.NewTestArticle("2", false)}, true, 10)

	assert.True(t, s.IsLiked("2"))
}

func TestState_FailLoadStopsPagination(t *testing.T) {
	s := NewState()
	require.True(t, s.beginLoad())
	s.completeLoad(testutil.NewTestPage(1, 10), false, 10)

	require.True(t, s.beginLoad())
	s.failLoad()

	assert.False(t, s.HasMore())
	assert.False(t, s.IsLoading())
	assert.Equal(t, 10, s.Len())
	assert.False(t, s.beginLoad())
}

func TestState_LikeUnknownArticle(t *testing.T) {
	s := NewState()

	_, err := s.toggleLiked("missing")
	assert.ErrorIs(t, err, ErrUnknownArticle)
	assert.ErrorIs(t, s.SetLiked("missing", true), ErrUnknownArticle)
	assert.Empty(t, s.LikedIDs())
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()
	require.True(t, s.beginLoad())
	s.completeLoad([]domain.Article{testutil.NewTestArticle("1", true)}, false, 10)

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.True(t, snap.LikedIDs["1"])
	assert.False(t, snap.HasMore)
	assert.False(t, snap.IsLoading)

	snap.Items[0].Title = "changed"
	got, ok := s.At(0)
	require.True(t, ok)
	assert.NotEqual(t, "changed", got.Title)

	_, ok = s.At(1)
	assert.False(t, ok)
}
