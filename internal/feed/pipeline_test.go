package feed

import (
	"errors"
	"testing"

	"newsfeed/internal/domain"
	"newsfeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedState(t *testing.T, page []domain.Article) *State {
	t.Helper()
	s := NewState()
	require.True(t, s.beginLoad())
	s.completeLoad(page, false, 10)
	return s
}

func TestPipeline_ToggleLike(t *testing.T) {
	state := newLoadedState(t, testutil.NewTestPage(1, 10))
	dispatcher := &testutil.RecordingDispatcher{}
	p := NewPipeline(state, dispatcher, testCreds, nil, nil, testutil.NewTestLogger())

	liked, err := p.ToggleLike("3")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, state.IsLiked("3"))

	liked, err = p.ToggleLike("3")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.False(t, state.IsLiked("3"))

	reports := dispatcher.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, "t1", reports[0].Token)
	assert.Equal(t, domain.Interaction{UserID: "7", ArticleID: "3", Type: domain.InteractionLike}, reports[0].Interaction)
	assert.Equal(t, domain.Interaction{UserID: "7", ArticleID: "3", Type: domain.InteractionLike, Unlike: true}, reports[1].Interaction)
}

func TestPipeline_ToggleServerLiked(t *testing.T) {
	state := newLoadedState(t, []domain.Article{testutil.NewTestArticle("1", true)})
	dispatcher := &testutil.RecordingDispatcher{}
	p := NewPipeline(state, dispatcher, testCreds, nil, nil, testutil.NewTestLogger())

	liked, err := p.ToggleLike("1")

	require.NoError(t, err)
	assert.False(t, liked)
	assert.True(t, dispatcher.Interactions()[0].Unlike)
}

func TestPipeline_ToggleUnknownArticle(t *testing.T) {
	state := newLoadedState(t, testutil.NewTestPage(1, 2))
	dispatcher := &testutil.RecordingDispatcher{}
	p := NewPipeline(state, dispatcher, testCreds, nil, nil, testutil.NewTestLogger())

	_, err := p.ToggleLike("99")

	assert.ErrorIs(t, err, ErrUnknownArticle)
	assert.Empty(t, dispatcher.Reports())
}

func TestPipeline_FailedReportKeepsOptimisticState(t *testing.T) {
	state := newLoadedState(t, testutil.NewTestPage(1, 10))
	dispatcher := &testutil.RecordingDispatcher{Err: errors.New("503")}
	recorder := &testutil.RecordingRecorder{}
	p := NewPipeline(state, dispatcher, testCreds, NoRollback{}, recorder, testutil.NewTestLogger())

	liked, err := p.ToggleLike("4")

	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, state.IsLiked("4"))

	failures := recorder.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, domain.FailureSilentReporting, failures[0].Kind)
	assert.Equal(t, "report_LIKE", failures[0].Operation)
	assert.Equal(t, domain.ID("4"), failures[0].ArticleID)
}

func TestPipeline_RollbackReconciler(t *testing.T) {
	tests := []struct {
		name          string
		startLiked    bool
		dispatchErr   error
		expectedLiked bool
	}{
		{name: "like fails", startLiked: false, dispatchErr: errors.New("503"), expectedLiked: false},
		{name: "unlike fails", startLiked: true, dispatchErr: errors.New("503"), expectedLiked: true},
		{name: "like succeeds", startLiked: false, dispatchErr: nil, expectedLiked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newLoadedState(t, []domain.Article{testutil.NewTestArticle("1", tt.startLiked)})
			dispatcher := &testutil.RecordingDispatcher{Err: tt.dispatchErr}
			p := NewPipeline(state, dispatcher, testCreds, Rollback{}, nil, testutil.NewTestLogger())

			_, err := p.ToggleLike("1")

			require.NoError(t, err)
			assert.Equal(t, tt.expectedLiked, state.IsLiked("1"))
		})
	}
}

func TestPipeline_QueueFull(t *testing.T) {
	state := newLoadedState(t, testutil.NewTestPage(1, 10))
	recorder := &testutil.RecordingRecorder{}
	p := NewPipeline(state, &testutil.RecordingDispatcher{Reject: true}, testCreds, nil, recorder, testutil.NewTestLogger())

	liked, err := p.ToggleLike("1")
	p.SendInteraction("2", domain.InteractionView)

	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, state.IsLiked("1"))

	failures := recorder.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, ErrQueueFull.Error(), failures[0].Message)
	assert.Equal(t, "report_VIEW", failures[1].Operation)
}

func TestPipeline_SendInteractionAndUnlike(t *testing.T) {
	state := newLoadedState(t, testutil.NewTestPage(1, 10))
	dispatcher := &testutil.RecordingDispatcher{}
	p := NewPipeline(state, dispatcher, testCreds, nil, nil, testutil.NewTestLogger())

	p.SendInteraction("1", domain.InteractionSkip)
	p.SendUnlike("2")

	assert.Equal(t, []domain.Interaction{
		{UserID: "7", ArticleID: "1", Type: domain.InteractionSkip},
		{UserID: "7", ArticleID: "2", Type: domain.InteractionLike, Unlike: true},
	}, dispatcher.Interactions())
}

func TestReconcilerByName(t *testing.T) {
	r, err := ReconcilerByName("")
	require.NoError(t, err)
	assert.IsType(t, NoRollback{}, r)

	r, err = ReconcilerByName("rollback")
	require.NoError(t, err)
	assert.IsType(t, Rollback{}, r)

	_, err = ReconcilerByName("eventual")
	assert.Error(t, err)
}
