package app_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"quizzes-service/internal/app"
	"quizzes-service/internal/domain"
	"quizzes-service/internal/infra/memory"
)

type services struct {
	store     *memory.Store
	tracker   *app.PublicationTracker
	questions *app.QuestionService
	quizzes   *app.QuizService
	solutions *app.SolutionService
	feed      *app.SolutionFeed
}

func newServices(store app.Store, log *zap.Logger) services {
	tracker := app.NewPublicationTracker(store)
	questions := app.NewQuestionService(store, tracker, log)
	quizzes := app.NewQuizService(store, tracker, log)
	feed := app.NewSolutionFeed()
	s := services{
		tracker:   tracker,
		questions: questions,
		quizzes:   quizzes,
		solutions: app.NewSolutionService(store, quizzes, questions, feed, log),
		feed:      feed,
	}
	if ms, ok := store.(*memory.Store); ok {
		s.store = ms
	}
	return s
}

func newTestServices() services {
	return newServices(memory.NewStore(), zap.NewNop())
}

func ptr[T any](v T) *T { return &v }

func TestCreateQuestion(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()

	q, err := s.questions.Create(ctx, "alice", "2 + 2?", []string{"3", "4"}, []bool{false, true})
	require.NoError(t, err)
	assert.Equal(t, "alice", domain.OwnerOf(q.UUID))
	assert.Equal(t, "alice", q.Owner)

	got, err := s.questions.Get(ctx, q.UUID)
	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestCreateQuestionValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()

	cases := []struct {
		name    string
		text    string
		answers []string
		correct []bool
	}{
		{"empty text", "", []string{"a"}, []bool{true}},
		{"too many answers", "q", []string{"1", "2", "3", "4", "5", "6"}, []bool{true, false, false, false, false, false}},
		{"no correct answer", "q", []string{"a", "b"}, []bool{false, false}},
		{"no correct flags", "q", []string{"a", "b"}, nil},
		{"correct answer truncated away", "q", []string{"a", "b"}, []bool{false, false, true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.questions.Create(ctx, "alice", tc.text, tc.answers, tc.correct)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestCreateQuestionTruncatesLongerSide(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()

	q, err := s.questions.Create(ctx, "alice", "q", []string{"a", "b", "c"}, []bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, q.Answers)
	assert.Equal(t, []bool{true, false}, q.Correct)
}

func TestUpdateQuestionMergesPatch(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()
	q, err := s.questions.Create(ctx, "alice", "old text", []string{"a", "b", "c"}, []bool{true, false, false})
	require.NoError(t, err)

	updated, err := s.questions.Update(ctx, q.UUID, domain.QuestionPatch{Text: ptr("new text")})
	require.NoError(t, err)
	assert.Equal(t, "new text", updated.Text)
	assert.Equal(t, q.Answers, updated.Answers)
	assert.Equal(t, q.Correct, updated.Correct)
	assert.Equal(t, "alice", updated.Owner)

	// Shorter correct vector truncates the stored answers.
	updated, err = s.questions.Update(ctx, q.UUID, domain.QuestionPatch{Correct: ptr([]bool{false, true})})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, updated.Answers)
	assert.Equal(t, []bool{false, true}, updated.Correct)

	_, err = s.questions.Update(ctx, q.UUID, domain.QuestionPatch{Text: ptr("")})
	assert.True(t, errors.Is(err, domain.ErrValidation), "explicitly clearing text is rejected")

	_, err = s.questions.Update(ctx, "alice-missing", domain.QuestionPatch{Text: ptr("x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestQuestionLifecycleFollowsPublication(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()
	q, err := s.questions.Create(ctx, "alice", "q", []string{"a", "b"}, []bool{true, false})
	require.NoError(t, err)

	quiz, err := s.quizzes.Create(ctx, "alice", "quiz", []string{q.UUID})
	require.NoError(t, err)

	// Referenced by an unpublished quiz: editable, not deletable.
	_, err = s.questions.Update(ctx, q.UUID, domain.QuestionPatch{Text: ptr("edited")})
	require.NoError(t, err)
	_, err = s.questions.Remove(ctx, q.UUID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	// Referenced by a published quiz: neither.
	_, err = s.quizzes.Update(ctx, quiz.UUID, domain.QuizPatch{Published: ptr(true)})
	require.NoError(t, err)
	_, err = s.questions.Update(ctx, q.UUID, domain.QuestionPatch{Text: ptr("again")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = s.questions.Remove(ctx, q.UUID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	// Referenced by nothing: both.
	_, err = s.quizzes.Remove(ctx, quiz.UUID)
	require.NoError(t, err)
	_, err = s.questions.Update(ctx, q.UUID, domain.QuestionPatch{Text: ptr("free")})
	require.NoError(t, err)
	removed, err := s.questions.Remove(ctx, q.UUID)
	require.NoError(t, err)
	assert.Equal(t, "free", removed.Text)

	_, err = s.questions.Get(ctx, q.UUID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListQuestionsByOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestServices()
	a1, _ := s.questions.Create(ctx, "alice", "a1", []string{"x"}, []bool{true})
	a2, _ := s.questions.Create(ctx, "alice", "a2", []string{"x"}, []bool{true})
	_, _ = s.questions.Create(ctx, "bob", "b1", []string{"x"}, []bool{true})

	list, err := s.questions.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	got := []string{list[0].UUID, list[1].UUID}
	sort.Strings(got)
	want := []string{a1.UUID, a2.UUID}
	sort.Strings(want)
	assert.Equal(t, want, got)
}
