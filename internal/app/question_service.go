package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"quizzes-service/internal/domain"
)

// QuestionService manages question records. Edit and delete permissions are
// derived from the publication tracker on every call.
type QuestionService struct {
	store   Store
	tracker *PublicationTracker
	log     *zap.Logger
}

func NewQuestionService(store Store, tracker *PublicationTracker, log *zap.Logger) *QuestionService {
	return &QuestionService{store: store, tracker: tracker, log: log}
}

// Create stores a new question owned by owner.
func (s *QuestionService) Create(ctx context.Context, owner, text string, answers []string, correct []bool) (domain.Question, error) {
	q := domain.Question{
		Owner:   owner,
		Text:    text,
		Answers: nonNil(answers),
		Correct: nonNil(correct),
	}
	equalizeAnswers(&q)
	if err := validateQuestion(q); err != nil {
		return domain.Question{}, err
	}
	q.UUID = domain.OwnedUUID(owner, domain.NewLocalID())

	if err := writeRecord(ctx, s.store, questionKey(q.UUID), q); err != nil {
		return domain.Question{}, err
	}
	s.log.Debug("question created", zap.String("question", q.UUID))
	return q, nil
}

// Get loads a question by UUID.
func (s *QuestionService) Get(ctx context.Context, uuid string) (domain.Question, error) {
	var q domain.Question
	found, err := readRecord(ctx, s.store, questionKey(uuid), &q)
	if err != nil {
		return domain.Question{}, err
	}
	if !found {
		return domain.Question{}, domain.NotFoundf("question not found")
	}
	return q, nil
}

// Update merges patch into the stored question. The stored owner always wins and
// a question referenced by a published quiz cannot be edited.
func (s *QuestionService) Update(ctx context.Context, uuid string, patch domain.QuestionPatch) (domain.Question, error) {
	q, err := s.Get(ctx, uuid)
	if err != nil {
		return domain.Question{}, err
	}
	status, err := s.tracker.Status(ctx, uuid)
	if err != nil {
		return domain.Question{}, err
	}
	if status == domain.Published {
		return domain.Question{}, domain.Forbiddenf("cannot update published questions")
	}

	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Answers != nil {
		q.Answers = nonNil(*patch.Answers)
	}
	if patch.Correct != nil {
		q.Correct = nonNil(*patch.Correct)
	}
	equalizeAnswers(&q)
	if err := validateQuestion(q); err != nil {
		return domain.Question{}, err
	}

	if err := writeRecord(ctx, s.store, questionKey(q.UUID), q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// Remove deletes a question that no quiz references and returns it.
func (s *QuestionService) Remove(ctx context.Context, uuid string) (domain.Question, error) {
	q, err := s.Get(ctx, uuid)
	if err != nil {
		return domain.Question{}, err
	}
	status, err := s.tracker.Status(ctx, uuid)
	if err != nil {
		return domain.Question{}, err
	}
	if status != domain.Unused {
		return domain.Question{}, domain.Forbiddenf("cannot delete questions in use")
	}
	if err := s.store.Delete(ctx, questionKey(uuid)); err != nil {
		return domain.Question{}, fmt.Errorf("delete question: %w", err)
	}
	return q, nil
}

// ListByOwner returns every question owned by owner in store scan order.
func (s *QuestionService) ListByOwner(ctx context.Context, owner string) ([]domain.Question, error) {
	return listRecords[domain.Question](ctx, s.store, questionKey(domain.OwnedUUID(owner, "")))
}

func validateQuestion(q domain.Question) error {
	if q.Text == "" {
		return domain.Validationf("question text is required")
	}
	if len(q.Answers) > domain.MaxAnswers || len(q.Correct) > domain.MaxAnswers {
		return domain.Validationf("question cannot have more than %d answers", domain.MaxAnswers)
	}
	if q.CorrectCount() == 0 {
		return domain.Validationf("question must have a correct answer")
	}
	return nil
}

// equalizeAnswers truncates the longer of answers/correct to the length of the shorter.
func equalizeAnswers(q *domain.Question) {
	switch {
	case len(q.Answers) > len(q.Correct):
		q.Answers = q.Answers[:len(q.Correct)]
	case len(q.Correct) > len(q.Answers):
		q.Correct = q.Correct[:len(q.Answers)]
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
