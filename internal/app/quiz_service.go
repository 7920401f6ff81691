package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"quizzes-service/internal/domain"
)

// QuizService manages quiz records and keeps the publication tracker in step
// with every quiz write.
type QuizService struct {
	store   Store
	tracker *PublicationTracker
	log     *zap.Logger
}

func NewQuizService(store Store, tracker *PublicationTracker, log *zap.Logger) *QuizService {
	return &QuizService{store: store, tracker: tracker, log: log}
}

// Create stores a new, unpublished quiz.
func (s *QuizService) Create(ctx context.Context, owner, title string, questions []string) (domain.Quiz, error) {
	if title == "" {
		return domain.Quiz{}, domain.Validationf("quiz title is required")
	}
	if len(questions) > domain.MaxQuestions {
		return domain.Quiz{}, domain.Validationf("quiz cannot have more than %d questions", domain.MaxQuestions)
	}
	quiz := domain.Quiz{
		UUID:      domain.OwnedUUID(owner, domain.NewLocalID()),
		Owner:     owner,
		Published: false,
		Title:     title,
		Questions: nonNil(questions),
	}

	if err := s.reconcile(ctx, quiz.UUID, nil, quiz.Questions, false); err != nil {
		return domain.Quiz{}, err
	}
	if err := writeRecord(ctx, s.store, quizKey(quiz.UUID), quiz); err != nil {
		return domain.Quiz{}, err
	}
	s.log.Debug("quiz created", zap.String("quiz", quiz.UUID), zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// Get loads a quiz by UUID.
func (s *QuizService) Get(ctx context.Context, uuid string) (domain.Quiz, error) {
	var quiz domain.Quiz
	found, err := readRecord(ctx, s.store, quizKey(uuid), &quiz)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !found {
		return domain.Quiz{}, domain.NotFoundf("quiz not found")
	}
	return quiz, nil
}

// Update merges patch into an unpublished quiz. Published quizzes are frozen.
func (s *QuizService) Update(ctx context.Context, uuid string, patch domain.QuizPatch) (domain.Quiz, error) {
	old, err := s.Get(ctx, uuid)
	if err != nil {
		return domain.Quiz{}, err
	}
	if old.Published {
		return domain.Quiz{}, domain.Forbiddenf("cannot update published quiz")
	}

	quiz := old
	if patch.Title != nil {
		if *patch.Title == "" {
			return domain.Quiz{}, domain.Validationf("quiz title is required")
		}
		quiz.Title = *patch.Title
	}
	if patch.Questions != nil {
		quiz.Questions = nonNil(*patch.Questions)
	}
	if patch.Published != nil {
		quiz.Published = *patch.Published
	}
	if len(quiz.Questions) > domain.MaxQuestions {
		return domain.Quiz{}, domain.Validationf("quiz cannot have more than %d questions", domain.MaxQuestions)
	}
	if quiz.Published && len(quiz.Questions) == 0 {
		return domain.Quiz{}, domain.Validationf("cannot publish quiz with no questions")
	}

	if err := s.reconcile(ctx, quiz.UUID, old.Questions, quiz.Questions, quiz.Published); err != nil {
		return domain.Quiz{}, err
	}
	if err := writeRecord(ctx, s.store, quizKey(quiz.UUID), quiz); err != nil {
		return domain.Quiz{}, err
	}
	if quiz.Published {
		s.log.Info("quiz published", zap.String("quiz", quiz.UUID))
	}
	return quiz, nil
}

// Remove deletes a quiz, releases its questions and returns the deleted record.
func (s *QuizService) Remove(ctx context.Context, uuid string) (domain.Quiz, error) {
	quiz, err := s.Get(ctx, uuid)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := s.store.Delete(ctx, quizKey(uuid)); err != nil {
		return domain.Quiz{}, fmt.Errorf("delete quiz: %w", err)
	}
	if err := s.reconcile(ctx, uuid, quiz.Questions, nil, false); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// ListByOwner returns every quiz owned by owner in store scan order.
func (s *QuizService) ListByOwner(ctx context.Context, owner string) ([]domain.Quiz, error) {
	return listRecords[domain.Quiz](ctx, s.store, quizKey(domain.OwnedUUID(owner, "")))
}

// reconcile brings the tracker in line with a quiz that moved from oldQuestions to
// newQuestions. Stale references are released before current ones are marked.
// The steps are independent store writes; a failure leaves the tracker partially
// updated until the next successful write of this quiz, so it is logged loudly.
func (s *QuizService) reconcile(ctx context.Context, quizUUID string, oldQuestions, newQuestions []string, published bool) error {
	for _, q := range difference(oldQuestions, newQuestions) {
		if err := s.tracker.MarkUnused(ctx, q, quizUUID); err != nil {
			s.logReconcileFailure(quizUUID, q, "release", err)
			return err
		}
	}

	mark, step := s.tracker.MarkUnpublished, "mark unpublished"
	if published {
		mark, step = s.tracker.MarkPublished, "mark published"
	}
	for _, q := range newQuestions {
		if err := mark(ctx, q, quizUUID); err != nil {
			s.logReconcileFailure(quizUUID, q, step, err)
			return err
		}
	}
	return nil
}

func (s *QuizService) logReconcileFailure(quizUUID, questionUUID, step string, err error) {
	s.log.Error("publication tracker reconciliation incomplete; tracker may be stale for this quiz",
		zap.String("quiz", quizUUID),
		zap.String("question", questionUUID),
		zap.String("step", step),
		zap.Error(err),
	)
}

// difference returns the members of a that are not in b, in a's order.
func difference(a, b []string) []string {
	keep := make(map[string]struct{}, len(b))
	for _, v := range b {
		keep[v] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		if _, ok := keep[v]; ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
