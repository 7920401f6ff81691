package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"quizzes-service/internal/domain"
	"quizzes-service/internal/scoring"
)

// SolutionService scores submissions and records each (user, quiz) attempt at most once.
type SolutionService struct {
	store     Store
	quizzes   *QuizService
	questions *QuestionService
	feed      *SolutionFeed
	log       *zap.Logger
}

func NewSolutionService(store Store, quizzes *QuizService, questions *QuestionService, feed *SolutionFeed, log *zap.Logger) *SolutionService {
	return &SolutionService{store: store, quizzes: quizzes, questions: questions, feed: feed, log: log}
}

// Submit scores answers for a published quiz. Solutions by the quiz owner are
// returned as a preview and never stored.
func (s *SolutionService) Submit(ctx context.Context, solver string, rec domain.SolutionRec) (domain.Solution, error) {
	if rec.Quiz == "" {
		return domain.Solution{}, domain.Validationf("quiz being answered is required")
	}
	quiz, err := s.quizzes.Get(ctx, rec.Quiz)
	if err != nil {
		return domain.Solution{}, err
	}
	if !quiz.Published {
		return domain.Solution{}, domain.Forbiddenf("cannot take unpublished quiz")
	}

	uuid := domain.SolutionUUID(solver, quiz.UUID)
	if _, err := s.store.Get(ctx, solutionKey(uuid)); err == nil {
		return domain.Solution{}, domain.Forbiddenf("cannot repeat quiz")
	} else if !errors.Is(err, ErrKeyNotFound) {
		return domain.Solution{}, fmt.Errorf("read solution: %w", err)
	}
	if len(rec.Answers) == 0 {
		return domain.Solution{}, domain.Validationf("answers are required")
	}
	if len(rec.Answers) != len(quiz.Questions) {
		return domain.Solution{}, domain.Validationf("wrong number of answers")
	}

	questions, err := s.resolveQuestions(ctx, quiz)
	if err != nil {
		return domain.Solution{}, err
	}
	result, err := scoring.Quiz(questions, rec.Answers)
	if err != nil {
		return domain.Solution{}, err
	}

	sol := domain.Solution{
		UUID:      uuid,
		User:      solver,
		Quiz:      quiz.UUID,
		Title:     quiz.Title,
		Questions: make([]string, 0, len(questions)),
		Scores:    result.Scores,
		Score:     result.Score,
	}
	for _, q := range questions {
		sol.Questions = append(sol.Questions, q.Text)
	}

	if quiz.Owner == solver {
		return sol, nil
	}
	if err := s.save(ctx, sol); err != nil {
		return domain.Solution{}, err
	}
	s.log.Info("solution recorded",
		zap.String("solution", sol.UUID),
		zap.String("quiz", sol.Quiz),
		zap.Int("score", sol.Score),
	)
	s.feed.Publish(sol)
	return sol, nil
}

// resolveQuestions loads the quiz questions concurrently, keeping quiz order.
// A question that vanished while the quiz is published is an integrity failure.
func (s *SolutionService) resolveQuestions(ctx context.Context, quiz domain.Quiz) ([]domain.Question, error) {
	questions := make([]domain.Question, len(quiz.Questions))
	g, gctx := errgroup.WithContext(ctx)
	for i, uuid := range quiz.Questions {
		i, uuid := i, uuid
		g.Go(func() error {
			q, err := s.questions.Get(gctx, uuid)
			if errors.Is(err, domain.ErrNotFound) {
				s.log.Error("published quiz references a missing question",
					zap.String("quiz", quiz.UUID), zap.String("question", uuid))
				return domain.Integrityf("quiz question missing")
			}
			if err != nil {
				return err
			}
			questions[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *SolutionService) save(ctx context.Context, sol domain.Solution) error {
	raw, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("encode solution: %w", err)
	}
	created, err := s.store.SetIfAbsent(ctx, solutionKey(sol.UUID), raw)
	if err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	if !created {
		return domain.Forbiddenf("cannot repeat quiz")
	}
	if err := s.store.AddToSet(ctx, quizSolutionsKey(sol.Quiz), sol.UUID); err != nil {
		return fmt.Errorf("index solution: %w", err)
	}
	return nil
}

// Get loads a solution by UUID.
func (s *SolutionService) Get(ctx context.Context, uuid string) (domain.Solution, error) {
	var sol domain.Solution
	found, err := readRecord(ctx, s.store, solutionKey(uuid), &sol)
	if err != nil {
		return domain.Solution{}, err
	}
	if !found {
		return domain.Solution{}, domain.NotFoundf("solution not found")
	}
	return sol, nil
}

// ListByUser returns every solution recorded by user.
func (s *SolutionService) ListByUser(ctx context.Context, user string) ([]domain.Solution, error) {
	return listRecords[domain.Solution](ctx, s.store, solutionKey(user+domain.Delimiter))
}

// ListByQuiz returns every solution recorded for quizUUID. Owner previews are never listed.
func (s *SolutionService) ListByQuiz(ctx context.Context, quizUUID string) ([]domain.Solution, error) {
	members, err := s.store.SetMembers(ctx, quizSolutionsKey(quizUUID))
	if err != nil {
		return nil, fmt.Errorf("list quiz solutions: %w", err)
	}
	out := make([]domain.Solution, 0, len(members))
	for _, uuid := range members {
		var sol domain.Solution
		found, err := readRecord(ctx, s.store, solutionKey(uuid), &sol)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, sol)
		}
	}
	return out, nil
}

// Remove always fails: solutions are kept as an audit trail.
func (s *SolutionService) Remove(_ context.Context, _ string) (domain.Solution, error) {
	return domain.Solution{}, domain.Unsupportedf("removing solutions is not supported")
}
