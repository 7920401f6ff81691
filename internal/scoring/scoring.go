// Package scoring turns submitted answer vectors into question and quiz scores.
//
// Scores are computed per mille (1000 = fully correct, -1000 = fully wrong) and
// only converted to percentages at the end. Rounding is half-to-even.
package scoring

import (
	"math"

	"quizzes-service/internal/domain"
)

const full = 1000.0

// Result is the outcome of scoring a whole quiz.
type Result struct {
	PerMille []float64
	Scores   []int // percentage per question
	Score    int   // overall percentage
}

// Question scores one answer vector against a question's correct vector.
// A question with exactly one correct answer accepts at most one selection.
func Question(q domain.Question, answers []bool) (float64, error) {
	if len(answers) != len(q.Correct) {
		return 0, domain.Validationf("wrong number of answers for question %q", q.UUID)
	}
	selected := countTrue(answers)
	if selected == 0 {
		return 0, nil
	}
	right := q.CorrectCount()
	if right == 1 {
		if selected > 1 {
			return 0, domain.Validationf("multiple answers for single answer question %q", q.UUID)
		}
		for i, a := range answers {
			if a && q.Correct[i] {
				return full, nil
			}
		}
		return -full, nil
	}

	wrong := len(q.Correct) - right
	score := 0.0
	for i, a := range answers {
		if !a {
			continue
		}
		if q.Correct[i] {
			score += full / float64(right)
		} else {
			score -= full / float64(wrong)
		}
	}
	return score, nil
}

// Quiz scores every question in order. questions and answers must be parallel.
func Quiz(questions []domain.Question, answers [][]bool) (Result, error) {
	if len(questions) != len(answers) {
		return Result{}, domain.Validationf("wrong number of answers")
	}
	res := Result{
		PerMille: make([]float64, 0, len(questions)),
		Scores:   make([]int, 0, len(questions)),
	}
	for i, q := range questions {
		pm, err := Question(q, answers[i])
		if err != nil {
			return Result{}, err
		}
		res.PerMille = append(res.PerMille, pm)
		res.Scores = append(res.Scores, Percent(pm))
	}
	res.Score = Overall(res.PerMille)
	return res, nil
}

// Percent converts a per-mille score to a rounded percentage.
func Percent(perMille float64) int {
	return int(math.RoundToEven(perMille / 10))
}

// Overall averages per-mille scores and rounds once at the end.
func Overall(perMille []float64) int {
	if len(perMille) == 0 {
		return 0
	}
	sum := 0.0
	for _, pm := range perMille {
		sum += pm
	}
	return Percent(sum / float64(len(perMille)))
}

func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}
