package app_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quizzes-service/internal/app"
	"quizzes-service/internal/domain"
)

func TestFeedDeliversPerQuiz(t *testing.T) {
	feed := app.NewSolutionFeed()
	a, cancelA := feed.Subscribe("quiz-a")
	defer cancelA()
	b, cancelB := feed.Subscribe("quiz-b")
	defer cancelB()

	feed.Publish(domain.Solution{UUID: "s1", Quiz: "quiz-a"})

	require.Len(t, a, 1)
	assert.Equal(t, "s1", (<-a).UUID)
	assert.Len(t, b, 0)
}

func TestFeedDropsOldestWhenFull(t *testing.T) {
	feed := app.NewSolutionFeed()
	ch, cancel := feed.Subscribe("quiz")
	defer cancel()

	for i := 0; i < 20; i++ {
		feed.Publish(domain.Solution{UUID: fmt.Sprintf("s%d", i), Quiz: "quiz"})
	}

	require.Equal(t, cap(ch), len(ch))
	first := <-ch
	assert.Equal(t, fmt.Sprintf("s%d", 20-cap(ch)), first.UUID)
}

func TestFeedCancelClosesChannel(t *testing.T) {
	feed := app.NewSolutionFeed()
	ch, cancel := feed.Subscribe("quiz")
	assert.Equal(t, 1, feed.Subscribers("quiz"))

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, feed.Subscribers("quiz"))

	feed.Publish(domain.Solution{UUID: "s", Quiz: "quiz"})
}
