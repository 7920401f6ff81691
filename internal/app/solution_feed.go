package app

import (
	"sync"

	"quizzes-service/internal/domain"
)

// SolutionFeed fans newly recorded solutions out to in-process subscribers,
// keyed by quiz UUID. It is notification only; the store stays authoritative.
type SolutionFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Solution]struct{}
}

func NewSolutionFeed() *SolutionFeed {
	return &SolutionFeed{subscribers: make(map[string]map[chan domain.Solution]struct{})}
}

// Subscribe returns a channel of solutions recorded for quizUUID.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *SolutionFeed) Subscribe(quizUUID string) (<-chan domain.Solution, func()) {
	ch := make(chan domain.Solution, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[quizUUID]
	if !ok {
		subs = make(map[chan domain.Solution]struct{})
		f.subscribers[quizUUID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subscribers[quizUUID]
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(f.subscribers, quizUUID)
		}
	}
	return ch, cancel
}

// Publish delivers sol to every subscriber of its quiz. A full subscriber loses
// its oldest pending solution rather than blocking the submitter.
func (f *SolutionFeed) Publish(sol domain.Solution) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[sol.Quiz] {
		select {
		case ch <- sol:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- sol
		}
	}
}

// Subscribers reports how many subscribers are attached to quizUUID.
func (f *SolutionFeed) Subscribers(quizUUID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[quizUUID])
}
