package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Store.Get for a missing key.
var ErrKeyNotFound = errors.New("store: key not found")

// Store abstracts the key-value backend (in-memory, Redis, Postgres).
// Each key is owned by exactly one service.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent writes value only when key does not exist. It must be atomic per key.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	Delete(ctx context.Context, key string) error
	AddToSet(ctx context.Context, setKey, member string) error
	RemoveFromSet(ctx context.Context, setKey, member string) error
	SetSize(ctx context.Context, setKey string) (int, error)
	SetMembers(ctx context.Context, setKey string) ([]string, error)
	ScanKeys(ctx context.Context, prefix string) ([]string, error)
}

const (
	questionPrefix      = "question-"
	quizPrefix          = "quiz-"
	solutionPrefix      = "solution-"
	publishedPrefix     = "published-"
	unpublishedPrefix   = "unpublished-"
	quizSolutionsPrefix = "solutions-"
	userPrefix          = "user:"
)

func questionKey(uuid string) string { return questionPrefix + uuid }

func quizKey(uuid string) string { return quizPrefix + uuid }

func solutionKey(uuid string) string { return solutionPrefix + uuid }

func quizSolutionsKey(quizUUID string) string { return quizSolutionsPrefix + quizUUID }

func userKey(email string) string { return userPrefix + email }

// readRecord decodes the JSON document at key into v. found is false for a missing key.
func readRecord(ctx context.Context, store Store, key string, v any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func writeRecord(ctx context.Context, store Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// listRecords loads every record whose key starts with prefix. Keys that vanish
// between the scan and the read are skipped.
func listRecords[T any](ctx context.Context, store Store, prefix string) ([]T, error) {
	keys, err := store.ScanKeys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	out := make([]T, 0, len(keys))
	for _, key := range keys {
		var v T
		found, err := readRecord(ctx, store, key, &v)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, v)
		}
	}
	return out, nil
}
