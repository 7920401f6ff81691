package redis

import (
	"context"
	"errors"
	"sort"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"quizzes-service/internal/app"
)

var _ app.Store = (*Store)(nil)

func TestStoreRecordsInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewStore(newClient(mr))
	ctx := context.Background()

	if _, err := store.Get(ctx, "quiz-a-1"); !errors.Is(err, app.ErrKeyNotFound) {
		t.Fatalf("expected key not found, got %v", err)
	}
	if err := store.Set(ctx, "quiz-a-1", []byte(`{"title":"t"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := mr.Get("quiz-a-1")
	if err != nil || got != `{"title":"t"}` {
		t.Fatalf("expected raw json in redis, got %q (%v)", got, err)
	}

	created, err := store.SetIfAbsent(ctx, "quiz-a-1", []byte("other"))
	if err != nil || created {
		t.Fatalf("expected existing key to be kept, created=%v err=%v", created, err)
	}

	if err := store.Delete(ctx, "quiz-a-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("quiz-a-1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestStoreSetsInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewStore(newClient(mr))
	ctx := context.Background()

	_ = store.AddToSet(ctx, "unpublished-q1", "quiz-1")
	_ = store.AddToSet(ctx, "unpublished-q1", "quiz-2")
	if ok, _ := mr.SIsMember("unpublished-q1", "quiz-2"); !ok {
		t.Fatalf("expected quiz-2 in set")
	}

	n, err := store.SetSize(ctx, "unpublished-q1")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 members, got %d (%v)", n, err)
	}
	_ = store.RemoveFromSet(ctx, "unpublished-q1", "quiz-1")
	members, _ := store.SetMembers(ctx, "unpublished-q1")
	if len(members) != 1 || members[0] != "quiz-2" {
		t.Fatalf("unexpected members %v", members)
	}
	if n, _ := store.SetSize(ctx, "published-q1"); n != 0 {
		t.Fatalf("missing set should be empty, got %d", n)
	}
}

func TestStoreScanKeysByPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewStore(newClient(mr))
	ctx := context.Background()
	for _, k := range []string{"question-alice-1", "question-alice-2", "question-bob-1", "quiz-alice-1"} {
		_ = mr.Set(k, "{}")
	}

	keys, err := store.ScanKeys(ctx, "question-alice-")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "question-alice-1" || keys[1] != "question-alice-2" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `question-a\*b\?-`, escapeGlob("question-a*b?-"))
	assert.Equal(t, `x\[1\]\\`, escapeGlob(`x[1]\`))
}

func TestStoreSurfacesRedisErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewStore(db)
	ctx := context.Background()
	redisErr := errors.New("connection reset")

	mock.ExpectGet("quiz-a-1").SetErr(redisErr)
	_, err := store.Get(ctx, "quiz-a-1")
	assert.ErrorIs(t, err, redisErr)

	mock.ExpectDel("quiz-a-1").SetErr(redisErr)
	assert.ErrorIs(t, store.Delete(ctx, "quiz-a-1"), redisErr)

	mock.ExpectSCard("published-q1").SetErr(redisErr)
	_, err = store.SetSize(ctx, "published-q1")
	assert.ErrorIs(t, err, redisErr)

	mock.ExpectSRem("published-q1", "quiz-1").SetErr(redisErr)
	assert.ErrorIs(t, store.RemoveFromSet(ctx, "published-q1", "quiz-1"), redisErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
