package app

import (
	"context"
	"fmt"

	"quizzes-service/internal/domain"
)

// PublicationTracker keeps, per question, the set of quizzes that reference it,
// split by the publication state of those quizzes.
type PublicationTracker struct {
	store Store
}

func NewPublicationTracker(store Store) *PublicationTracker {
	return &PublicationTracker{store: store}
}

func publishedKey(questionUUID string) string { return publishedPrefix + questionUUID }

func unpublishedKey(questionUUID string) string { return unpublishedPrefix + questionUUID }

// MarkPublished records questionUUID as used by the published quiz quizUUID.
func (t *PublicationTracker) MarkPublished(ctx context.Context, questionUUID, quizUUID string) error {
	if err := t.store.AddToSet(ctx, publishedKey(questionUUID), quizUUID); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	if err := t.store.RemoveFromSet(ctx, unpublishedKey(questionUUID), quizUUID); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}

// MarkUnpublished records questionUUID as used by the unpublished quiz quizUUID.
func (t *PublicationTracker) MarkUnpublished(ctx context.Context, questionUUID, quizUUID string) error {
	if err := t.store.AddToSet(ctx, unpublishedKey(questionUUID), quizUUID); err != nil {
		return fmt.Errorf("mark unpublished: %w", err)
	}
	if err := t.store.RemoveFromSet(ctx, publishedKey(questionUUID), quizUUID); err != nil {
		return fmt.Errorf("mark unpublished: %w", err)
	}
	return nil
}

// MarkUnused drops quizUUID from both sets of questionUUID.
func (t *PublicationTracker) MarkUnused(ctx context.Context, questionUUID, quizUUID string) error {
	if err := t.store.RemoveFromSet(ctx, unpublishedKey(questionUUID), quizUUID); err != nil {
		return fmt.Errorf("mark unused: %w", err)
	}
	if err := t.store.RemoveFromSet(ctx, publishedKey(questionUUID), quizUUID); err != nil {
		return fmt.Errorf("mark unused: %w", err)
	}
	return nil
}

// Status derives the publication state of a question. Publication wins over
// unpublished references.
func (t *PublicationTracker) Status(ctx context.Context, questionUUID string) (domain.PublicationStatus, error) {
	n, err := t.store.SetSize(ctx, publishedKey(questionUUID))
	if err != nil {
		return domain.Unused, fmt.Errorf("publication status: %w", err)
	}
	if n > 0 {
		return domain.Published, nil
	}
	n, err = t.store.SetSize(ctx, unpublishedKey(questionUUID))
	if err != nil {
		return domain.Unused, fmt.Errorf("publication status: %w", err)
	}
	if n > 0 {
		return domain.ReferencedUnpublished, nil
	}
	return domain.Unused, nil
}
