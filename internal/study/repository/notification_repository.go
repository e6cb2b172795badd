package repository

import (
	"context"
	"fmt"

	"studybuddy-functions/internal/study/domain"

	"cloud.google.com/go/firestore"
)

const notificationItemsCollection = "items"

// NotificationRepository defines write access to in-app notification feeds
type NotificationRepository interface {
	// CreateForOwners writes one copy of record into each owner's feed.
	// Either every copy is committed or none is.
	CreateForOwners(ctx context.Context, ownerUIDs []string, record domain.NotificationRecord) error
}

// notificationRepository implements NotificationRepository on Cloud Firestore
type notificationRepository struct {
	client     *firestore.Client
	collection string
}

// NewNotificationRepository creates a new instance of notificationRepository
func NewNotificationRepository(client *firestore.Client, collection string) NotificationRepository {
	return &notificationRepository{
		client:     client,
		collection: collection,
	}
}

func (r *notificationRepository) CreateForOwners(ctx context.Context, ownerUIDs []string, record domain.NotificationRecord) error {
	if len(ownerUIDs) == 0 {
		return nil
	}

	// One batch so every item shares the commit's server timestamp
	batch := r.client.Batch()
	for _, owner := range ownerUIDs {
		ref := r.client.Collection(r.collection).Doc(owner).Collection(notificationItemsCollection).NewDoc()
		batch.Create(ref, record)
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %d notification items: %w", len(ownerUIDs), err)
	}
	return nil
}
