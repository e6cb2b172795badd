package repository

import (
	"context"
	"fmt"

	"studybuddy-functions/internal/study/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UserRepository defines read access to user documents
type UserRepository interface {
	// FindByID returns nil, nil when the document does not exist
	FindByID(ctx context.Context, uid string) (*domain.UserRecord, error)
}

// userRepository implements UserRepository on Cloud Firestore
type userRepository struct {
	client     *firestore.Client
	collection string
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(client *firestore.Client, collection string) UserRepository {
	return &userRepository{
		client:     client,
		collection: collection,
	}
}

func (r *userRepository) FindByID(ctx context.Context, uid string) (*domain.UserRecord, error) {
	snap, err := r.client.Collection(r.collection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", r.collection, uid, err)
	}
	if !snap.Exists() {
		return nil, nil
	}
	return domain.UserFromFields(uid, snap.Data()), nil
}
