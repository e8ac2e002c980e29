// Package firestore reads the users collection from Google Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/jrsteele09/go-obras-server/users"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var _ users.Repo = (*Repo)(nil)

type Repo struct {
	client     *firestore.Client
	collection string
}

// Open connects to the Firestore database of projectID. Credentials come from the
// environment (GOOGLE_APPLICATION_CREDENTIALS or FIRESTORE_EMULATOR_HOST) unless
// opts say otherwise.
func Open(ctx context.Context, projectID, collection string, opts ...option.ClientOption) (*Repo, error) {
	if projectID == "" {
		return nil, errors.New("[firestore Open] project ID is required")
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("[firestore Open] firestore.NewClient: %w", err)
	}
	return New(client, collection), nil
}

func New(client *firestore.Client, collection string) *Repo {
	if collection == "" {
		collection = "users"
	}
	return &Repo{client: client, collection: collection}
}

func (r *Repo) Close() error {
	return r.client.Close()
}

// List reads the whole collection ordered by document ID.
func (r *Repo) List(ctx context.Context) ([]*users.User, users.DecodeErrors, error) {
	iter := r.client.Collection(r.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var (
		userList   []*users.User
		decodeErrs users.DecodeErrors
	)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("[firestore List] %s: %w", r.collection, err)
		}
		u, err := users.FromDocument(doc.Ref.ID, doc.Data())
		if err != nil {
			decodeErrs = append(decodeErrs, err)
			continue
		}
		userList = append(userList, u)
	}
	return userList, decodeErrs, nil
}

func (r *Repo) Upsert(ctx context.Context, user *users.User) error {
	col := r.client.Collection(r.collection)
	ref := col.NewDoc()
	if user.ID != "" {
		ref = col.Doc(user.ID)
	}
	if _, err := ref.Set(ctx, user.ToDocument()); err != nil {
		return fmt.Errorf("[firestore Upsert] %s/%s: %w", r.collection, ref.ID, err)
	}
	user.ID = ref.ID
	return nil
}
