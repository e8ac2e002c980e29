package users

import "context"

// Repo is the users collection of the document store.
type Repo interface {
	// List returns every user document in document-ID order. Documents that fail
	// to decode are reported through the returned DecodeErrors, not dropped silently.
	List(ctx context.Context) ([]*User, DecodeErrors, error)

	// Upsert creates or replaces the document for user.ID, assigning an ID when empty.
	Upsert(ctx context.Context, user *User) error
}

// DecodeErrors collects documents that could not be turned into a User.
type DecodeErrors []error
