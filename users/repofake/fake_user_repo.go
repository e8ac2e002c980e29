package fakeuserrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-obras-server/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users collection holding raw documents, so
// malformed records can be stored the same way a real document store allows.
type FakeUserRepo struct {
	docs     map[string]map[string]any // document ID to document
	failWith error
	lists    int
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		docs: make(map[string]map[string]any),
	}
}

func (ur *FakeUserRepo) Upsert(ctx context.Context, user *users.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if ur.failWith != nil {
		return ur.failWith
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	ur.docs[user.ID] = user.ToDocument()
	return nil
}

// PutDocument stores a raw document under id, bypassing any validation.
func (ur *FakeUserRepo) PutDocument(id string, doc map[string]any) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	copied := make(map[string]any, len(doc))
	for k, v := range doc {
		copied[k] = v
	}
	ur.docs[id] = copied
}

// SetField edits one field of a stored document in place.
func (ur *FakeUserRepo) SetField(id, field string, value any) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	doc, ok := ur.docs[id]
	if !ok {
		return errors.New("not found")
	}
	doc[field] = value
	return nil
}

func (ur *FakeUserRepo) Delete(id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.docs[id]; !ok {
		return errors.New("not found")
	}
	delete(ur.docs, id)
	return nil
}

// SetUnavailable makes every call fail with err until called again with nil.
func (ur *FakeUserRepo) SetUnavailable(err error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	ur.failWith = err
}

// ListCalls returns how many times List has been called.
func (ur *FakeUserRepo) ListCalls() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return ur.lists
}

func (ur *FakeUserRepo) List(ctx context.Context) ([]*users.User, users.DecodeErrors, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	ur.lists++
	if ur.failWith != nil {
		return nil, nil, ur.failWith
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(ur.docs))
	for id := range ur.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	userList := make([]*users.User, 0, len(ids))
	var decodeErrs users.DecodeErrors
	for _, id := range ids {
		u, err := users.FromDocument(id, ur.docs[id])
		if err != nil {
			decodeErrs = append(decodeErrs, err)
			continue
		}
		userList = append(userList, u)
	}
	return userList, decodeErrs, nil
}
