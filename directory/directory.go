// Package directory loads the users collection into an in-memory lookup table
// for a single login attempt.
package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/go-obras-server/internal/errors"
	"github.com/jrsteele09/go-obras-server/users"
	"github.com/rs/zerolog/log"
)

// DuplicatePolicy decides what happens when two documents share a username.
type DuplicatePolicy string

const (
	// DuplicateLastWins keeps the record seen last in document-ID order.
	DuplicateLastWins DuplicatePolicy = "last-wins"
	// DuplicateReject fails the load with ErrDuplicateUser.
	DuplicateReject DuplicatePolicy = "reject"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicateLastWins:
		return DuplicateLastWins, nil
	case DuplicateReject:
		return DuplicateReject, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q", s)
}

// Directory is an immutable snapshot of the users collection keyed by username.
type Directory struct {
	byUsername map[string]users.User
	roles      map[string]users.RoleType
	sites      map[string]string
	duplicates []string
	skipped    int
}

// New builds a Directory from records in store order.
func New(records []*users.User, policy DuplicatePolicy) (*Directory, error) {
	d := &Directory{
		byUsername: make(map[string]users.User, len(records)),
		roles:      make(map[string]users.RoleType, len(records)),
		sites:      make(map[string]string, len(records)),
	}
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if _, dup := d.byUsername[r.Username]; dup && !seen[r.Username] {
			seen[r.Username] = true
			d.duplicates = append(d.duplicates, r.Username)
		}
		d.byUsername[r.Username] = *r
		d.roles[r.Username] = r.Role
		d.sites[r.Username] = r.AssignedSite
	}
	sort.Strings(d.duplicates)

	if len(d.duplicates) > 0 && policy == DuplicateReject {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateUser, strings.Join(d.duplicates, ", "))
	}
	return d, nil
}

// Lookup returns a copy of the record for username.
func (d *Directory) Lookup(username string) (users.User, bool) {
	u, ok := d.byUsername[username]
	return u, ok
}

func (d *Directory) RoleOf(username string) (users.RoleType, bool) {
	r, ok := d.roles[username]
	return r, ok
}

func (d *Directory) SiteOf(username string) (string, bool) {
	s, ok := d.sites[username]
	return s, ok
}

func (d *Directory) Len() int {
	return len(d.byUsername)
}

// Usernames returns every username, sorted.
func (d *Directory) Usernames() []string {
	names := make([]string, 0, len(d.byUsername))
	for n := range d.byUsername {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Duplicates lists usernames that appeared more than once in the store.
func (d *Directory) Duplicates() []string {
	out := make([]string, len(d.duplicates))
	copy(out, d.duplicates)
	return out
}

// Skipped is the number of documents that could not be decoded.
func (d *Directory) Skipped() int {
	return d.skipped
}

// Loader reads a fresh Directory from the store on every call.
type Loader struct {
	repo   users.Repo
	policy DuplicatePolicy
}

func NewLoader(repo users.Repo, policy DuplicatePolicy) *Loader {
	if policy == "" {
		policy = DuplicateLastWins
	}
	return &Loader{repo: repo, policy: policy}
}

// Load reads the entire users collection. A store failure is reported as
// ErrDirectoryUnavailable and never as an empty directory.
func (l *Loader) Load(ctx context.Context) (*Directory, error) {
	records, decodeErrs, err := l.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(fmt.Errorf("%w: %w", apperrors.ErrDirectoryUnavailable, err), "[Loader.Load]")
	}
	for _, de := range decodeErrs {
		log.Warn().Err(de).Msg("skipping user document")
	}

	d, err := New(records, l.policy)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Loader.Load]")
	}
	d.skipped = len(decodeErrs)
	if dups := d.Duplicates(); len(dups) > 0 {
		log.Warn().Strs("usernames", dups).Msg("duplicate usernames in users collection, last document wins")
	}
	return d, nil
}
