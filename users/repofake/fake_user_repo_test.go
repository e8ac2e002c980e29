package fakeuserrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-obras-server/users"
	fakeuserrepo "github.com/jrsteele09/go-obras-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeUserRepo_ListOrderAndDecodeErrors(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	repo.PutDocument("b", map[string]any{"username": "bob", "password": "x", "role": "jefe"})
	repo.PutDocument("a", map[string]any{"username": "ana", "password": "y", "role": "admin"})
	repo.PutDocument("c", map[string]any{"username": "broken"})

	list, decodeErrs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "ana", list[0].Username)
	require.Equal(t, "bob", list[1].Username)
	require.Len(t, decodeErrs, 1)
	require.Equal(t, 1, repo.ListCalls())
}

func TestFakeUserRepo_UpsertAssignsID(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Username: "ana", PasswordSecret: "p", Role: users.RoleAdmin}
	require.NoError(t, repo.Upsert(ctx, u))
	require.NotEmpty(t, u.ID)

	require.NoError(t, repo.SetField(u.ID, users.FieldRole, "pasante"))
	list, _, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, users.RolePasante, list[0].Role)

	require.NoError(t, repo.Delete(u.ID))
	require.Error(t, repo.Delete(u.ID))
}

func TestFakeUserRepo_Unavailable(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()
	boom := errors.New("boom")

	repo.SetUnavailable(boom)
	_, _, err := repo.List(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, repo.Upsert(ctx, &users.User{Username: "x"}), boom)

	repo.SetUnavailable(nil)
	_, _, err = repo.List(ctx)
	require.NoError(t, err)
}
