package users_test

import (
	"testing"

	apperrors "github.com/jrsteele09/go-obras-server/internal/errors"
	"github.com/jrsteele09/go-obras-server/users"
	"github.com/stretchr/testify/require"
)

func TestFromDocument(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		u, err := users.FromDocument("doc-1", map[string]any{
			"username": "ana",
			"password": "p1",
			"role":     "jefe",
			"name":     "Ana Pérez",
			"obra":     "obra-norte",
		})
		require.NoError(t, err)
		require.Equal(t, &users.User{
			ID:             "doc-1",
			Username:       "ana",
			DisplayName:    "Ana Pérez",
			PasswordSecret: "p1",
			Role:           users.RoleJefe,
			AssignedSite:   "obra-norte",
		}, u)
		require.False(t, u.HasGlobalScope())
	})

	t.Run("display name defaults to username", func(t *testing.T) {
		u, err := users.FromDocument("doc-2", map[string]any{
			"username": "bob",
			"password": "x",
			"role":     "admin",
		})
		require.NoError(t, err)
		require.Equal(t, "bob", u.DisplayName)
		require.Empty(t, u.AssignedSite)
		require.True(t, u.HasGlobalScope())
	})

	for _, field := range []string{"username", "password", "role"} {
		t.Run("missing "+field, func(t *testing.T) {
			doc := map[string]any{"username": "c", "password": "x", "role": "admin"}
			delete(doc, field)
			_, err := users.FromDocument("doc-3", doc)
			require.ErrorIs(t, err, apperrors.ErrInvalidUserRecord)
			require.Contains(t, err.Error(), field)
		})
	}

	t.Run("wrong type", func(t *testing.T) {
		_, err := users.FromDocument("doc-4", map[string]any{"username": 12, "password": "x", "role": "admin"})
		require.ErrorIs(t, err, apperrors.ErrInvalidUserRecord)
	})

	t.Run("blank username", func(t *testing.T) {
		_, err := users.FromDocument("doc-5", map[string]any{"username": "  ", "password": "x", "role": "admin"})
		require.ErrorIs(t, err, apperrors.ErrInvalidUserRecord)
	})
}

func TestToDocument_RoundTrip(t *testing.T) {
	in := users.User{ID: "d", Username: "ana", DisplayName: "Ana", PasswordSecret: "s", Role: users.RoleAdmin}
	out, err := users.FromDocument("d", in.ToDocument())
	require.NoError(t, err)
	require.Equal(t, in, *out)
	require.NotContains(t, in.ToDocument(), "obra")
}

func TestPasswordMode(t *testing.T) {
	hash, err := users.HashPassword("Secreto123")
	require.NoError(t, err)

	t.Run("bcrypt", func(t *testing.T) {
		m, err := users.ParsePasswordMode("")
		require.NoError(t, err)
		require.Equal(t, users.PasswordBcrypt, m)
		require.True(t, m.SecretMatches("Secreto123", hash))
		require.False(t, m.SecretMatches("secreto123", hash))
		require.False(t, m.SecretMatches("Secreto123", "Secreto123"))
	})

	t.Run("plaintext", func(t *testing.T) {
		m, err := users.ParsePasswordMode("PLAINTEXT")
		require.NoError(t, err)
		require.True(t, m.SecretMatches("p1", "p1"))
		require.False(t, m.SecretMatches("p1 ", "p1"))
		require.False(t, m.SecretMatches("Secreto123", hash))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := users.ParsePasswordMode("md5")
		require.Error(t, err)
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Obras2024"))
	require.Error(t, users.ValidatePasswordStrength("short1A"))
	require.Error(t, users.ValidatePasswordStrength("alllowercase1"))
	require.Error(t, users.ValidatePasswordStrength("ALLUPPERCASE1"))
	require.Error(t, users.ValidatePasswordStrength("NoNumbersHere"))
}

func TestRoleSections(t *testing.T) {
	require.Equal(t, users.AllSections, users.RoleAdmin.Sections())
	require.True(t, users.RoleJefe.Can(users.SectionObras))
	require.False(t, users.RoleJefe.Can(users.SectionUsuarios))
	require.True(t, users.RolePasante.Can(users.SectionInventario))
	require.False(t, users.RolePasante.Can(users.SectionDonaciones))

	unknown := users.RoleType("visitante")
	require.False(t, unknown.IsKnown())
	require.Empty(t, unknown.Sections())
	require.False(t, unknown.Can(users.SectionReportes))

	s, ok := users.ParseSection("reportes")
	require.True(t, ok)
	require.Equal(t, "Reportes de avance", s.Title())
	_, ok = users.ParseSection("nada")
	require.False(t, ok)
}

func TestRoleSections_ReturnsCopy(t *testing.T) {
	sections := users.RoleAdmin.Sections()
	sections[0] = "tampered"
	require.Equal(t, users.SectionObras, users.RoleAdmin.Sections()[0])
}
