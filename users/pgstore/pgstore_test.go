package pgstore_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jrsteele09/go-obras-server/users"
	"github.com/jrsteele09/go-obras-server/users/pgstore"
	"github.com/stretchr/testify/require"
)

const (
	listPattern   = `(?s)^SELECT\s+id,\s*doc\s+FROM\s+user_documents\s+ORDER\s+BY\s+id$`
	upsertPattern = `(?s)^INSERT\s+INTO\s+user_documents\s*\(id,\s*doc\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT.*$`
)

func newRepoWithMock(t *testing.T) (*pgstore.Repo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return pgstore.New(db), mock, db
}

func TestList_DecodesDocuments(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("a", []byte(`{"username":"ana","password":"p1","role":"admin"}`)).
		AddRow("b", []byte(`{"username":"bob","password":"p2","role":"jefe","name":"Bob","obra":"norte"}`)).
		AddRow("c", []byte(`{"username":"sinrol","password":"p3"}`)).
		AddRow("d", []byte(`not json`))
	mock.ExpectQuery(listPattern).WillReturnRows(rows)

	list, decodeErrs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "ana", list[0].DisplayName)
	require.Equal(t, users.RoleJefe, list[1].Role)
	require.Equal(t, "norte", list[1].AssignedSite)
	require.Len(t, decodeErrs, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listPattern).WillReturnError(errors.New("connection refused"))

	_, _, err := repo.List(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertPattern).
		WithArgs("doc-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &users.User{ID: "doc-1", Username: "ana", PasswordSecret: "h", Role: users.RoleAdmin}
	require.NoError(t, repo.Upsert(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_AssignsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertPattern).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &users.User{Username: "ana", PasswordSecret: "h", Role: users.RoleAdmin}
	require.NoError(t, repo.Upsert(context.Background(), u))
	require.NotEmpty(t, u.ID)
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := pgstore.Open(context.Background(), "")
	require.Error(t, err)
}
