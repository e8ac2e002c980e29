// Package pgstore keeps the users collection as JSONB documents in PostgreSQL,
// one row per document, so the same document layout works without Firestore.
package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jrsteele09/go-obras-server/users"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	listQuery   = `SELECT id, doc FROM user_documents ORDER BY id`
	upsertQuery = `INSERT INTO user_documents (id, doc) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
)

var _ users.Repo = (*Repo)(nil)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Open connects with the pgx driver and fails fast when the database is unreachable.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("[pgstore Open] database URL is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("[pgstore Open] sql.Open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[pgstore Open] ping: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("[pgstore Migrate] goose.SetDialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("[pgstore Migrate] goose.Up: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]*users.User, users.DecodeErrors, error) {
	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("[pgstore List] query: %w", err)
	}
	defer rows.Close()

	var (
		userList   []*users.User
		decodeErrs users.DecodeErrors
	)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, nil, fmt.Errorf("[pgstore List] scan: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			decodeErrs = append(decodeErrs, fmt.Errorf("document %q: %w", id, err))
			continue
		}
		u, err := users.FromDocument(id, doc)
		if err != nil {
			decodeErrs = append(decodeErrs, err)
			continue
		}
		userList = append(userList, u)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("[pgstore List] rows: %w", err)
	}
	return userList, decodeErrs, nil
}

func (r *Repo) Upsert(ctx context.Context, user *users.User) error {
	id := user.ID
	if id == "" {
		id = uuid.New().String()
	}
	doc, err := json.Marshal(user.ToDocument())
	if err != nil {
		return fmt.Errorf("[pgstore Upsert] marshal: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, upsertQuery, id, doc); err != nil {
		return fmt.Errorf("[pgstore Upsert] exec: %w", err)
	}
	user.ID = id
	return nil
}
