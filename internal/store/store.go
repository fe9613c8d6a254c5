// Package store is the persistence layer. It talks to Postgres through
// a pgx pool and returns plain structs; callers never see pgx rows.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables if they do not exist yet. Dev
// convenience; production deployments run migrations instead.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	display_name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	version INT NOT NULL,
	document JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (document_id, version)
);
`

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, password, display_name, created_at`,
		u.ID, u.Email, u.Password, u.DisplayName)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at
		 FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at
		 FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return User{}, mapErr(err)
	}
	return u, nil
}

type Doc struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Store) CreateDocument(ctx context.Context, id, name, ownerID string) (Doc, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO documents (id, name, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, owner_id, created_at, updated_at`,
		id, name, ownerID)
	return scanDoc(row)
}

func (s *Store) GetDocument(ctx context.Context, id string) (Doc, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at
		 FROM documents WHERE id = $1`, id)
	return scanDoc(row)
}

func (s *Store) ListDocumentsForUser(ctx context.Context, ownerID string) ([]Doc, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, owner_id, created_at, updated_at
		 FROM documents WHERE owner_id = $1
		 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var docs []Doc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) RenameDocument(ctx context.Context, id, name string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET name = $2, updated_at = now() WHERE id = $1`,
		id, name)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDoc(row pgx.Row) (Doc, error) {
	var d Doc
	err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Doc{}, mapErr(err)
	}
	return d, nil
}

type Snapshot struct {
	ID         string
	DocumentID string
	Version    int32
	Document   json.RawMessage
	CreatedAt  time.Time
}

// CreateSnapshot appends a new version for the document. The version is
// allocated inside the statement so concurrent writers cannot collide
// silently; a duplicate key error means the caller lost the race and
// should retry.
func (s *Store) CreateSnapshot(ctx context.Context, id, documentID string, doc json.RawMessage) (Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO snapshots (id, document_id, version, document)
		 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		 FROM snapshots WHERE document_id = $2
		 RETURNING id, document_id, version, document, created_at`,
		id, documentID, doc)
	snap, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, err
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE documents SET updated_at = now() WHERE id = $1`, documentID)
	if err != nil {
		return Snapshot{}, mapErr(err)
	}
	return snap, nil
}

func (s *Store) GetLatestSnapshot(ctx context.Context, documentID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, document_id, version, document, created_at
		 FROM snapshots WHERE document_id = $1
		 ORDER BY version DESC LIMIT 1`, documentID)
	return scanSnapshot(row)
}

func (s *Store) GetSnapshotVersion(ctx context.Context, documentID string, version int32) (Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, document_id, version, document, created_at
		 FROM snapshots WHERE document_id = $1 AND version = $2`,
		documentID, version)
	return scanSnapshot(row)
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.DocumentID, &snap.Version, &snap.Document, &snap.CreatedAt)
	if err != nil {
		return Snapshot{}, mapErr(err)
	}
	return snap, nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// IsDuplicateKey reports whether err is a Postgres unique violation.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
