package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/authflow/internal/client/repositories"
	"github.com/dmitrijs2005/authflow/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authflow/internal/dbx"
)

// SavedAtKey records when the current token was stored.
const SavedAtKey = "saved_at"

// SQLiteBackend persists the token in the metadata table of a local SQLite
// database.
type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteBackend wraps an already migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db, now: time.Now}
}

// OpenSQLiteBackend opens and migrates the database at dsn.
// The caller owns the returned *sql.DB and must close it.
func OpenSQLiteBackend(ctx context.Context, dsn string) (*SQLiteBackend, *sql.DB, error) {
	db, err := repositories.InitDatabase(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return NewSQLiteBackend(db), db, nil
}

var _ Backend = (*SQLiteBackend)(nil)

func (b *SQLiteBackend) Load(ctx context.Context) (Token, bool, error) {
	v, ok, err := metadata.NewSQLiteRepository(b.db).Get(ctx, Key)
	if err != nil || !ok {
		return "", false, err
	}
	return Token(v), true, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, tok Token) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, Key, string(tok)); err != nil {
			return err
		}
		return repo.Set(ctx, SavedAtKey, b.now().UTC().Format(time.RFC3339))
	})
}

func (b *SQLiteBackend) Delete(ctx context.Context) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, Key); err != nil {
			return err
		}
		return repo.Delete(ctx, SavedAtKey)
	})
}
