package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-jet/jet/v2/qrm"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/goserg/matchrating/internal/storage"
)

// executor is implemented by both *sql.DB and *sql.Tx.
type executor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var (
	_ storage.PlayerStorage     = (*Storage)(nil)
	_ storage.UserStorage       = (*Storage)(nil)
	_ storage.MatchStorage      = (*Storage)(nil)
	_ storage.RatingStorage     = (*Storage)(nil)
	_ storage.SubscriberStorage = (*Storage)(nil)
	_ storage.TxManager         = (*Storage)(nil)
)

func New(l *logrus.Logger, db *sql.DB) *Storage {
	return &Storage{
		db: db,
		log: l.WithFields(map[string]interface{}{
			"from": "storage",
		}),
	}
}

type txKey struct{}

func (s *Storage) conn(ctx context.Context) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return s.db
}

// WithinTx runs fn in a transaction. Nested calls reuse the outer transaction.
func (s *Storage) WithinTx(ctx context.Context, fn storage.TxFunc) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return mapError(err)
	}
	return mapError(tx.Commit())
}

// mapError translates driver errors into storage errors. Everything else passes through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, qrm.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return storage.ErrAlreadyExists
		case sqlite3.ErrConstraintForeignKey:
			return storage.ErrConflict
		case sqlite3.ErrConstraintCheck:
			return storage.ErrInvalidValue
		}
	}
	return err
}
