package databaseutils

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdobak/go-xerrors"
)

type txKey struct {
}

// SQLExecutor defines the common methods implemented by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Session defines the contract for transaction management.
type Session interface {
	// BeginTx starts a new database transaction and returns a Session bound to it.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Session, error)

	// DoTransactionally runs fn inside a transaction carried by txCtx.
	// The transaction is committed if fn returns nil, otherwise it's rolled back.
	// When ctx already carries a transaction, fn joins it.
	DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error

	Rollback() error

	Commit() error

	// Context returns the context associated with this Session.
	Context() context.Context
}

type sqlSession struct {
	db  *sql.DB
	tx  *sql.Tx
	ctx context.Context
}

func NewSession(db *sql.DB) Session {
	return &sqlSession{
		db:  db,
		ctx: context.Background(),
	}
}

func (s *sqlSession) BeginTx(ctx context.Context, opts *sql.TxOptions) (Session, error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, xerrors.Newf("session: failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	return &sqlSession{
		db:  s.db,
		tx:  tx,
		ctx: txCtx,
	}, nil
}

func (s *sqlSession) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	session, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = session.Rollback()
			panic(p)
		}
		if err != nil {
			if rollbackErr := session.Rollback(); rollbackErr != nil {
				err = xerrors.Newf("session: rollback failed: %v (original error: %w)", rollbackErr, err)
			}
			return
		}
		if commitErr := session.Commit(); commitErr != nil {
			err = xerrors.Newf("session: failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(session.Context())
	return err
}

func (s *sqlSession) Rollback() error {
	if s.tx == nil {
		return fmt.Errorf("session: no active transaction to rollback")
	}
	return s.tx.Rollback()
}

func (s *sqlSession) Commit() error {
	if s.tx == nil {
		return fmt.Errorf("session: no active transaction to commit")
	}
	return s.tx.Commit()
}

func (s *sqlSession) Context() context.Context {
	return s.ctx
}

// GetSQLExecutor returns the transaction carried by ctx, or fallbackDB when there is none.
func GetSQLExecutor(ctx context.Context, fallbackDB *sql.DB) SQLExecutor {
	dbExecutor := ctx.Value(txKey{})

	if dbExecutor == nil {
		return fallbackDB
	}

	tx, ok := dbExecutor.(*sql.Tx)
	if !ok {
		panic(fmt.Sprintf("session: value in context for txKey is not a *sql.Tx, but %T", dbExecutor))
	}
	return tx
}

func DoTransactionally[T any](ctx context.Context, session Session, fn func(txCtx context.Context) (T, error)) (T, error) {
	var zero T
	var result T
	err := session.DoTransactionally(ctx, func(txCtx context.Context) error {
		r, err := fn(txCtx)
		result = r
		return err
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}
