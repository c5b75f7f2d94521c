package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSql string

// Store is the postgres implementation of every store the services need.
type Store struct {
	db *pgxpool.Pool
}

// satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func New(ctx context.Context, connUrl string) (*Store, error) {
	db, err := pgxpool.New(ctx, connUrl)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// run a test query to make sure db is working
	var one uint
	if err := db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		db.Close()
		return nil, fmt.Errorf("connection test: %w", err)
	}
	if one != 1 {
		db.Close()
		return nil, fmt.Errorf("invalid connection test result: expected 1, got %d", one)
	}

	return &Store{db: db}, nil
}

func Init(connUrl string) *Store {
	logger := zap.L()

	store, err := New(context.Background(), connUrl)
	if err != nil {
		logger.Fatal("Failed to establish database connection", zap.Error(err))
	}

	logger.Info("Connection with database successfully established")
	return store
}

func (s *Store) Close() {
	s.db.Close()
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSql); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, rolled back unless fn returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func rowToStruct[T any](ctx context.Context, q querier, sql string, args ...any) (res T, err error) {
	rows, _ := q.Query(ctx, sql, args...)
	res, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	err = translate(err)
	return
}

func rowsToStruct[T any](ctx context.Context, q querier, sql string, args ...any) (res []T, err error) {
	rows, _ := q.Query(ctx, sql, args...)
	res, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
	err = translate(err)
	return
}

// lax variants leave fields without a matching column untouched
func rowToStructLax[T any](ctx context.Context, q querier, sql string, args ...any) (res T, err error) {
	rows, _ := q.Query(ctx, sql, args...)
	res, err = pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	err = translate(err)
	return
}

func rowsToStructLax[T any](ctx context.Context, q querier, sql string, args ...any) (res []T, err error) {
	rows, _ := q.Query(ctx, sql, args...)
	res, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	err = translate(err)
	return
}

// exec fails with ErrNotFound when no row was touched
func exec(ctx context.Context, q querier, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// execDelete is exec for DELETE statements, where a foreign key violation
// means the row is still referenced.
func execDelete(ctx context.Context, q querier, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return translateDelete(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func exists(ctx context.Context, q querier, sql string, args ...any) (found bool, err error) {
	err = q.QueryRow(ctx, sql, args...).Scan(&found)
	return
}
