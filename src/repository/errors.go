package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Driver-independent store errors. The in-memory store returns the same ones.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("unique constraint violated")
	ErrMissingReference = errors.New("referenced record does not exist")
	ErrInUse            = errors.New("record is still referenced")
	ErrInvalidValue     = errors.New("check constraint violated")
)

func translate(err error) error {
	return translateErr(err, ErrMissingReference)
}

func translateDelete(err error) error {
	return translateErr(err, ErrInUse)
}

func translateErr(err error, onForeignKey error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w (%s)", ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w (%s)", onForeignKey, pgErr.ConstraintName)
		case pgerrcode.CheckViolation, pgerrcode.NumericValueOutOfRange:
			return fmt.Errorf("%w (%s)", ErrInvalidValue, pgErr.ConstraintName)
		}
	}

	return err
}
