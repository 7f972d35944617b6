package core

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/database"
)

var (
	ErrNotFound         = xerrors.Message("No record found")
	ErrForbidden        = xerrors.Message("Not authorized to modify this resource")
	ErrDuplicate        = xerrors.Message("Duplicate record")
	ErrCategoryNotEmpty = xerrors.Message("Category still has posts")
)

// DuplicateError is a unique constraint violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "record already exists"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// DependencyError is a failure of the store or another collaborator.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// storeError translates a raw driver error into the service taxonomy.
func storeError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return xerrors.New(ErrNotFound)
	}
	if column, ok := database.UniqueViolation(err); ok {
		return xerrors.New(&DuplicateError{Field: column})
	}
	return xerrors.New(&DependencyError{Op: op, Err: err})
}
