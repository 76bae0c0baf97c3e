package repository

import (
	"errors"

	"github.com/lib/pq"
)

const (
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// malformedID reports whether Postgres rejected an id that is not a UUID.
// Such an id cannot match any row, so callers treat it like sql.ErrNoRows.
func malformedID(err error) bool {
	return hasPQCode(err, invalidTextRepresentation)
}
