package dbx

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/common"
)

// ExpectAffected checks that a write touched at least one row and maps
// "nothing matched" to common.ErrorNotFound.
func ExpectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Nullable turns an optional value into a query argument: nil becomes
// SQL NULL, anything else is passed through dereferenced.
func Nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
