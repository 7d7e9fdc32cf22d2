package credentials

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/common"
)

// searchColumns maps requested fields to column names, rejecting anything
// stored encrypted.
func searchColumns(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return []string{models.SearchFieldAccount}, nil
	}
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if !models.IsSearchableField(f) {
			return nil, fmt.Errorf("%w: %q", common.ErrFieldNotSearchable, f)
		}
		cols = append(cols, f)
	}
	return cols, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds the Postgres LIKE pattern: term lower-cased, with its
// own wildcards escaped by '\'.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// matches reports whether any of cols of c contains term, ignoring case.
func matches(c models.Credential, cols []string, term string) bool {
	folded := strings.ToLower(term)
	for _, col := range cols {
		var v string
		switch col {
		case models.SearchFieldAccount:
			v = c.Account
		}
		if strings.Contains(strings.ToLower(v), folded) {
			return true
		}
	}
	return false
}

func blobArg(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}
