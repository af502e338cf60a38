package repository

import "strings"

// NameMatch is one row of a name search.
type NameMatch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// likeEscaper escapes the LIKE wildcards with '!', matching the
// ESCAPE '!' clause in nameSearchCond.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

const nameSearchCond = "LOWER(name) LIKE ? ESCAPE '!'"

// containsPattern turns a user term into a case-insensitive substring
// pattern. The term's own % and _ match literally; an empty term matches
// every row.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
