package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Genres is a set of genre tags.  It is persisted as a JSON array so the
// same column works on both MySQL (JSON) and SQLite (TEXT).
type Genres []string

// NewGenres trims every tag, drops empty ones and removes duplicates while
// keeping the first occurrence.  The result is never nil.
func NewGenres(tags []string) Genres {
	out := make(Genres, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Value implements driver.Valuer.  A nil set is stored as an empty array.
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.  NULL scans into an empty set, which keeps
// rows written before the genres column existed readable.
func (g *Genres) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("genres: unsupported column type %T", src)
	}
	if len(raw) == 0 {
		*g = Genres{}
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("genres: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	*g = tags
	return nil
}
