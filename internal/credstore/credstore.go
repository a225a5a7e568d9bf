// Package credstore persists the bearer credential between runs.
package credstore

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// TokenKey is the single storage key holding the bearer token.
	TokenKey = "token"

	// NoneSentinel is stored text that means "no credential".
	NoneSentinel = "null"

	// KindFile stores the token as token.json in the config directory.
	KindFile = "file"

	// KindSQLite stores the token in credentials.db in the config directory.
	KindSQLite = "sqlite"
)

// Store is durable storage for one opaque token.
// Load returns "" when no credential is stored.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Open returns the store of the given kind rooted at dir.
// An empty kind selects KindFile.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "", KindFile:
		return NewFileStore(filepath.Join(dir, "token.json")), nil
	case KindSQLite:
		return OpenSQLite(filepath.Join(dir, "credentials.db"))
	default:
		return nil, fmt.Errorf("unknown credential store: %s", kind)
	}
}

// normalize maps stored text to a token, treating the sentinel as absent.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == NoneSentinel {
		return ""
	}
	return s
}
