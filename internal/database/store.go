package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// Kind identifies which logical store a handle belongs to. Using a
// typed variant instead of a bare string makes an invalid store a
// compile-time error at call sites.
type Kind int

const (
	// KindQuiz is the imported-content store.
	KindQuiz Kind = iota
	// KindResults is the session/score store owned by the results
	// collaborator; this core only constructs the handle.
	KindResults
)

func (k Kind) String() string {
	switch k {
	case KindQuiz:
		return "quiz"
	case KindResults:
		return "results"
	default:
		return "unknown"
	}
}

// Store is an explicitly constructed database handle. Lifecycle is
// owned by the caller: open at process start, Close at shutdown.
// There is no package-level singleton.
type Store struct {
	Kind Kind
	DB   *sqlx.DB
}

// NewQuizStore opens the quiz content store at the given file path,
// creating the parent directory if needed.
func NewQuizStore(path string) (*Store, error) {
	return open(KindQuiz, path)
}

// NewResultsStore opens the results store at the given file path.
func NewResultsStore(path string) (*Store, error) {
	return open(KindResults, path)
}

func open(kind Kind, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s store: %w", kind, err)
	}

	// busy_timeout keeps concurrent readers from failing fast while
	// an import transaction holds the write lock.
	dsn := fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s store at %s: %w", kind, path, err)
	}

	return &Store{Kind: kind, DB: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.DB.Close()
}
