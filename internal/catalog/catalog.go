package catalog

// ComponentIndex defines the interface for catalog operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type ComponentIndex interface {
	UpsertComponent(c ComponentRow, body string) error
	DeleteComponent(path string) error
	GetChecksum(path string) (string, error)
	GetComponent(name string) (*ComponentRow, error)
	ListComponents(limit, offset int, kind, sort string) ([]ComponentRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies ComponentIndex at compile time.
var _ ComponentIndex = (*DB)(nil)
