package badger

import "github.com/poiesic/marketscout/storage"

// NewMemoryRepositories creates in-memory trend and document repositories for testing.
// Caller must close the backend when done.
func NewMemoryRepositories() (storage.TrendRepository, storage.DocumentRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	return NewTrendRepository(backend), NewDocumentRepository(backend), backend, nil
}
