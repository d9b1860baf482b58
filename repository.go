package bizgen

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/akeil/bizgen/internal/logging"
)

// Repository is the interface for the document storage backend.
//
// Documents are always addressed by kind and id, the backend keeps
// separate collections per kind.
type Repository interface {
	// List returns all documents of the given kind owned by a user.
	List(kind Kind, userID int) ([]*Document, error)
	// Fetch retrieves a single document.
	Fetch(kind Kind, id int) (*Document, error)
	// Update saves the content and header fields of a document.
	Update(d *Document) error
	// Delete removes a document.
	Delete(kind Kind, id int) error
}

// ListAll collects the documents of all kinds for a user.
//
// The kinds are requested concurrently. The result is ordered by
// creation date, newest first.
func ListAll(repo Repository, userID int) ([]*Document, error) {
	var (
		mx   sync.Mutex
		docs []*Document
	)

	var g errgroup.Group
	for _, kind := range Kinds() {
		k := kind
		g.Go(func() error {
			items, err := repo.List(k, userID)
			if err != nil {
				logging.Warning("Failed to list %v documents: %v", k, err)
				return Wrap(err, "list %v", k)
			}
			mx.Lock()
			docs = append(docs, items...)
			mx.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Created.Equal(docs[j].Created) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].Created.After(docs[j].Created)
	})

	return docs, nil
}

// SetContent fetches a document, replaces its content and saves it.
func SetContent(repo Repository, kind Kind, id int, content string) (*Document, error) {
	d, err := repo.Fetch(kind, id)
	if err != nil {
		return nil, err
	}
	d.Content = content

	err = repo.Update(d)
	if err != nil {
		return nil, err
	}

	return d, nil
}
