package ledger

import (
	"context"
	"time"

	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
)

// EntryFilter narrows FindEntries. Zero values mean "any".
type EntryFilter struct {
	UserID        int64
	ProjectID     int64
	Type          string
	SharedOnly    bool
	TransfersOnly bool
	Since         *time.Time // inclusive
	Until         *time.Time // exclusive
	// Limit keeps the newest N rows when positive.
	Limit int
}

// Store is the persistence the engine needs. Lookups return (nil, nil) when
// nothing matches; FindEntries orders by date descending.
type Store interface {
	GetProject(ctx context.Context, userID, id int64) (*projectDatamodel.Project, error)
	FindProjectByName(ctx context.Context, userID int64, name string) (*projectDatamodel.Project, error)
	ListProjects(ctx context.Context, userID int64, status string) ([]*projectDatamodel.Project, error)
	CreateEntry(ctx context.Context, entry *entryDatamodel.Entry) error
	DeleteEntry(ctx context.Context, id int64) error
	FindEntries(ctx context.Context, filter EntryFilter) ([]*entryDatamodel.Entry, error)
}

// Transactor is implemented by stores that can run several writes atomically.
// Multi-write operations use it when present and fall back to compensation otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
