package driving

import "github.com/stancil-services/boltsync/internal/core/domain"

// Catalogue exposes the static table registry and schema declaration.
type Catalogue interface {
	// Tables returns the table registry in sync order.
	Tables() domain.Registry

	// Schema returns the schema declaration, one entry per table.
	Schema() []domain.TableSchema
}
