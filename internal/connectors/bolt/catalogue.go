package bolt

import (
	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driving"
)

// Verify interface compliance.
var _ driving.Catalogue = Catalogue{}

// Catalogue exposes the Bolt table registry and schema declaration.
type Catalogue struct{}

// Tables returns the table registry in sync order.
func (Catalogue) Tables() domain.Registry {
	return Tables
}

// Schema returns the schema declaration, one entry per table.
func (Catalogue) Schema() []domain.TableSchema {
	return Schema()
}
