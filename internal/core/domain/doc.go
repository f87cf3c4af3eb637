// Package domain defines the core business entities for boltsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Table: A registry entry describing one upstream endpoint
//   - SyncState / TableState: Persisted pagination progress
//   - RawRecord / Record: A record before and after normalisation
//   - TableSchema: The static column declaration for a destination table
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
