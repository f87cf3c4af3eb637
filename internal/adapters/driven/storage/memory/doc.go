// Package memory provides in-memory implementations of driven ports.
// They back unit tests and the sync --dry-run mode.
package memory
