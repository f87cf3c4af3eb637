// Package file loads the boltsync configuration.
//
// Settings come from a TOML file (default ~/.boltsync/config.toml) and are
// overridden by BOLT_* and BOLTSYNC_* environment variables. Durations in the
// file are written as Go duration strings such as "3.6s".
package file
