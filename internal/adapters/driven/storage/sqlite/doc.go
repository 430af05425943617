// Package sqlite provides SQLite-backed persistence for search history.
//
// The store lives in the sercha-stream data directory and is migrated on
// open from SQL files embedded in the migrations subpackage.
package sqlite
