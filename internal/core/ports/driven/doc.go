// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - StreamSource: Opens streaming search connections to the server
//   - HistoryStore: Recent-search persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RepoMetadataSource: Enriches repository results with code-host
//     metadata. Without it, results render with whatever the stream carried.
//   - ConfigWatcher: Live config reload. Without it, changes apply on restart.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
