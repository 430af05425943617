// Package driving defines the interfaces that external actors use to call
// INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI, TUI, and MCP adapters depend on these interfaces; core services
// implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package, driven ports
package driving
