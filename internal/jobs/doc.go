// Package jobs implements background processing for the OpenHeritage API.
//
// Jobs run independently of HTTP request handling and follow a common
// Start/Stop lifecycle: Start spawns the worker goroutines, Stop signals
// them and waits for shutdown.
//
//   - LiveFeed: bridges document-store live queries into the snapshot hub,
//     so writes from any server instance reach every connected stream
//   - TokenCleanup: periodic removal of expired refresh tokens
package jobs
