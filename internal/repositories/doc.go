// Package repositories implements SQLite persistence for browser sessions.
//
// [SessionRepository] satisfies [models.Repository] for [models.Session] and adds token operations
// used by the route handlers: [SessionRepository.SaveToken] and [SessionRepository.ClearToken].
//
// The backing database is opened with [shared.NewSessionDatabase], an in-memory SQLite handle pinned
// to one connection, so cached tokens live only as long as the process.
//
// Expired sessions are filtered out of every read. They are deleted by [SessionRepository.PruneExpired],
// which runs inline whenever a session is created rather than on a timer.
package repositories
