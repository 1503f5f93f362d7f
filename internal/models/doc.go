// Package models defines the domain entities shared by the web front-end, the terminal browser and the session store.
//
// 1. Data Transfer Objects: values derived per request and never persisted
//   - [PlaylistSummary] : playlist name and public URL
//
// 2. Session state: owned by the session store for the lifetime of one browser session
//   - [TokenSet] : OAuth access/refresh token pair with expiry and granted scope
//   - [Session] : one browser session and at most one cached [TokenSet]
//
// [Session] implements the [Model] interface; the [Repository] interface defines the CRUD contract the store satisfies.
package models
