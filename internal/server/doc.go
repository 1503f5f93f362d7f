// Package server provides HTTP routing, middleware, and handlers for the web and terminal front-ends.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Web Front-End
//
// [New] assembles the web front-end:
//   - GET / redirects to the consent page, or to /get_playlists when a usable token is cached
//   - GET /callback exchanges the code and caches the token set in the session
//   - GET /get_playlists renders "<name>: <url>" lines as text/plain
//   - GET /logout drops the token set and the session cookie
//   - GET /healthz answers "ok"
//
// [PlaylistHandler] refreshes an expired token before validating it. A token the API rejects is cleared and
// the user is sent back to the consent page. Other API failures render a 502 page.
//
// # Sessions
//
// [SessionMiddleware] resolves the session cookie through [CookieCodec] and loads the session from a
// [SessionStore]. The cookie is an HS256 JWT naming the session ID, signed with a key generated at startup.
//
// # OAuth Callback Handler
//
// [OAuthHandler] serves the one-shot callback of the terminal front-end.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
