// Package services wraps the two Spotify surfaces the front-ends talk to.
//
// # OAuth Coordinator
//
// [Coordinator] drives the authorization-code flow on top of [oauth2.Config]:
//   - [Coordinator.BuildAuthorizationURL] renders the consent URL. It carries no state and forces the consent
//     dialog, so the same configuration always yields the same URL.
//   - [Coordinator.ExchangeCode] trades the callback code for a [models.TokenSet].
//   - [Coordinator.Validate] checks a cached token without touching the network.
//   - [Coordinator.RefreshIfNeeded] is the only place a refresh grant is issued. Callers run it before Validate.
//
// # Playlist Client
//
// [PlaylistClient] issues GET /v1/me/playlists through the zmb3 Spotify client. A client is built per call from
// a static token source, so an expired token surfaces as an error instead of an implicit refresh.
//
// # Error Handling
//
// Errors wrap the sentinels in the shared package:
//   - [shared.ErrConfig] : client credentials are not configured
//   - [shared.ErrAuthExchange] : the provider rejected the authorization code
//   - [shared.ErrAuth] : the access token was rejected, or could not be refreshed
//   - [shared.ErrUpstream] : any other API failure
//
// Nothing is retried.
package services
