// Package session holds the current authentication token.
//
// A Store caches the token in memory and persists it through a Backend so
// that it survives a restart of the CLI. Every write advances the store's
// epoch; writers that captured an older epoch use SetIfEpoch or ClearIfEpoch
// so that a slow response can neither resurrect a cleared session nor wipe a
// newer one.
package session
