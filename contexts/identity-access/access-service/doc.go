// Package accessservice resolves caller identity from verified bearer tokens
// and decides whether a caller's platform roles permit an action against an
// organization, given the organization's access type.
package accessservice
