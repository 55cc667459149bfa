// Package chat provides a client for Google Chat spaces, messages,
// memberships and reactions.
//
// Everything is addressed by resource name: spaces/{space},
// spaces/{space}/messages/{message}, spaces/{space}/members/{member} and
// spaces/{space}/messages/{message}/reactions/{reaction}. List calls return
// the names alongside the display fields so callers can feed them back into
// the per-item operations.
//
// Space and message updates are patches with field masks; only the named
// fields change. Reactions are unicode emoji only.
package chat
