// Package tasks provides a client for Google Tasks.
//
// Operations target a task list, defaulting to the "@default" alias for the
// user's primary list. Completing a task fetches it first and updates the
// full resource with status "completed", so titles, notes and due dates
// survive the round trip.
//
// Due dates travel as RFC 3339 strings; the Tasks API only honors the date
// portion.
package tasks
