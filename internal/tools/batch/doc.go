// Package batch holds the shared plumbing behind the *_batch tools: argument
// normalization for single-or-list ID parameters, sequential per-ID execution
// that isolates failures, and the JSON report format summarizing how many
// items succeeded and failed.
package batch
