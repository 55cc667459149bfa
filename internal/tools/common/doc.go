// Package common carries the helpers every tool package depends on: resolving
// which Google account a request acts on, and the instrumented handler
// wrappers that time tool invocations and feed metrics and audit logging.
package common
