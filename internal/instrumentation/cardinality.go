package instrumentation

import "strings"

// ExtractUserDomain reduces an email address to its domain so metric labels
// and general logs never carry a per-user identifier. Anything that does
// not look like local@domain maps to "unknown". Unbounded label values
// inflate series counts in Prometheus, so every user-derived label in this
// package goes through this reduction.
func ExtractUserDomain(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "unknown"
	}
	domain := email[at+1:]
	if strings.ContainsRune(domain, '@') {
		return "unknown"
	}
	return domain
}
