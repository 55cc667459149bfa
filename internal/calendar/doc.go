// Package calendar wraps the Google Calendar API for event and schedule
// operations: listing, creating, updating, and deleting events, enumerating
// the user's calendars, and answering availability questions through
// free/busy queries and meeting slot search.
//
// Clients are bound to one Google account. Use NewClientForAccount (or
// NewClientForAccountWithProvider when the token source is the MCP OAuth
// store) to pick the account; NewClient binds the default account.
//
//	ctx := context.Background()
//	client, err := calendar.NewClientForAccount(ctx, "work")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListEvents(ctx, "primary", time.Now(), 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
