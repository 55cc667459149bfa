// Package gmail provides a client for interacting with the Gmail API.
//
// This package offers comprehensive Gmail functionality including:
//   - Message search, reading and label management
//   - Email composition (send, reply, forward, attachments)
//   - Thread and draft management
//   - Gmail filter management
//   - Unsubscribe link detection
//   - Google Docs link extraction from emails
//
// The client supports multi-account authentication using the Google OAuth2
// flow and can manage emails across multiple Google accounts. Outgoing
// messages are assembled as RFC 2822 text with RFC 2047 subject encoding and
// handed to the API base64url encoded.
//
// Authentication:
// This package uses the unified Google OAuth token from the google package.
// For the HTTP transport: OAuth is handled by the MCP middleware.
// For the STDIO transport: tokens are loaded from the credential directory
// (~/.google_workspace_mcp/credentials).
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Search for messages
//	messages, err := client.SearchMessages(ctx, "in:inbox is:unread", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Send an email
//	sent, err := client.Send(ctx, &gmail.OutgoingMessage{
//	    To:      "recipient@example.com",
//	    Subject: "Hello",
//	    Body:    "This is a test email",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
