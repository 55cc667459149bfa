// Package docs provides a client for reading and editing Google Docs.
//
// Reading goes through the Docs API with tab content included, so both
// legacy single-body documents and multi-tab documents work; converters
// render a fetched document as plain text or Markdown. Editing is built on
// batchUpdate requests: text insertion and replacement, character and
// paragraph formatting, tables, inline images, page breaks and bookmarks.
// Document creation goes through the Drive API so new documents can be
// placed in folders and on shared drives.
//
// Example usage:
//
//	client, err := docs.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := client.GetDocument(ctx, "1ABC123xyz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := docs.DocumentToPlainText(doc)
package docs
