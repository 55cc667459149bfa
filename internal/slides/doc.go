// Package slides provides a client for reading and editing Google Slides.
//
// Reading fetches whole presentations and walks their page elements to pull
// shape text. Editing is built on batchUpdate requests: slide creation,
// deletion and duplication, text boxes, images and shapes placed with
// point coordinates, find and replace across the deck, character formatting
// and speaker notes. Presentation creation goes through the Drive API so
// new decks can be placed in folders and on shared drives.
//
// Example usage:
//
//	client, err := slides.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	presentation, err := client.GetPresentation(ctx, "1ABC123xyz")
package slides
