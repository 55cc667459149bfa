// Package slides_tools registers MCP tools for working with Google Slides.
//
// Presentation tools:
//   - slides_create: create a new presentation, optionally in a folder or shared drive
//   - slides_get_details: slide count, slide IDs and text element counts
//   - slides_read: all text content, walked slide by slide
//
// Slide tools:
//   - slides_add_slide, slides_delete_slide, slides_duplicate_slide
//   - slides_add_speaker_notes: replace the notes on a slide's notes page
//
// Content tools:
//   - slides_add_text, slides_insert_image, slides_add_shape: place elements
//     with point coordinates (1 inch = 72 points)
//   - slides_replace_text: find and replace across the whole deck
//   - slides_format_text: character formatting for an index range in a shape
//
// Slides and page elements are addressed by object ID; slides_get_details
// lists the slide IDs and the element tools return the IDs they create.
//
// In read-only mode only slides_get_details and slides_read are registered.
package slides_tools
