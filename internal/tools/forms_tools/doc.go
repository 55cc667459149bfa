// Package forms_tools registers MCP tools for working with Google Forms.
//
// Form tools:
//   - forms_create: create a new form with a title
//   - forms_get: questions, edit link and response link
//   - forms_update_settings: title, description and quiz mode via field masks
//   - forms_delete_question: delete a question by 0-based index
//
// Question tools, one per question kind, all inserting at the top of the
// form:
//   - forms_add_text_question, forms_add_paragraph_text
//   - forms_add_multiple_choice, forms_add_checkbox, forms_add_dropdown
//     (comma-separated options)
//   - forms_add_scale, forms_add_date, forms_add_time
//
// Response tools:
//   - forms_list_responses: every submission with its text answers
//   - forms_get_response: one submission by response ID
//
// In read-only mode only forms_get, forms_get_response and
// forms_list_responses are registered.
package forms_tools
