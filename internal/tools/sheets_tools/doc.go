// Package sheets_tools registers MCP tools for working with Google Sheets.
//
// Data tools:
//   - sheets_create: create a new spreadsheet, optionally in a folder or shared drive
//   - sheets_read, sheets_get_metadata: read cell data and spreadsheet structure
//   - sheets_write, sheets_append, sheets_clear: change cell data in A1 ranges
//
// Tab tools:
//   - sheets_create_sheet_tab, sheets_delete_sheet_tab, sheets_rename_sheet_tab
//   - sheets_duplicate_sheet_tab, sheets_move_sheet_tab, sheets_hide_sheet_tab
//   - sheets_copy_to_spreadsheet: copy a tab into another spreadsheet
//
// Dimension tools:
//   - sheets_insert_rows, sheets_insert_columns, sheets_delete_rows, sheets_delete_columns
//   - sheets_resize_rows, sheets_resize_columns, sheets_auto_resize_columns
//   - sheets_hide_rows, sheets_hide_columns, sheets_freeze_rows_columns
//
// Format tools:
//   - sheets_format_cells, sheets_merge_cells, sheets_unmerge_cells
//   - sheets_add_borders, sheets_set_number_format, sheets_add_conditional_format
//   - sheets_add_note
//
// Edit tools:
//   - sheets_add_data_validation, sheets_copy_paste, sheets_find_replace
//   - sheets_sort_range, sheets_create_named_range, sheets_protect_range
//   - sheets_create_chart, sheets_create_filter
//
// Structural operations use zero-based indices and exclusive end bounds, the
// same convention the Sheets batchUpdate API uses. Data operations use A1
// notation ranges like "Sheet1!A1:C10".
//
// In read-only mode only sheets_read and sheets_get_metadata are registered.
package sheets_tools
