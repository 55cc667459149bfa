package docs

// CreatedDocument describes a newly created Google Doc
type CreatedDocument struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
}

// TextFormat carries the character formatting to apply to a text range.
// Nil pointer fields are left unchanged; FontSize 0 leaves the size unchanged.
type TextFormat struct {
	Bold      *bool
	Italic    *bool
	Underline *bool
	FontSize  int64 // points
}
