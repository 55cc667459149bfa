package forms

// FormUpdates carries the settings changes UpdateSettings applies. Nil
// pointer fields are left unchanged, so a form's title can be changed
// without touching quiz mode and vice versa.
type FormUpdates struct {
	Title       *string
	Description *string
	QuizMode    *bool
}

// isEmpty reports whether no field is set
func (u FormUpdates) isEmpty() bool {
	return u.Title == nil && u.Description == nil && u.QuizMode == nil
}
