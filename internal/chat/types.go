package chat

// SpaceUpdates carries the optional fields of a space update. Nil fields are
// left untouched.
type SpaceUpdates struct {
	DisplayName *string
	Description *string
}

func (u SpaceUpdates) isEmpty() bool {
	return u.DisplayName == nil && u.Description == nil
}
