package game

// UserError is a gameplay validation failure meant to be shown to the player
// who caused it. It never crashes the process and never affects other
// players' state.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}
