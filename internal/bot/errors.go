package bot

// UserError is a failure caused by how the command was written. Its message
// is sent back to the author verbatim.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func userError(msg string) error {
	return &UserError{Message: msg}
}
