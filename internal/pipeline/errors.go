package pipeline

// ValidationError reports a malformed or incomplete request. It is raised
// before any collaborator is called.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
