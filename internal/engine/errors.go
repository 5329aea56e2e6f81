package engine

import "errors"

// ErrAborted is returned when the operator declines the confirmation prompt.
// No mutating call has been made when it is returned.
var ErrAborted = errors.New("aborted by operator")
