package value

// Status is the outcome of running a command.
type Status struct {
	// Cmd holds the command line that produced the status.
	Cmd string
	// Err is nil when the command succeeded.
	Err error

	checked bool
}

// Failed reports whether the command failed.
func (s *Status) Failed() bool {
	return s != nil && s.Err != nil
}

// Check marks a failed status as inspected by a condition and reports
// whether this is the first inspection.
func (s *Status) Check() bool {
	if !s.Failed() || s.checked {
		return false
	}
	s.checked = true
	return true
}

// Checked reports whether a condition already inspected the status.
func (s *Status) Checked() bool {
	return s.checked
}

// Message renders the failure as "cmdline: error".
func (s *Status) Message() string {
	if !s.Failed() {
		return ""
	}
	if s.Cmd == "" {
		return s.Err.Error()
	}
	return s.Cmd + ": " + s.Err.Error()
}
