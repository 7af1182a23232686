package logger

// LogType is implemented by every event that can be recorded.
type LogType interface {
	// EventName is the key the event is stored under in a log entry.
	EventName() string
}

// LogEntry is a single line of the event log.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	Event           LogType
}

// RunCommand is recorded for every command the evaluator dispatches.
type RunCommand struct {
	Command      []string `json:"command"`
	ResolvedPath string   `json:"resolved_path,omitempty"`
	Builtin      bool     `json:"builtin"`
}

func (*RunCommand) EventName() string { return "run_command" }

// UnknownCommand is recorded when a command name can't be resolved.
type UnknownCommand struct {
	Command []string `json:"command"`
}

func (*UnknownCommand) EventName() string { return "unknown_command" }

// InvalidInvocation is recorded when a command rejects its arguments.
type InvalidInvocation struct {
	Command []string `json:"command"`
	Error   string   `json:"error"`
}

func (*InvalidInvocation) EventName() string { return "invalid_invocation" }

// JobExit is recorded when an external program finishes.
type JobExit struct {
	Path           string   `json:"path"`
	Args           []string `json:"args,omitempty"`
	State          string   `json:"state"`
	Code           int      `json:"code"`
	DurationMicros int64    `json:"duration_micros"`
	Error          string   `json:"error,omitempty"`
}

func (*JobExit) EventName() string { return "job_exit" }

// Interrupted is recorded when Ctrl-C cancels an evaluation.
type Interrupted struct {
	Input string `json:"input"`
}

func (*Interrupted) EventName() string { return "interrupted" }

// EvalError is recorded when an input line fails to lex, parse or evaluate.
type EvalError struct {
	Input string `json:"input"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
}

func (*EvalError) EventName() string { return "eval_error" }

// HookRun is recorded every time a hook script runs.
type HookRun struct {
	Event  string `json:"event"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

func (*HookRun) EventName() string { return "hook_run" }

var eventTypes = map[string]func() LogType{
	(*RunCommand)(nil).EventName():        func() LogType { return &RunCommand{} },
	(*UnknownCommand)(nil).EventName():    func() LogType { return &UnknownCommand{} },
	(*InvalidInvocation)(nil).EventName(): func() LogType { return &InvalidInvocation{} },
	(*JobExit)(nil).EventName():           func() LogType { return &JobExit{} },
	(*Interrupted)(nil).EventName():       func() LogType { return &Interrupted{} },
	(*EvalError)(nil).EventName():         func() LogType { return &EvalError{} },
	(*HookRun)(nil).EventName():           func() LogType { return &HookRun{} },
}
