package logger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand        RunCommandReport        `json:"run_command_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
	Jobs              JobReport               `json:"job_report"`
	EvalErrors        EvalErrorReport         `json:"eval_error_report"`
	Hooks             HookReport              `json:"hook_report"`
	Interrupts        int                     `json:"interrupts"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.Event.(type) {
	case *RunCommand:
		r.RunCommand.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *InvalidInvocation:
		r.InvalidInvocation.update(event)
	case *JobExit:
		r.Jobs.update(event)
	case *EvalError:
		r.EvalErrors.update(event)
	case *HookRun:
		r.Hooks.update(event)
	case *Interrupted:
		r.Interrupts++
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type RunCommandReport struct {
	// Names of commands that were run.
	CommandNames StrCounter `json:"command_names"`
	// Paths external commands resolved to.
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	Builtins             int        `json:"builtins"`
	External             int        `json:"external"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.Builtin {
		r.Builtins++
	} else {
		r.External++
		r.ResolvedCommandPaths.Increment(rc.ResolvedPath)
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(logEntry *UnknownCommand) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}
}

type InvalidInvocationReport struct {
	CommandNames StrCounter `json:"command_counts"`
}

func (r *InvalidInvocationReport) update(logEntry *InvalidInvocation) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}
}

type JobReport struct {
	Count     int        `json:"count"`
	States    StrCounter `json:"states"`
	ExitCodes StrCounter `json:"exit_codes"`
	// Total run time of all jobs in microseconds.
	DurationMicros int64 `json:"duration_micros"`
}

func (r *JobReport) update(je *JobExit) {
	r.Count++
	r.States.Increment(je.State)
	r.ExitCodes.Increment(fmt.Sprintf("%d", je.Code))
	r.DurationMicros += je.DurationMicros
}

type EvalErrorReport struct {
	Kinds StrCounter `json:"kinds"`
}

func (r *EvalErrorReport) update(ee *EvalError) {
	r.Kinds.Increment(ee.Kind)
}

type HookReport struct {
	Runs *PathCounter `json:"runs"`
}

func (r *HookReport) update(hr *HookRun) {
	if r.Runs == nil {
		r.Runs = NewPathCounter("event", "action", "error")
	}
	r.Runs.Increment(hr.Event, hr.Action, hr.Error)
}

// SessionReport lists the commands run in each session.
type SessionReport struct {
	// Map of sessionID -> commands
	sessions map[string][]string
}

func (s *SessionReport) Update(le *LogEntry) {
	if le.SessionID == "" {
		return
	}
	if s.sessions == nil {
		s.sessions = make(map[string][]string)
	}

	switch event := le.Event.(type) {
	case *RunCommand:
		s.sessions[le.SessionID] = append(s.sessions[le.SessionID], strings.Join(event.Command, " "))
	case *UnknownCommand:
		s.sessions[le.SessionID] = append(s.sessions[le.SessionID], strings.Join(event.Command, " "))
	}
}

// MarshalJSON implements a custom JSON marshaler.
func (s *SessionReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.sessions)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for a key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
