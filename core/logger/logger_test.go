package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLinesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	session := NewJsonLinesLogRecorder(buf).NewSession()

	require.Nil(t, session.Record(&RunCommand{Command: []string{"echo", "hi"}, Builtin: true}))
	require.Nil(t, session.Record(&JobExit{Path: "/bin/false", State: "completed", Code: 1, DurationMicros: 10}))
	require.Nil(t, session.Record(&EvalError{Input: "(", Kind: "parse error", Error: "Unbalanced parenthesis", Line: 1, Col: 1}))

	assert.Equal(t, 3, strings.Count(buf.String(), "\n"), "one entry per line")

	var entries []*LogEntry
	require.Nil(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 3)

	for _, le := range entries {
		assert.Equal(t, session.SessionID(), le.SessionID)
		assert.NotZero(t, le.TimestampMicros)
	}
	assert.Equal(t, &RunCommand{Command: []string{"echo", "hi"}, Builtin: true}, entries[0].Event)
	assert.Equal(t, &JobExit{Path: "/bin/false", State: "completed", Code: 1, DurationMicros: 10}, entries[1].Event)
	assert.Equal(t, "Unbalanced parenthesis", entries[2].Event.(*EvalError).Error)
}

func TestUnmarshalEntry_unknownEvent(t *testing.T) {
	le, err := UnmarshalEntry([]byte(`{"session_id": "1", "mystery": {}}`))

	require.Nil(t, err)
	assert.Nil(t, le.Event)
	assert.Equal(t, "1", le.SessionID)
}

func TestNilSessionLogger(t *testing.T) {
	var session *SessionLogger
	assert.Nil(t, session.Record(&Interrupted{}))
}

func TestReport(t *testing.T) {
	entries := []*LogEntry{
		{Event: &RunCommand{Command: []string{"echo"}, Builtin: true}},
		{Event: &RunCommand{Command: []string{"ls"}, ResolvedPath: "/bin/ls"}},
		{Event: &UnknownCommand{Command: []string{"nope"}}},
		{Event: &InvalidInvocation{Command: []string{"cp", "-x"}, Error: "Unknown flag: -x"}},
		{Event: &JobExit{Path: "/bin/ls", State: "completed", Code: 2}},
		{Event: &Interrupted{}},
		{Event: &HookRun{Event: "on_change_dir", Action: "x.my"}},
		{},
	}

	var report Report
	for _, le := range entries {
		report.Update(le)
	}

	assert.Equal(t, 8, report.LogEntries)
	assert.Equal(t, 1, report.RunCommand.Builtins)
	assert.Equal(t, 1, report.RunCommand.External)
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("nope"))
	assert.Equal(t, 1, report.InvalidInvocation.CommandNames.Get("cp"))
	assert.Equal(t, 1, report.Jobs.ExitCodes.Get("2"))
	assert.Equal(t, 1, report.Interrupts)
	assert.Equal(t, 1, report.InvalidEntries.Get("<nil>"))

	_, err := json.Marshal(report)
	assert.Nil(t, err)
}

func TestSessionReport(t *testing.T) {
	var report SessionReport
	report.Update(&LogEntry{SessionID: "a", Event: &RunCommand{Command: []string{"echo", "hi"}}})
	report.Update(&LogEntry{SessionID: "a", Event: &UnknownCommand{Command: []string{"nope"}}})
	report.Update(&LogEntry{Event: &RunCommand{Command: []string{"ignored"}}})

	out, err := json.Marshal(&report)
	require.Nil(t, err)
	assert.JSONEq(t, `{"a": ["echo hi", "nope"]}`, string(out))
}

func TestPathCounter(t *testing.T) {
	ctr := NewPathCounter("command", "error")
	ctr.Increment("cp", "a")
	ctr.Increment("cp", "a")
	ctr.Increment("mv", "b")

	out, err := json.Marshal(ctr)
	require.Nil(t, err)
	assert.JSONEq(t, `[
		{"count": 2, "event": {"command": "cp", "error": "a"}},
		{"count": 1, "event": {"command": "mv", "error": "b"}}
	]`, string(out))

	assert.Panics(t, func() { ctr.Increment("too", "many", "columns") })
}
