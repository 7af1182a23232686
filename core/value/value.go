// Package value holds the tagged values produced by evaluating expressions.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindInt Kind = iota
	KindReal
	KindStr
	KindStat
)

// String returns the name used for the kind in error messages.
func (k Kind) String() string {
	switch k {
	case KindInt, KindReal:
		return "number"
	case KindStr:
		return "string"
	case KindStat:
		return "command status"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the result of evaluating an expression and the unit of variable
// storage. The zero Value is Int(0).
type Value struct {
	kind Kind
	i    int64
	r    float64
	s    string
	stat *Status
}

// Int creates an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Real creates a floating point value.
func Real(r float64) Value {
	return Value{kind: KindReal, r: r}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{kind: KindStr, s: s}
}

// Bool converts a truth value to Int(1) or Int(0).
func Bool(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Success creates a command status for a command that succeeded.
func Success() Value {
	return Value{kind: KindStat, stat: &Status{}}
}

// Failure creates a command status for cmdline that failed with err.
func Failure(cmdline string, err error) Value {
	return Value{kind: KindStat, stat: &Status{Cmd: cmdline, Err: err}}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumber reports whether v is an Int or a Real.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindReal
}

// IsStat reports whether v is a command status.
func (v Value) IsStat() bool {
	return v.kind == KindStat
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns v as a float if it is a number.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindReal:
		return v.r, true
	}
	return 0, false
}

// Status returns the command status held by v, nil for other kinds.
func (v Value) Status() *Status {
	if v.kind != KindStat {
		return nil
	}
	return v.stat
}

// Failed reports whether v is the status of a failed command.
func (v Value) Failed() bool {
	return v.kind == KindStat && v.stat.Failed()
}

// Truthy reports whether v counts as true in a condition.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindReal:
		return v.r != 0
	case KindStr:
		return v.s != ""
	default:
		return !v.stat.Failed()
	}
}

// String renders v the way it is passed to commands and printed.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.r, 'f', -1, 64)
	case KindStr:
		return v.s
	default:
		if v.stat.Failed() {
			return v.stat.Err.Error()
		}
		return ""
	}
}

// GoString makes test failures readable.
func (v Value) GoString() string {
	switch v.kind {
	case KindInt:
		return fmt.Sprintf("Int(%d)", v.i)
	case KindReal:
		return fmt.Sprintf("Real(%v)", v.r)
	case KindStr:
		return fmt.Sprintf("Str(%q)", v.s)
	default:
		if v.stat.Failed() {
			return fmt.Sprintf("Stat(%q: %v)", v.stat.Cmd, v.stat.Err)
		}
		return "Stat(ok)"
	}
}

// Parse sniffs s as an integer, then a float, and falls back to a string.
func Parse(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if r, err := strconv.ParseFloat(s, 64); err == nil {
		return Real(r)
	}
	return Str(s)
}

// IsNumeric reports whether Parse would produce a number from s.
func IsNumeric(s string) bool {
	return Parse(s).IsNumber()
}
