package shell

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cristivlas/shmy-sub000/core/value"
)

var errDivisionByZero = errors.New("Division by zero")

var opVerbs = map[Op]string{
	OpPlus:      "add",
	OpMinus:     "subtract",
	OpMul:       "multiply",
	OpDiv:       "divide",
	OpIntDiv:    "divide",
	OpMod:       "divide",
	OpEquals:    "compare",
	OpNotEquals: "compare",
	OpLt:        "compare",
	OpLte:       "compare",
	OpGt:        "compare",
	OpGte:       "compare",
}

// apply evaluates an arithmetic or comparison operator.
func apply(op Op, lhs, rhs value.Value) (value.Value, error) {
	verb, ok := opVerbs[op]
	if !ok {
		return value.Value{}, fmt.Errorf("Unexpected operator %s", op)
	}
	if lhs.IsStat() || rhs.IsStat() {
		return value.Value{}, fmt.Errorf("Cannot %s %s and %s", verb, lhs.Kind(), rhs.Kind())
	}

	switch op {
	case OpPlus:
		return add(lhs, rhs), nil
	case OpMinus:
		return subtract(lhs, rhs)
	case OpMul:
		return multiply(lhs, rhs)
	case OpDiv:
		return divide(lhs, rhs)
	case OpIntDiv:
		return intDivide(lhs, rhs)
	case OpMod:
		return modulo(lhs, rhs)
	default:
		return compare(op, lhs, rhs)
	}
}

func bothInts(lhs, rhs value.Value) (int64, int64, bool) {
	l, lok := lhs.AsInt()
	r, rok := rhs.AsInt()
	return l, r, lok && rok
}

func bothFloats(lhs, rhs value.Value) (float64, float64) {
	l, _ := lhs.AsFloat()
	r, _ := rhs.AsFloat()
	return l, r
}

// Concatenates when either side is a string.
func add(lhs, rhs value.Value) value.Value {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return value.Str(lhs.String() + rhs.String())
	}
	if l, r, ok := bothInts(lhs, rhs); ok {
		return value.Int(l + r)
	}
	l, r := bothFloats(lhs, rhs)
	return value.Real(l + r)
}

func subtract(lhs, rhs value.Value) (value.Value, error) {
	switch {
	case lhs.IsNumber() && !rhs.IsNumber():
		return value.Value{}, errors.New("Cannot subtract string from number")
	case !lhs.IsNumber() && rhs.IsNumber():
		return value.Value{}, errors.New("Cannot subtract number from string")
	case !lhs.IsNumber():
		return value.Value{}, errors.New("Cannot subtract strings")
	}
	if l, r, ok := bothInts(lhs, rhs); ok {
		return value.Int(l - r), nil
	}
	l, r := bothFloats(lhs, rhs)
	return value.Real(l - r), nil
}

func multiply(lhs, rhs value.Value) (value.Value, error) {
	switch {
	case lhs.IsNumber() && !rhs.IsNumber():
		return value.Value{}, errors.New("Cannot multiply number by string")
	case !lhs.IsNumber() && rhs.IsNumber():
		return value.Value{}, errors.New("Cannot multiply string by number")
	case !lhs.IsNumber():
		return value.Value{}, errors.New("Cannot multiply strings")
	}
	if l, r, ok := bothInts(lhs, rhs); ok {
		return value.Int(l * r), nil
	}
	l, r := bothFloats(lhs, rhs)
	return value.Real(l * r), nil
}

// Numbers divide to a Real, anything involving a string joins paths.
func divide(lhs, rhs value.Value) (value.Value, error) {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return value.Str(strings.TrimSuffix(lhs.String(), "/") + "/" + rhs.String()), nil
	}
	l, r := bothFloats(lhs, rhs)
	if r == 0 {
		return value.Value{}, errDivisionByZero
	}
	return value.Real(l / r), nil
}

func divisionOperands(lhs, rhs value.Value) error {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return fmt.Errorf("Cannot divide %s by %s", lhs.Kind(), rhs.Kind())
	}
	if r, _ := rhs.AsFloat(); r == 0 {
		return errDivisionByZero
	}
	return nil
}

func intDivide(lhs, rhs value.Value) (value.Value, error) {
	if err := divisionOperands(lhs, rhs); err != nil {
		return value.Value{}, err
	}
	if l, r, ok := bothInts(lhs, rhs); ok {
		q := l / r
		if (l%r != 0) && ((l < 0) != (r < 0)) {
			q--
		}
		return value.Int(q), nil
	}
	l, r := bothFloats(lhs, rhs)
	return value.Real(math.Floor(l / r)), nil
}

func modulo(lhs, rhs value.Value) (value.Value, error) {
	if err := divisionOperands(lhs, rhs); err != nil {
		return value.Value{}, err
	}
	if l, r, ok := bothInts(lhs, rhs); ok {
		return value.Int(l % r), nil
	}
	l, r := bothFloats(lhs, rhs)
	return value.Real(math.Mod(l, r)), nil
}

func compare(op Op, lhs, rhs value.Value) (value.Value, error) {
	var cmp int
	switch {
	case lhs.IsNumber() && rhs.IsNumber():
		if l, r, ok := bothInts(lhs, rhs); ok {
			cmp = compareInts(l, r)
		} else {
			l, r := bothFloats(lhs, rhs)
			cmp = compareFloats(l, r)
		}
	case lhs.IsNumber():
		return value.Value{}, errors.New("Cannot compare number to string")
	case rhs.IsNumber():
		return value.Value{}, errors.New("Cannot compare string to number")
	default:
		cmp = strings.Compare(lhs.String(), rhs.String())
	}

	switch op {
	case OpEquals:
		return value.Bool(cmp == 0), nil
	case OpNotEquals:
		return value.Bool(cmp != 0), nil
	case OpLt:
		return value.Bool(cmp < 0), nil
	case OpLte:
		return value.Bool(cmp <= 0), nil
	case OpGt:
		return value.Bool(cmp > 0), nil
	default:
		return value.Bool(cmp >= 0), nil
	}
}

func compareInts(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func compareFloats(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}
