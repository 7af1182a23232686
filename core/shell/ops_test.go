package shell

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cristivlas/shmy-sub000/core/value"
)

func TestApply(t *testing.T) {
	failed := value.Failure("cp", errors.New("Missing source and destination"))

	cases := map[string]struct {
		op       Op
		lhs, rhs value.Value
		want     value.Value
		wantErr  string
	}{
		"add ints":          {op: OpPlus, lhs: value.Int(2), rhs: value.Int(2), want: value.Int(4)},
		"add reals":         {op: OpPlus, lhs: value.Int(1), rhs: value.Real(0.5), want: value.Real(1.5)},
		"concat":            {op: OpPlus, lhs: value.Str("hello"), rhs: value.Int(0), want: value.Str("hello0")},
		"add status":        {op: OpPlus, lhs: value.Int(1), rhs: failed, wantErr: "Cannot add number and command status"},
		"subtract":          {op: OpMinus, lhs: value.Int(1), rhs: value.Int(4), want: value.Int(-3)},
		"subtract string":   {op: OpMinus, lhs: value.Int(1), rhs: value.Str("a"), wantErr: "Cannot subtract string from number"},
		"subtract number":   {op: OpMinus, lhs: value.Str("a"), rhs: value.Int(1), wantErr: "Cannot subtract number from string"},
		"subtract strings":  {op: OpMinus, lhs: value.Str("a"), rhs: value.Str("b"), wantErr: "Cannot subtract strings"},
		"add overflow":      {op: OpPlus, lhs: value.Int(math.MaxInt64), rhs: value.Int(1), want: value.Int(math.MinInt64)},
		"multiply":          {op: OpMul, lhs: value.Int(2), rhs: value.Int(3), want: value.Int(6)},
		"multiply strings":  {op: OpMul, lhs: value.Str("x"), rhs: value.Str("y"), wantErr: "Cannot multiply strings"},
		"multiply by str":   {op: OpMul, lhs: value.Int(2), rhs: value.Str("y"), wantErr: "Cannot multiply number by string"},
		"multiply str":      {op: OpMul, lhs: value.Str("y"), rhs: value.Int(2), wantErr: "Cannot multiply string by number"},
		"divide":            {op: OpDiv, lhs: value.Int(7), rhs: value.Int(2), want: value.Real(3.5)},
		"divide by zero":    {op: OpDiv, lhs: value.Int(7), rhs: value.Int(0), wantErr: "Division by zero"},
		"join paths":        {op: OpDiv, lhs: value.Str("/usr"), rhs: value.Str("bin"), want: value.Str("/usr/bin")},
		"join root":         {op: OpDiv, lhs: value.Str("/"), rhs: value.Str("tmp"), want: value.Str("/tmp")},
		"int divide":        {op: OpIntDiv, lhs: value.Int(7), rhs: value.Int(2), want: value.Int(3)},
		"int divide floors": {op: OpIntDiv, lhs: value.Int(-7), rhs: value.Int(2), want: value.Int(-4)},
		"int divide reals":  {op: OpIntDiv, lhs: value.Real(7.5), rhs: value.Int(2), want: value.Real(3)},
		"int divide string": {op: OpIntDiv, lhs: value.Str("a"), rhs: value.Int(2), wantErr: "Cannot divide string by number"},
		"modulo":            {op: OpMod, lhs: value.Int(7), rhs: value.Int(3), want: value.Int(1)},
		"modulo reals":      {op: OpMod, lhs: value.Real(7.5), rhs: value.Int(2), want: value.Real(1.5)},
		"modulo zero":       {op: OpMod, lhs: value.Int(7), rhs: value.Int(0), wantErr: "Division by zero"},
		"equals":            {op: OpEquals, lhs: value.Int(42), rhs: value.Real(42), want: value.Int(1)},
		"not equals":        {op: OpNotEquals, lhs: value.Int(42), rhs: value.Int(13), want: value.Int(1)},
		"greater":           {op: OpGt, lhs: value.Int(42), rhs: value.Int(42), want: value.Int(0)},
		"greater or equal":  {op: OpGte, lhs: value.Int(42), rhs: value.Int(42), want: value.Int(1)},
		"less strings":      {op: OpLt, lhs: value.Str("abc"), rhs: value.Str("abd"), want: value.Int(1)},
		"less or equal":     {op: OpLte, lhs: value.Real(2.5), rhs: value.Int(2), want: value.Int(0)},
		"compare mixed":     {op: OpEquals, lhs: value.Int(1), rhs: value.Str("a"), wantErr: "Cannot compare number to string"},
		"compare mixed rev": {op: OpEquals, lhs: value.Str("a"), rhs: value.Int(1), wantErr: "Cannot compare string to number"},
		"compare status":    {op: OpEquals, lhs: value.Success(), rhs: value.Int(1), wantErr: "Cannot compare command status and number"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := apply(tc.op, tc.lhs, tc.rhs)

			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
