package value

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleParse() {
	fmt.Printf("%#v\n", Parse("42"))
	fmt.Printf("%#v\n", Parse("-2.5"))
	fmt.Printf("%#v\n", Parse("hello"))

	// Output: Int(42)
	// Real(-2.5)
	// Str("hello")
}

func TestParse(t *testing.T) {
	cases := []struct {
		in       string
		expected Value
	}{
		{"0", Int(0)},
		{"-17", Int(-17)},
		{"9223372036854775807", Int(9223372036854775807)},
		{"3.0", Real(3)},
		{"1e3", Real(1000)},
		{"9223372036854775808", Real(9223372036854775808)},
		{"", Str("")},
		{"12abc", Str("12abc")},
		{"/usr/bin", Str("/usr/bin")},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parse(tc.in))
		})
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		val      Value
		expected string
	}{
		{Int(5), "5"},
		{Real(3), "3"},
		{Real(0.5), "0.5"},
		{Str("x y"), "x y"},
		{Success(), ""},
		{Failure("cp", errors.New("Missing destination")), "Missing destination"},
	}

	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.val.String())
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.True(t, Int(1).Truthy())
	assert.False(t, Int(0).Truthy())
	assert.False(t, Real(0).Truthy())
	assert.True(t, Str("0").Truthy())
	assert.False(t, Str("").Truthy())
	assert.True(t, Success().Truthy())
	assert.False(t, Failure("cp", errors.New("boom")).Truthy())
}

func TestStatusCheck(t *testing.T) {
	v := Failure("cp x", errors.New("Missing destination"))
	st := v.Status()

	assert.Equal(t, "cp x: Missing destination", st.Message())
	assert.True(t, st.Check(), "first check")
	assert.False(t, st.Check(), "second check")
	assert.True(t, st.Checked())

	assert.False(t, Success().Status().Check(), "success is never recorded")
	assert.Nil(t, Int(1).Status())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "number", KindInt.String())
	assert.Equal(t, "number", KindReal.String())
	assert.Equal(t, "string", KindStr.String())
	assert.Equal(t, "command status", KindStat.String())
}
