package dependency

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type port int

func TestConvertValue(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		target   reflect.Type
		expected any
	}{
		{"Numeric string to int", "42", TypeOf[int](), 42},
		{"Float string to int truncates", "3.7", TypeOf[int](), 3},
		{"Float to int truncates", -2.5, TypeOf[int64](), int64(-2)},
		{"Int to named int", 8080, TypeOf[port](), port(8080)},
		{"Int to float", 3, TypeOf[float64](), 3.0},
		{"Large int stays exact", int64(math.MaxInt64), TypeOf[int64](), int64(math.MaxInt64)},
		{"Int to bool", 1, TypeOf[bool](), true},
		{"Zero string to bool", "0", TypeOf[bool](), false},
		{"Empty string to bool", "", TypeOf[bool](), false},
		{"Word to bool", "no", TypeOf[bool](), true},
		{"False string to bool", "false", TypeOf[bool](), false},
		{"Bool to string", true, TypeOf[string](), "1"},
		{"False to string", false, TypeOf[string](), ""},
		{"Float to string", 3.5, TypeOf[string](), "3.5"},
		{"Int to named string", 12, TypeOf[namedString](), namedString("12")},
		{"Slice elements", []any{"1", 2}, TypeOf[[]int](), []int{1, 2}},
		{"Map values", map[string]any{"a": 1}, TypeOf[map[string]string](), map[string]string{"a": "1"}},
		{"Nil to pointer", nil, TypeOf[*Mailer](), (*Mailer)(nil)},
		{"Nil to int", nil, TypeOf[int](), 0},
		{"Assignable", &fixedClock{at: "noon"}, TypeOf[Clock](), &fixedClock{at: "noon"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			converted, err := convertValue(tc.value, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, converted.Interface())
		})
	}
}

func TestConvertValueFailures(t *testing.T) {
	testCases := []struct {
		name   string
		value  any
		target reflect.Type
	}{
		{"Word to int", "abc", TypeOf[int]()},
		{"Overflowing int8", 300, TypeOf[int8]()},
		{"Negative to uint", -1, TypeOf[uint]()},
		{"Huge uint to int", uint64(math.MaxUint64), TypeOf[int]()},
		{"Infinite float to int", math.Inf(1), TypeOf[int]()},
		{"Struct to string", Counter{}, TypeOf[string]()},
		{"Bad slice element", []any{"x"}, TypeOf[[]int]()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := convertValue(tc.value, tc.target)
			assert.Error(t, err)
		})
	}
}
