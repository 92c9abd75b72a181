package ctypes

import "strconv"

// Value is a compile-time constant: IntValue, UintValue or StringValue.
type Value interface {
	implValue()
	String() string
}

// IntValue is a signed integer constant.
type IntValue int64

// UintValue is an unsigned integer constant.
type UintValue uint64

// StringValue is a string constant, stored unquoted.
type StringValue string

func (IntValue) implValue()    {}
func (UintValue) implValue()   {}
func (StringValue) implValue() {}

func (v IntValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v UintValue) String() string   { return strconv.FormatUint(uint64(v), 10) + "u" }
func (v StringValue) String() string { return strconv.Quote(string(v)) }

// AsInt64 returns v as an int64 if it is an integer constant.
func AsInt64(v Value) (int64, bool) {
	switch v := v.(type) {
	case IntValue:
		return int64(v), true
	case UintValue:
		return int64(v), true
	}
	return 0, false
}

// AsUint64 returns v as a uint64 if it is an integer constant.
func AsUint64(v Value) (uint64, bool) {
	switch v := v.(type) {
	case IntValue:
		return uint64(v), true
	case UintValue:
		return uint64(v), true
	}
	return 0, false
}
