package object

import (
	"fmt"
	"strconv"
)

// ValueType identifies the kind of data held in a Value.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeObject
	TypeError
)

// Value is the tagged cell used for instance state and method arguments.
type Value struct {
	Type      ValueType
	IntVal    int64
	FloatVal  float64
	StringVal string
	BoolVal   bool
	ObjectVal *Object
	ErrorMsg  string
}

// NilValue returns a nil value
func NilValue() Value {
	return Value{Type: TypeNil}
}

// IntValue creates an integer value
func IntValue(n int64) Value {
	return Value{Type: TypeInt, IntVal: n}
}

// FloatValue creates a float value
func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, FloatVal: f}
}

// StringValue creates a string value
func StringValue(s string) Value {
	return Value{Type: TypeString, StringVal: s}
}

// BoolValue creates a boolean value
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, BoolVal: b}
}

// ObjectValue creates a value referencing a live object
func ObjectValue(o *Object) Value {
	return Value{Type: TypeObject, ObjectVal: o}
}

// ErrorValue creates an error value
func ErrorValue(msg string) Value {
	return Value{Type: TypeError, ErrorMsg: msg}
}

// IsNil reports whether the value is nil
func (v Value) IsNil() bool {
	return v.Type == TypeNil
}

// IsError reports whether the value is an error
func (v Value) IsError() bool {
	return v.Type == TypeError
}

// AsInt converts the value to an integer
func (v Value) AsInt() int64 {
	switch v.Type {
	case TypeInt:
		return v.IntVal
	case TypeFloat:
		return int64(v.FloatVal)
	case TypeString:
		n, _ := strconv.ParseInt(v.StringVal, 10, 64)
		return n
	case TypeBool:
		if v.BoolVal {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// AsFloat converts the value to a float
func (v Value) AsFloat() float64 {
	switch v.Type {
	case TypeFloat:
		return v.FloatVal
	case TypeInt:
		return float64(v.IntVal)
	case TypeString:
		f, _ := strconv.ParseFloat(v.StringVal, 64)
		return f
	default:
		return 0
	}
}

// AsBool converts the value to a boolean
func (v Value) AsBool() bool {
	switch v.Type {
	case TypeBool:
		return v.BoolVal
	case TypeInt:
		return v.IntVal != 0
	case TypeString:
		return v.StringVal != "" && v.StringVal != "false"
	case TypeNil:
		return false
	default:
		return true
	}
}

// AsString converts the value to a string
func (v Value) AsString() string {
	switch v.Type {
	case TypeString:
		return v.StringVal
	case TypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.BoolVal)
	case TypeObject:
		if v.ObjectVal != nil {
			return fmt.Sprintf("<%s %p>", v.ObjectVal.TypeName(), v.ObjectVal)
		}
		return "<object nil>"
	case TypeError:
		return "error: " + v.ErrorMsg
	default:
		return "nil"
	}
}

// String implements fmt.Stringer
func (v Value) String() string {
	return v.AsString()
}
