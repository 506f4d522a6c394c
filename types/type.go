// Package types defines the closed set of scalar data types the execution
// core moves through columns, plus their nullability and width metadata.
package types

import "fmt"

// DataType is a closed enumeration of scalar column types. Tags are fixed
// for wire compatibility with existing consumers of the configuration
// messages in package config.
type DataType int32

const (
	StringType   DataType = 0
	Int32Type    DataType = 1
	Int64Type    DataType = 2
	Uint64Type   DataType = 3
	DatetimeType DataType = 4
	DoubleType   DataType = 5
	BoolType     DataType = 6
	BinaryType   DataType = 7
	Uint32Type   DataType = 8
	FloatType    DataType = 9
	DateType     DataType = 10
	DataTypeType DataType = 11
	NullType     DataType = 12
	EnumType     DataType = 13
)

func (t DataType) String() string {
	switch t {
	case StringType:
		return "STRING"
	case Int32Type:
		return "INT32"
	case Int64Type:
		return "INT64"
	case Uint64Type:
		return "UINT64"
	case DatetimeType:
		return "DATETIME"
	case DoubleType:
		return "DOUBLE"
	case BoolType:
		return "BOOL"
	case BinaryType:
		return "BINARY"
	case Uint32Type:
		return "UINT32"
	case FloatType:
		return "FLOAT"
	case DateType:
		return "DATE"
	case DataTypeType:
		return "DATA_TYPE"
	case NullType:
		return "NULL_TYPE"
	case EnumType:
		return "ENUM"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE(%d)", int32(t))
	}
}

// IsVariableLength reports whether values of t are stored as (offset,
// length) pairs into a string arena rather than inline fixed-width values.
func (t DataType) IsVariableLength() bool {
	return t == StringType || t == BinaryType
}

// FixedWidth returns the compile-time width in bytes of one value of t, and
// false if t has no fixed width (variable-length or the untyped null
// literal).
func (t DataType) FixedWidth() (int, bool) {
	switch t {
	case BoolType:
		return 1, true
	case Int32Type, Uint32Type, FloatType, DateType, EnumType:
		return 4, true
	case Int64Type, Uint64Type, DoubleType, DatetimeType:
		return 8, true
	case DataTypeType:
		return 4, true
	default:
		return 0, false
	}
}

// Nullability is whether an attribute's column may carry a null bitmap.
type Nullability uint8

const (
	NotNullable Nullability = iota
	Nullable
)

func (n Nullability) String() string {
	if n == Nullable {
		return "NULLABLE"
	}
	return "NOT_NULLABLE"
}
