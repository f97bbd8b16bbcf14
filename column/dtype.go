// Package column implements the columnar storage layer: typed schemas,
// immutable column batches, and the append-only column store.
package column

import "fmt"

// DType is a logical column type. The closed set matches spec §3 exactly:
// integers, floats, Utf8 strings, and Boolean.
type DType uint8

const (
	Int32 DType = iota
	Int64
	Float32
	Float64
	Utf8
	Boolean
)

func (d DType) String() string {
	switch d {
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Utf8:
		return "Utf8"
	case Boolean:
		return "Boolean"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(d))
	}
}

// IsNumeric reports whether d is one of the four arithmetic primitive types.
func (d DType) IsNumeric() bool {
	switch d {
	case Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether d is a floating point type.
func (d DType) IsFloat() bool { return d == Float32 || d == Float64 }

// IsInteger reports whether d is an integer type.
func (d DType) IsInteger() bool { return d == Int32 || d == Int64 }

// byteWidth returns the per-value size in bytes for fixed-width types.
// Utf8 has no fixed width; callers must size strings explicitly.
func (d DType) byteWidth() int {
	switch d {
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	case Boolean:
		return 1
	default:
		return 0
	}
}
