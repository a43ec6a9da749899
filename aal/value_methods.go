package aal

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	blockPlaceholder = "{ BLOCK }"
	mapPlaceholder   = "{ MAP }"
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBlock:
		return "block"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v *Value) Kind() ValueKind { return v.kind }

func (v *Value) IsNull() bool { return v.kind == KindNull }

// Float returns the raw number payload.
func (v *Value) Float() float32 { return v.num }

// Source returns the raw text of a block value.
func (v *Value) Source() string {
	if v.kind != KindBlock {
		return ""
	}
	return v.str
}

// Map returns the entries of a map value, or nil.
func (v *Value) Map() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.m
}

// Number is the numeric view used by conditions and arithmetic: strings are
// parsed, everything else that is not a number counts as zero.
func (v *Value) Number() float32 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 32)
		if err != nil {
			return 0
		}
		return float32(f)
	default:
		return 0
	}
}

func (v *Value) Truthy() bool {
	return v.Number() != 0
}

func (v *Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(float64(v.num), 'f', 6, 32)
	case KindBlock:
		return blockPlaceholder
	case KindMap:
		return mapPlaceholder
	default:
		return ""
	}
}

// AssignInPlace copies src's kind and payload into v. Every other holder of v
// observes the change; v's identity is never replaced. A map payload is copied
// as a new container over the same entry values, so keys added or removed
// through one holder stay local to it.
func (v *Value) AssignInPlace(src *Value) {
	if v == src {
		return
	}
	v.kind = src.kind
	v.str = src.str
	v.num = src.num
	v.m = src.m.clone()
}

// Equal compares kind and payload. Maps compare by identity.
func (v *Value) Equal(other *Value) bool {
	if v == other {
		return true
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return v.num == other.num
	case KindString, KindBlock:
		return v.str == other.str
	case KindMap:
		return v.m == other.m
	default:
		return false
	}
}
