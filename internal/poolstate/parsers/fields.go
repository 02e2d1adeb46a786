// Package parsers normalizes heterogeneous on-chain pool object trees into
// poolstate.PoolState. Each venue parser is a pure function of a
// dynamically-typed field tree; the on-chain schema is never encoded as a
// fixed record because it varies per pool version and per venue encoding
// (string vs numeric, 18-decimal vs 1e6 vs raw bps fees).
package parsers

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// ParseError indicates the input tree was missing a required node (most
// commonly the root "fields" subtree). Optional sub-fields are always
// tolerated: missing optional fields are left empty rather than failing
// the parse.
type ParseError struct {
	Venue  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for venue %s: %s", e.Venue, e.Reason)
}

// tree is the tolerant accessor over a decoded on-chain object's field map.
// It mirrors serde_json::Value's role in the Rust precursor: a dynamically
// shaped value the parser walks without assuming a fixed struct.
type tree map[string]any

// fieldsOf descends into the "fields" subtree of m, used both for the
// object root and for nested dynamic-field wrappers.
func fieldsOf(m tree) (tree, bool) {
	raw, ok := m["fields"]
	if !ok {
		return nil, false
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	return tree(sub), true
}

// str returns m[name] as a string, accepting native JSON strings and JSON
// numbers (formatted in plain decimal); ok is false if absent or any other
// type.
func (m tree) str(name string) (string, bool) {
	v, ok := m[name]
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// u64 returns m[name] parsed as a u64, accepting both JSON numeric and
// JSON-string encodings (Sui RPC emits u64 fields as strings to avoid
// float64 precision loss, but small values sometimes still arrive numeric).
func (m tree) u64(name string) (uint64, bool) {
	v, ok := m[name]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return uint64(t), true
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// u128 returns m[name] parsed as a 128-bit unsigned integer. Unlike u64,
// values this large only ever arrive string-encoded on-chain; a bare JSON
// number this size would already have lost precision before it reached us.
func (m tree) u128(name string) (*uint256.Int, bool) {
	s, ok := m.str(name)
	if !ok {
		return nil, false
	}
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, false
	}
	return n, true
}

// f64 returns m[name] parsed as a float64 from either a JSON number or a
// numeric string (needed for 18-decimal fixed-point strings that overflow
// u64/u128 precision requirements but are fine as approximate floats).
func (m tree) f64(name string) (float64, bool) {
	v, ok := m[name]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// nested returns the sub-map at m[name], if present.
func (m tree) nested(name string) (tree, bool) {
	v, ok := m[name]
	if !ok {
		return nil, false
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return tree(sub), true
}

// array returns the array at m[name], if present.
func (m tree) array(name string) ([]any, bool) {
	v, ok := m[name]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// tickBitsToInt32 reinterprets an on-chain {bits: u32} tick encoding as a
// signed i32 via two's-complement unwrap, used by every CLMM venue.
func tickBitsToInt32(bits uint64) int32 {
	return int32(uint32(bits))
}
