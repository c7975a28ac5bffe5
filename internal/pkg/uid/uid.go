// Package uid provides ID generation behind small interfaces so callers can
// swap implementations in tests.
package uid

// NumberID generates int64 identifiers, used as database primary keys.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers, used for correlation IDs.
type StringID interface {
	Generate() string
}
