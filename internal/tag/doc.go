// Package tag classifies analytics tag values.
//
// A tag value is a scalar that may be sent in a tagging payload. The package
// models it as a sealed union (Absent, Bool, Int, String, Other) so the
// validity rule is a type switch rather than a truthiness test:
//
//   - Absent and Bool are never valid
//   - Int is always valid, zero included
//   - String is valid when it is non-empty, whatever it contains
//   - Other is valid unless it is empty-like (nil, or zero length)
//
// This package imports nothing internal. Every other internal package
// builds on it.
package tag
