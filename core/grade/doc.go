// Package grade computes grade point averages on a fixed 10-point letter scale.
//
// Every calculation is total: malformed, empty or mismatched input yields 0 instead of an error.
// A course counts towards an average only when it has positive credits and a grade on the scale.
package grade
