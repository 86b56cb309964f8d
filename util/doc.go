// Package util provides generic slice and set helpers used by the
// policy engine and claim extraction.
package util
