// Package shared holds helpers used by more than one package.
//
// The testutil subpackage captures slog records so tests can assert on what
// a component logged and at which level, in particular that a failure
// produced exactly one error record.
package shared
