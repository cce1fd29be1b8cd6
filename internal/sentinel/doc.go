// Package sentinel defines Error, a string error type that can be declared as
// a const. Sentinels built from it cannot be reassigned by importers and still
// match through wrapped chains with errors.Is.
package sentinel
