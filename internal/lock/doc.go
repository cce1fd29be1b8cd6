// Package lock guards a supervisor against a second copy of itself on the
// same host by holding an exclusive flock on a well-known file.
package lock
