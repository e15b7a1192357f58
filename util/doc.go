// Package util holds small string helpers shared across packages: input
// sanitizing, filename slugs, secret redaction and generic coalescing.
package util
