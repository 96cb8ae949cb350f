// Package conv converts between integer types with overflow checks.
//
// Use it where lengths and counts cross into fixed-width on-disk fields or
// come back out of them. Conversions that are safe by construction use
// plain casts.
package conv
