// Package sanitizer normalises free-text request fields before validation.
//
// Each Sanitize* function is a Pipeline of small Strategy steps, so services
// can compose their own when a field needs different handling.
package sanitizer
