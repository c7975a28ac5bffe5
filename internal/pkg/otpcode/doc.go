// Package otpcode generates the short-lived numeric codes delivered to
// account phones.
//
// Codes are drawn uniformly from a cryptographic source; the generator is an
// interface so tests can pin the produced code.
package otpcode
