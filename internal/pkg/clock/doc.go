// Package clock abstracts the wall clock behind a small interface.
//
// Anything that reasons about elapsed time (OTP expiry, resend cooldowns,
// grace windows) should take a Clocker instead of calling time.Now directly,
// so tests can substitute a fixed or advancing fake.
package clock
