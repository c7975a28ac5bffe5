// Package hash provides one-way digests behind a small interface.
//
// SHA256 is the deterministic digest used for short-lived one-time codes;
// Bcrypt is the slow hash used for account passwords. Only digests are ever
// persisted, and verification never branches on where two digests diverge.
package hash
