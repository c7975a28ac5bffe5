// Package validator wraps go-playground/validator v10 behind a one-method
// interface with English translations and the custom rules this application
// needs (phone numbers, password length).
package validator
