package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAccountNotFound is returned when an account is not found
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoActiveSession is returned when no authorized, unexpired credential
	// record exists for the account
	ErrNoActiveSession = errors.New("no active session, login required")

	// ErrDecryptionFailed is returned when stored ciphertext cannot be
	// decrypted (key mismatch or corruption)
	ErrDecryptionFailed = errors.New("session decryption failed")

	// ErrTargetNotFound is returned when no resolution strategy matched
	ErrTargetNotFound = errors.New("target not found")

	// ErrCodeInvalid is returned for a wrong verification code (retryable)
	ErrCodeInvalid = errors.New("verification code invalid")

	// ErrCodeExpired is returned for an expired verification code (restart)
	ErrCodeExpired = errors.New("verification code expired")

	// ErrPasswordNeeded signals the account has 2FA enabled
	ErrPasswordNeeded = errors.New("two-factor password required")

	// ErrPasswordInvalid is returned for a wrong 2FA password (retryable)
	ErrPasswordInvalid = errors.New("two-factor password invalid")

	// ErrLoginFailed is returned for any other platform error during login
	ErrLoginFailed = errors.New("login failed")

	// ErrNotConnected is returned when an operation requires a live connection
	ErrNotConnected = errors.New("not connected to Telegram")

	// ErrNoCredits is returned when the account's quota is exhausted
	ErrNoCredits = errors.New("no credits left")

	// ErrBanned is returned for banned accounts
	ErrBanned = errors.New("account is banned")
)

// FloodWaitError is a platform rate-limit signal carrying the cooldown the
// caller must honor before retrying.
type FloodWaitError struct {
	Wait time.Duration
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait %s", e.Wait)
}

// AsFloodWait extracts the cooldown from an error chain
func AsFloodWait(err error) (time.Duration, bool) {
	var fw *FloodWaitError
	if errors.As(err, &fw) {
		return fw.Wait, true
	}
	return 0, false
}
