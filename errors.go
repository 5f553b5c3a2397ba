package rsacore

import (
	"errors"

	rsamath "github.com/bastionzero/rsacore/math"
)

var (
	// ErrInvalidKey is returned when key components are malformed or inconsistent with one another.
	// Retrying with the same components will fail again
	ErrInvalidKey = errors.New("rsacore: invalid key")

	// ErrNotInvertible is returned during key setup when a required modular inverse does not exist,
	// e.g. when the public exponent shares a factor with lambda(N)
	ErrNotInvertible = rsamath.ErrNotInvertible

	// ErrInvalidCiphertext is returned when a ciphertext is longer than the modulus or numerically >= N
	ErrInvalidCiphertext = errors.New("rsacore: ciphertext out of range")

	// ErrDecryption represents a failure to decrypt a message.
	// It is deliberately vague to avoid adaptive attacks.
	ErrDecryption = errors.New("rsacore: decryption error")

	// ErrVerification represents a failure to verify a signature.
	// It is deliberately vague to avoid adaptive attacks.
	ErrVerification = errors.New("rsacore: verification error")

	// ErrRngExhausted is returned when the randomness source could not supply enough bytes.
	// The call can be retried with a fresh source
	ErrRngExhausted = errors.New("rsacore: randomness source exhausted")

	// ErrMessageTooLong is returned when a message or encoded digest does not fit the modulus
	ErrMessageTooLong = errors.New("rsacore: message too long for RSA key size")

	ErrUnsupportedHash    = errors.New("rsacore: unsupported hash function")
	ErrUnsupportedPadding = errors.New("rsacore: unsupported padding scheme")
	ErrInvalidDigest      = errors.New("rsacore: input must be hashed message")

	// ErrFault is returned when a private-key result does not survive the public-key check,
	// which points at a faulty computation or inconsistent CRT values. Nothing is released in that case
	ErrFault = errors.New("rsacore: internal error")
)
