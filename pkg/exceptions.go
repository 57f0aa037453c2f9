package pkg

import "errors"

var (
	// Verification errors 🔒
	ErrVerificationFailed = errors.New("❌ map directory verification failed")
	ErrNoMapFiles         = errors.New("❌ no map files found")
)
