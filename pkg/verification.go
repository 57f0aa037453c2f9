package pkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/l2terrain/l2extract/internal/tilefs"
	"github.com/l2terrain/l2extract/pkg/logging"
	"github.com/l2terrain/l2extract/pkg/unreal/crypto"
)

// VerifyMapDirWithLogger checks that every map file in dir carries a valid
// encryption header and decrypts cleanly, with a provided logger
func VerifyMapDirWithLogger(dir string, logger hclog.Logger) error {
	files, err := tilefs.MapFiles(dir)
	if err != nil {
		logger.Error("Failed to list map directory", "dir", dir, "error", err)
		return err
	}
	if len(files) == 0 {
		logger.Error("No map files in directory", "dir", dir)
		return ErrNoMapFiles
	}

	logger.Info("Verifying map files", "dir", dir, "count", len(files))

	errors := []string{}

	for _, path := range files {
		name := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: read failed: %v", name, err))
			logger.Error("Read failed", "file", name, "error", err)
			continue
		}

		version, err := crypto.ParseHeader(data)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: header invalid: %v", name, err))
			logger.Error("Header verification failed", "file", name, "error", err)
			continue
		}

		if _, err := crypto.Decrypt(data, name); err != nil {
			errors = append(errors, fmt.Sprintf("%s: decrypt failed: %v", name, err))
			logger.Error("Decryption failed", "file", name, "error", err)
			continue
		}

		logger.Info("✓ Map file valid", "file", name, "version", version)
	}

	if len(errors) == 0 {
		logger.Info("✓ Map directory verification passed", "files", len(files))
		return nil
	}

	logger.Error("✗ Map directory verification failed", "error_count", len(errors))
	for _, e := range errors {
		logger.Error("  Verification error", "details", e)
	}
	return fmt.Errorf("%w: %d of %d files", ErrVerificationFailed, len(errors), len(files))
}

// VerifyMapDir verifies a map directory using default logger settings
func VerifyMapDir(dir string) error {
	logger := logging.NewLogger("l2extract-verify", logging.GetLogLevel(), nil)
	return VerifyMapDirWithLogger(dir, logger)
}
