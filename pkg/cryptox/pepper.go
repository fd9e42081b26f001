package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
)

// Argon2id parameters. OWASP's recommended minimums as of 2024.
const (
	memory      = 19 * 1024 // KiB (19 MiB)
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepper     string
	pepperFile string
)

// SetPepperPath points the package at the file holding the pepper. Call once
// during startup before any hashing happens.
func SetPepperPath(file string) {
	pepperFile = file
}

// GetPepper returns the process pepper, loading or generating it on first
// use. A missing pepper file is created rather than treated as an error so
// fresh deployments work out of the box.
func GetPepper() string {
	if pepper != "" {
		return pepper
	}

	var err error
	pepper, err = loadOrGeneratePepper()
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err))
		os.Exit(1)
	}

	return pepper
}

func loadOrGeneratePepper() (string, error) {
	pepperFile = filepath.Clean(pepperFile)
	if err := os.MkdirAll(filepath.Dir(pepperFile), 0750); err != nil {
		return "", err
	}

	if _, err := os.Stat(pepperFile); os.IsNotExist(err) {
		raw := make([]byte, keyLength)
		if _, err := rand.Read(raw); err != nil {
			return "", err
		}
		p := base64.RawURLEncoding.EncodeToString(raw)

		if err := os.WriteFile(pepperFile, []byte(p), 0600); err != nil {
			return "", err
		}
		return p, nil
	}

	raw, err := os.ReadFile(pepperFile)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
