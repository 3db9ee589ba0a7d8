// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads host credentials from a directory of plain-text
// files and from an optional .env file. Each file in the directory is one
// secret: the filename is the key and the trimmed contents are the value.
//
// Recognised keys: contact-email (appended to the fetch User-Agent) and
// default-user (the acting user when none is given on the command line).
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/paperlink/internal/logging"
)

const (
	KeyContactEmail = "contact-email"
	KeyDefaultUser  = "default-user"
)

// Secrets maps key names to values.
type Secrets map[string]string

// ContactEmail returns the contact-email secret, or "".
func (s Secrets) ContactEmail() string { return s[KeyContactEmail] }

// DefaultUser returns the default-user secret, or "".
func (s Secrets) DefaultUser() string { return s[KeyDefaultUser] }

// Load reads all files in dir. A missing directory yields an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log *logging.Logger) (Secrets, error) {
	log = logging.OrNop(log)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// LoadDotEnv exports the variables in path into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
