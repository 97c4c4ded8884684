// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value. An environment variable named after the key
// (upper-cased, dashes as underscores) fills in a key whose file is missing.
//
// Supported key files: gemini-api-key, anthropic-api-key, gcp-access-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/da-research/internal/logging"
)

// Key names.
const (
	GeminiAPIKey    = "gemini-api-key"
	AnthropicAPIKey = "anthropic-api-key"
	GCPAccessToken  = "gcp-access-token"
)

// Known lists the keys filled from the environment when no file exists.
var Known = []string{GeminiAPIKey, AnthropicAPIKey, GCPAccessToken}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged at Warn but do not abort.
func Load(dir string, log logging.Logger) (map[string]string, error) {
	log = logging.OrNop(log)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
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
			log.Warn("could not read secret", logging.String("key", name), logging.Err(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// WithEnv fills keys missing from secrets with their environment variable.
func WithEnv(secrets map[string]string, keys ...string) map[string]string {
	for _, k := range keys {
		if _, ok := secrets[k]; ok {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(EnvName(k))); v != "" {
			secrets[k] = v
		}
	}
	return secrets
}

// EnvName maps a key file name to its environment variable, e.g.
// gemini-api-key to GEMINI_API_KEY.
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
