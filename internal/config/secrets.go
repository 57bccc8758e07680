package config

import (
	"fmt"
	"os"
	"strings"
)

// Secrets are credentials resolved with the *_FILE convention.
type Secrets struct {
	PGPassword string
	AdminUser  string
	AdminPass  string
	OperUser   string
	OperPass   string
}

// ResolveSecret reads a secret value using the *_FILE convention.
// If envName+"_FILE" is set, reads the secret from that file path.
// Otherwise falls back to the value of envName.
// Returns empty string if neither is set.
func ResolveSecret(envName string) (string, error) {
	fileEnv := envName + "_FILE"
	if filePath := os.Getenv(fileEnv); filePath != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read secret from %s=%s: %w", fileEnv, filePath, err)
		}
		return strings.TrimSpace(string(content)), nil
	}

	return os.Getenv(envName), nil
}

// LoadSecrets resolves every credential the service uses.
// The first unreadable secret file aborts resolution.
func LoadSecrets() (*Secrets, error) {
	var s Secrets
	targets := []struct {
		env string
		dst *string
	}{
		{"PGPASSWORD", &s.PGPassword},
		{"ROOMMAP_ADMIN_USER", &s.AdminUser},
		{"ROOMMAP_ADMIN_PASS", &s.AdminPass},
		{"ROOMMAP_OPERATOR_USER", &s.OperUser},
		{"ROOMMAP_OPERATOR_PASS", &s.OperPass},
	}
	for _, t := range targets {
		v, err := ResolveSecret(t.env)
		if err != nil {
			return nil, err
		}
		*t.dst = v
	}
	return &s, nil
}
