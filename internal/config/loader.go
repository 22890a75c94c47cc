package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routematch/internal/util"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Loader reads route table files.
type Loader struct {
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a loader that substitutes variables from the process
// environment.
func NewLoader() *Loader {
	return &Loader{lookupEnv: os.LookupEnv}
}

// LoadConfig loads a route table from a file path.
func LoadConfig(path string) (*RouteTable, error) {
	return NewLoader().Load(path)
}

// LoadConfigFromReader loads a route table from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*RouteTable, error) {
	return NewLoader().LoadFromReader(r)
}

// Load loads a route table from a file path.
func (l *Loader) Load(path string) (*RouteTable, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is validated via filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return l.parse(data)
}

// LoadFromReader loads a route table from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*RouteTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return l.parse(data)
}

func (l *Loader) parse(data []byte) (*RouteTable, error) {
	content := l.substituteEnvVars(string(data))

	var table RouteTable
	dec := yaml.NewDecoder(strings.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, util.NewConfigError("", "empty route table")
		}
		return nil, util.NewConfigErrorWithCause("", fmt.Sprintf("failed to parse YAML: %v", err), err)
	}

	return &table, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values. $$ escapes a literal dollar sign.
func (l *Loader) substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", "\x00ESCAPED_DOLLAR\x00")

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		if value, exists := l.lookupEnv(submatches[1]); exists {
			return value
		}
		if len(submatches) >= 3 {
			return submatches[2]
		}
		return ""
	})

	return strings.ReplaceAll(result, "\x00ESCAPED_DOLLAR\x00", "$")
}

// ResolveConfigPath resolves a route table path, checking common locations
// for relative paths.
func ResolveConfigPath(path string) (string, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("config file not found: %s", path)
	}

	if _, err := os.Stat(path); err == nil {
		return filepath.Abs(path)
	}

	etcPath := filepath.Join(string(filepath.Separator), "etc", "routematch")
	commonPaths := []string{
		filepath.Join("configs", path),
		filepath.Join(etcPath, path),
	}
	if home, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(home, ".routematch", path))
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("config file not found: %s", path)
}
