package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routematch/internal/matcher"
	"github.com/vyrodovalexey/routematch/internal/util"
)

const validTableYAML = `
apiVersion: routematch.io/v1
kind: RouteTable
metadata:
  name: app
spec:
  routes:
    - path: /
      name: home
      component: Home
    - path: /users/:id
      name: user
      component: User
      alias: /u/:id
      meta:
        auth: true
      children:
        - path: posts
          name: user-posts
          component: Posts
          props:
            mode: params
`

func writeTable(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	table, err := NewLoader().Load(writeTable(t, validTableYAML))
	require.NoError(t, err)

	assert.Equal(t, APIVersion, table.APIVersion)
	assert.Equal(t, Kind, table.Kind)
	assert.Equal(t, "app", table.Metadata.Name)
	require.Len(t, table.Spec.Routes, 2)

	user := table.Spec.Routes[1]
	assert.Equal(t, matcher.AliasList{"/u/:id"}, user.Alias)
	assert.Equal(t, map[string]any{"auth": true}, user.Meta)
	require.Len(t, user.Children, 1)
	require.NotNil(t, user.Children[0].Props)
	assert.Equal(t, matcher.PropsParams, user.Children[0].Props.Mode)
}

func TestLoader_Load_AliasSequence(t *testing.T) {
	t.Parallel()

	table, err := LoadConfigFromReader(strings.NewReader(`
apiVersion: routematch.io/v1
kind: RouteTable
metadata:
  name: app
spec:
  routes:
    - path: /a
      component: A
      alias: [/b, /c]
`))
	require.NoError(t, err)
	assert.Equal(t, matcher.AliasList{"/b", "/c"}, table.Spec.Routes[0].Alias)
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load("/nonexistent/path/routes.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "empty", content: "", message: "empty route table"},
		{name: "invalid yaml", content: "spec: [", message: "failed to parse YAML"},
		{name: "unknown field", content: "apiVersion: routematch.io/v1\nbogus: true\n", message: "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfigFromReader(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, util.ErrConfigInvalid)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoader_SubstituteEnvVars(t *testing.T) {
	t.Parallel()

	env := map[string]string{"APP_PREFIX": "/app", "EMPTY": ""}
	loader := &Loader{lookupEnv: func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}}

	tests := []struct {
		input    string
		expected string
	}{
		{input: "${APP_PREFIX}/users", expected: "/app/users"},
		{input: "${MISSING:-/default}/users", expected: "/default/users"},
		{input: "${MISSING}/users", expected: "/users"},
		{input: "${EMPTY:-x}", expected: ""},
		{input: "$${APP_PREFIX}", expected: "${APP_PREFIX}"},
		{input: "no vars", expected: "no vars"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, loader.substituteEnvVars(tt.input))
		})
	}
}

func TestLoadConfig_EnvSubstitution(t *testing.T) {
	t.Setenv("ROUTEMATCH_TEST_HOME", "Landing")

	table, err := LoadConfig(writeTable(t, `
apiVersion: routematch.io/v1
kind: RouteTable
metadata:
  name: ${ROUTEMATCH_TEST_NAME:-app}
spec:
  routes:
    - path: /
      component: ${ROUTEMATCH_TEST_HOME}
`))
	require.NoError(t, err)

	assert.Equal(t, "app", table.Metadata.Name)
	assert.Equal(t, "Landing", table.Spec.Routes[0].Component)
}

func TestResolveConfigPath(t *testing.T) {
	t.Parallel()

	path := writeTable(t, validTableYAML)

	resolved, err := ResolveConfigPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	_, err = ResolveConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	_, err = ResolveConfigPath("definitely-not-here.yaml")
	require.Error(t, err)
}
