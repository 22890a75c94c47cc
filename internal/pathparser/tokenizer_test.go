package pathparser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routematch/internal/util"
)

func static(v string) token {
	return token{typ: tokenStatic, value: v}
}

func param(name string) token {
	return token{typ: tokenParam, value: name}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected [][]token
	}{
		{name: "empty", path: "", expected: [][]token{{}}},
		{name: "root", path: "/", expected: [][]token{{rootToken}}},
		{name: "static", path: "/home", expected: [][]token{{static("home")}}},
		{
			name:     "nested static",
			path:     "/a/b",
			expected: [][]token{{static("a")}, {static("b")}},
		},
		{
			name:     "trailing slash opens an empty segment",
			path:     "/a/",
			expected: [][]token{{static("a")}, {}},
		},
		{
			name:     "repeated slashes collapse",
			path:     "/a//b",
			expected: [][]token{{static("a")}, {static("b")}},
		},
		{
			name:     "repeated slashes before a param",
			path:     "//a//:id",
			expected: [][]token{{static("a")}, {param("id")}},
		},
		{
			name:     "repeated trailing slashes keep one empty segment",
			path:     "/a//",
			expected: [][]token{{static("a")}, {}},
		},
		{
			name:     "escaped slash is static",
			path:     `/a/\/b`,
			expected: [][]token{{static("a")}, {static("/b")}},
		},
		{name: "param", path: "/:id", expected: [][]token{{param("id")}}},
		{
			name: "custom regexp",
			path: `/:id(\d+)`,
			expected: [][]token{{
				{typ: tokenParam, value: "id", regexp: `\d+`},
			}},
		},
		{
			name: "nested parens in custom regexp",
			path: "/:lang(en|fr(-ca)?)",
			expected: [][]token{{
				{typ: tokenParam, value: "lang", regexp: "en|fr(-ca)?"},
			}},
		},
		{
			name: "escaped closing paren in custom regexp",
			path: `/:id(a\))`,
			expected: [][]token{{
				{typ: tokenParam, value: "id", regexp: `a\)`},
			}},
		},
		{
			name: "optional",
			path: "/:id?",
			expected: [][]token{{
				{typ: tokenParam, value: "id", optional: true},
			}},
		},
		{
			name: "zero or more",
			path: "/:ids*",
			expected: [][]token{{
				{typ: tokenParam, value: "ids", optional: true, repeatable: true},
			}},
		},
		{
			name: "one or more",
			path: "/:ids+",
			expected: [][]token{{
				{typ: tokenParam, value: "ids", repeatable: true},
			}},
		},
		{
			name: "catch all",
			path: "/:pathMatch(.*)*",
			expected: [][]token{{
				{typ: tokenParam, value: "pathMatch", regexp: ".*", optional: true, repeatable: true},
			}},
		},
		{
			name:     "several params in one segment",
			path:     "/a-:b-:c",
			expected: [][]token{{static("a-"), param("b"), static("-"), param("c")}},
		},
		{
			name:     "param followed by static segment",
			path:     "/:id/edit",
			expected: [][]token{{param("id")}, {static("edit")}},
		},
		{
			name:     "escaped colon is static",
			path:     `/a\:b`,
			expected: [][]token{{static("a:b")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segments, err := tokenize(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, segments)
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		contains string
	}{
		{name: "relative path", path: "users", contains: `must start with "/"`},
		{name: "bare star", path: "*", contains: "catch-all routes must use a param"},
		{name: "unfinished regexp", path: `/:id(\d+`, contains: "unfinished custom regexp"},
		{name: "repeatable not alone", path: "/a:ids+", contains: "must be alone in its segment"},
		{name: "missing name", path: "/:/a", contains: "missing param name"},
		{name: "missing name before regexp", path: `/:(\d+)`, contains: "missing param name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tokenize(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.True(t, errors.Is(err, util.ErrInvalidInput))
		})
	}
}
