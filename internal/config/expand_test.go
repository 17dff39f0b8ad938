package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("USER", "tester")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "HOME expands", input: "${HOME}/data", expected: "/home/tester/data"},
		{name: "USER expands", input: "/var/${USER}/cache", expected: "/var/tester/cache"},
		{name: "tilde left alone", input: "~/data", expected: "~/data"},
		{name: "absolute path unchanged", input: "/opt/tasks.db", expected: "/opt/tasks.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expand(tt.input))
		})
	}
}

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "", ExpandTilde(""))
	assert.Equal(t, "/home/tester", ExpandTilde("~"))
	assert.Equal(t, filepath.Join("/home/tester", "a/b"), ExpandTilde("~/a/b"))
	assert.Equal(t, "~other/a", ExpandTilde("~other/a"), "~username is not supported")
	assert.Equal(t, "rel/path", ExpandTilde("rel/path"))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/.cache/x.json", ExpandPath("~/.cache/x.json"))
	assert.Equal(t, "/home/tester/.cache/x.json", ExpandPath("${HOME}/.cache/x.json"))
}
