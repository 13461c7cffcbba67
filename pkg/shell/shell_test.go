package shell

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/syntax"

	"llvmmgmt/pkg/config"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		flag  string
		env   string
		want  string
		isErr bool
	}{
		{"zsh", "/bin/bash", "zsh", false},
		{"", "/usr/bin/zsh", "zsh", false},
		{"", "/bin/bash", "bash", false},
		{"", "", "bash", false},
		{"fish", "", "", true},
		{"", "/usr/local/bin/fish", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.flag+"|"+tt.env, func(t *testing.T) {
			t.Setenv("SHELL", tt.env)
			got, err := Detect(tt.flag)
			if tt.isErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedShell)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func funcNames(t *testing.T, src string) []string {
	t.Helper()
	f, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(src), "llvmmgmt.bash")
	require.NoError(t, err)

	var names []string
	syntax.Walk(f, func(node syntax.Node) bool {
		if fd, ok := node.(*syntax.FuncDecl); ok {
			names = append(names, fd.Name.Value)
		}
		return true
	})
	return names
}

func TestBashScript(t *testing.T) {
	cfg := config.NewTestConfig(filepath.Join(t.TempDir(), "with space"))

	src, err := Script("bash", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"llvmmgmt_remove_path",
		"llvmmgmt_append_path",
		"llvmmgmt_env_llvm_sys",
		"llvmmgmt_update",
	}, funcNames(t, src))
	assert.Contains(t, src, "PROMPT_COMMAND=")
	assert.Contains(t, src, "'"+cfg.GetDataDir()+"'")
	assert.NotContains(t, src, "{{")
}

func TestZshScript(t *testing.T) {
	cfg := config.NewTestConfig(t.TempDir())

	src, err := Script("zsh", cfg)
	require.NoError(t, err)
	assert.Contains(t, src, "add-zsh-hook precmd llvmmgmt_update")
	assert.Contains(t, src, "llvmmgmt version --major --minor")
	assert.Contains(t, src, cfg.GetDataDir())
	assert.NotContains(t, src, "{{")
}

func TestScriptUnsupported(t *testing.T) {
	_, err := Script("fish", config.NewTestConfig(t.TempDir()))
	assert.ErrorIs(t, err, ErrUnsupportedShell)
}

func TestScriptIgnoresEnvironment(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	_, err := Script("", config.NewTestConfig(t.TempDir()))
	assert.ErrorIs(t, err, ErrUnsupportedShell)

	t.Setenv("SHELL", "/usr/bin/fish")
	out, err := Script("zsh", config.NewTestConfig(t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, out, "add-zsh-hook")
}
