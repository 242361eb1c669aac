package bbrun

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frontend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want FrontendOptions
	}{
		{
			name: "disabled",
			yaml: "frontend: false\n",
			want: FrontendOptions{Frontend: Frontend{Disabled: true}},
		},
		{
			name: "module override with style",
			yaml: "frontend: https://cdn.example.com/app.js\nstyle:\n  bg: \"#000\"\n  colorPrimaryBg: white\n",
			want: FrontendOptions{
				Frontend: Frontend{Module: "https://cdn.example.com/app.js"},
				Style:    Style{Bg: "#000", ColorPrimaryBg: "white"},
			},
		},
		{
			name: "null frontend",
			yaml: "frontend: ~\n",
			want: FrontendOptions{},
		},
		{
			name: "true frontend",
			yaml: "frontend: true\n",
			want: FrontendOptions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := LoadOptions(writeConfig(t, tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestLoadOptionsEmptyPath(t *testing.T) {
	opts, err := LoadOptions("")
	require.NoError(t, err)
	assert.Equal(t, FrontendOptions{}, opts)
	assert.Equal(t, DefaultFrontendModule, opts.ModuleURL())
}

func TestLoadOptionsErrors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read frontend config")

	_, err = LoadOptions(writeConfig(t, "frontend: [a, b]\n"))
	assert.ErrorContains(t, err, "frontend must be false or a module URL")

	_, err = LoadOptions(writeConfig(t, "style: [\n"))
	assert.ErrorContains(t, err, "syntax error in frontend config")
}

func TestFrontendMarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(FrontendOptions{Frontend: Frontend{Disabled: true}})
	require.NoError(t, err)
	assert.Equal(t, "frontend: false\n", string(out))

	var back FrontendOptions
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, back.Frontend.Disabled)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, FrontendOptions{}.Validate(testBoard))
	assert.NoError(t, FrontendOptions{Style: Style{FontFamily: DefaultFontFamily, Bg: "#fff"}}.Validate(testBoard))

	assert.NoError(t, FrontendOptions{Style: Style{FontFamily: `"Helvetica Neue", Arial`}}.Validate(testBoard))

	assert.Error(t, FrontendOptions{}.Validate(`https://x/"><script>`))
	assert.Error(t, FrontendOptions{Frontend: Frontend{Module: "a<b"}}.Validate(testBoard))
	assert.Error(t, FrontendOptions{Style: Style{Bg: "red; } body { display: none"}}.Validate(testBoard))
	assert.Error(t, FrontendOptions{Style: Style{ColorError: "</style>"}}.Validate(testBoard))
}

func TestStyleResolved(t *testing.T) {
	assert.Equal(t, Style{
		Bg:             DefaultBg,
		FontFamily:     DefaultFontFamily,
		ColorPrimary:   "teal",
		ColorPrimaryBg: DefaultColorPrimaryBg,
		ColorError:     DefaultColorError,
	}, Style{ColorPrimary: "teal"}.Resolved())
}
