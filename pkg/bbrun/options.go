package bbrun

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFrontendModule is loaded by the page when no override is configured.
const DefaultFrontendModule = "https://esm.town/v/dglazkov/bbrunfe"

// Style defaults, applied when a field is absent or empty.
const (
	DefaultBg             = "#f0f0f0"
	DefaultFontFamily     = "Helvetica Neue, Helvetica, Arial, sans-serif"
	DefaultColorPrimary   = "#3498db"
	DefaultColorPrimaryBg = "#fff"
	DefaultColorError     = "#fff0f0"
)

// FrontendOptions configures the page served on GET.
type FrontendOptions struct {
	Frontend Frontend `yaml:"frontend,omitempty"`
	Style    Style    `yaml:"style,omitempty"`
}

// Frontend selects the module rendered by the page. The zero value means the
// default module.
type Frontend struct {
	Disabled bool
	Module   string
}

// Style holds the CSS custom properties of the page.
type Style struct {
	Bg             string `yaml:"bg,omitempty"`
	FontFamily     string `yaml:"fontFamily,omitempty"`
	ColorPrimary   string `yaml:"colorPrimary,omitempty"`
	ColorPrimaryBg string `yaml:"colorPrimaryBg,omitempty"`
	ColorError     string `yaml:"colorError,omitempty"`
}

// UnmarshalYAML accepts `false` (disabled), a module URL, or null.
func (f *Frontend) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: frontend must be false or a module URL", node.Line)
	}

	switch node.Tag {
	case "!!null":
		*f = Frontend{}
	case "!!bool":
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return err
		}
		*f = Frontend{Disabled: !enabled}
	default:
		*f = Frontend{Module: node.Value}
	}
	return nil
}

// MarshalYAML writes the inverse of UnmarshalYAML.
func (f Frontend) MarshalYAML() (interface{}, error) {
	if f.Disabled {
		return false, nil
	}
	if f.Module == "" {
		return nil, nil
	}
	return f.Module, nil
}

// ModuleURL returns the module the page loads.
func (o FrontendOptions) ModuleURL() string {
	if o.Frontend.Module != "" {
		return o.Frontend.Module
	}
	return DefaultFrontendModule
}

// Resolved returns a copy of s with every empty field set to its default.
func (s Style) Resolved() Style {
	return Style{
		Bg:             orDefault(s.Bg, DefaultBg),
		FontFamily:     orDefault(s.FontFamily, DefaultFontFamily),
		ColorPrimary:   orDefault(s.ColorPrimary, DefaultColorPrimary),
		ColorPrimaryBg: orDefault(s.ColorPrimaryBg, DefaultColorPrimaryBg),
		ColorError:     orDefault(s.ColorError, DefaultColorError),
	}
}

// Validate rejects values that would escape their place in the page: quotes
// and angle brackets in the URL attributes, and `<;{}` in style values. Values
// are interpolated without escaping, so anything that is not operator
// controlled must pass through here first.
func (o FrontendOptions) Validate(board string) error {
	if strings.ContainsAny(board, `"<>`) {
		return fmt.Errorf("board URL %q contains characters not allowed in an attribute", board)
	}
	if strings.ContainsAny(o.Frontend.Module, `"<>`) {
		return fmt.Errorf("frontend module %q contains characters not allowed in an attribute", o.Frontend.Module)
	}

	fields := map[string]string{
		"bg":             o.Style.Bg,
		"fontFamily":     o.Style.FontFamily,
		"colorPrimary":   o.Style.ColorPrimary,
		"colorPrimaryBg": o.Style.ColorPrimaryBg,
		"colorError":     o.Style.ColorError,
	}
	for name, value := range fields {
		if strings.ContainsAny(value, "<>;{}") {
			return fmt.Errorf("style.%s %q contains characters not allowed in a CSS value", name, value)
		}
	}
	return nil
}

// LoadOptions reads FrontendOptions from a YAML file. An empty path yields the
// zero options.
func LoadOptions(path string) (FrontendOptions, error) {
	var opts FrontendOptions
	if path == "" {
		log.Printf("INFO: No frontend config specified, using defaults")
		return opts, nil
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read frontend config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(yamlFile, &opts); err != nil {
		return opts, fmt.Errorf("syntax error in frontend config '%s': %w", path, err)
	}
	return opts, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
