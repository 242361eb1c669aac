package bbrun

import (
	"bytes"
	_ "embed"
	"errors"
	"strings"
	"text/template"
)

// ErrFrontendDisabled is returned by RenderPage when the frontend is off.
var ErrFrontendDisabled = errors.New("frontend disabled")

//go:embed page.html
var pageSource string

// The page has no trailing newline.
var pageTemplate = template.Must(template.New("page").Parse(strings.TrimSuffix(pageSource, "\n")))

type pageData struct {
	Board  string
	Module string
	Style  Style
}

// RenderPage renders the HTML page that loads the frontend module for board.
// Values are interpolated verbatim; see FrontendOptions.Validate.
func RenderPage(board string, opts FrontendOptions) ([]byte, error) {
	if opts.Frontend.Disabled {
		return nil, ErrFrontendDisabled
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Board:  board,
		Module: opts.ModuleURL(),
		Style:  opts.Style.Resolved(),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
