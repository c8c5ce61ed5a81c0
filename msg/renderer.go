package msg

import (
	"fmt"
	"regexp"
)

// Renderer turns a deferred message template into the final user-visible
// string. data carries the interpolation context ("field.name", "min", ...).
type Renderer interface {
	Render(template string, data map[string]any) string
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(template string, data map[string]any) string

func (f RendererFunc) Render(template string, data map[string]any) string {
	return f(template, data)
}

var placeholder = regexp.MustCompile(`\{[^{}]+\}`)

// defaultRenderer substitutes "{key}" placeholders with their data values.
// Placeholders without a matching key are left untouched so partially-bound
// templates stay readable.
type defaultRenderer struct{}

func (defaultRenderer) Render(template string, data map[string]any) string {
	if len(data) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(tok string) string {
		if v, ok := data[tok[1:len(tok)-1]]; ok {
			return fmt.Sprint(v)
		}
		return tok
	})
}

var current Renderer = defaultRenderer{}

// SetRenderer replaces the process-wide Renderer; nil restores the default.
// This is the hook for translation layers: they receive the raw template and
// context and own the final formatting.
func SetRenderer(r Renderer) {
	if r == nil {
		current = defaultRenderer{}
		return
	}
	current = r
}

// Render formats a template with the current Renderer.
func Render(template string, data map[string]any) string {
	return current.Render(template, data)
}
