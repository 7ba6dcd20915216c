package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
	"unicode"

	"github.com/Masterminds/sprig/v3"
)

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with sprig plus the built-in case helpers
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	tmpl, err := r.lookup("string:"+name, func() (string, error) {
		return templateStr, nil
	})
	if err != nil {
		return nil, err
	}
	return r.executeTemplate(tmpl, data)
}

// RenderFS renders a template read from fsys (usually an embed.FS)
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	tmpl, err := r.lookup(fmt.Sprintf("fs:%p:%s", fsys, path), func() (string, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return "", fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return string(b), nil
	})
	if err != nil {
		return nil, err
	}
	return r.executeTemplate(tmpl, data)
}

// lookup returns a cached template or parses the source produced by load
func (r *Renderer) lookup(key string, load func() (string, error)) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	src, err := load()
	if err != nil {
		return nil, err
	}

	name := key[strings.LastIndex(key, ":")+1:]
	tmpl, err = template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.mu.Lock()
	r.cache[key] = tmpl
	r.mu.Unlock()

	return tmpl, nil
}

// ClearCache clears the template cache (useful for testing)
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) executeTemplate(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["pascalCase"] = PascalCase // my-app → MyApp
	funcs["camelCase"] = CamelCase   // my-app → myApp
	funcs["kebabCase"] = KebabCase   // My App → my-app
	funcs["snakeCase"] = SnakeCase   // my-app → my_app
	return funcs
}

// words splits s on separators and lower-to-upper case boundaries
func words(s string) []string {
	var out []string
	var cur []rune
	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/' || r == '@':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

// PascalCase converts a project name to PascalCase: my-app → MyApp
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	return b.String()
}

// CamelCase converts a project name to camelCase: my-app → myApp
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// KebabCase converts a project name to an npm-safe kebab-case name: My App → my-app
func KebabCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "-")
}

// SnakeCase converts a project name to a python-safe module name: my-app → my_app
func SnakeCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}
