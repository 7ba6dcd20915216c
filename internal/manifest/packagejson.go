package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/package.schema.json
var packageSchemaBytes []byte

var (
	packageSchema     *jsonschema.Schema
	packageSchemaOnce sync.Once
	packageSchemaErr  error
)

func getPackageSchema() (*jsonschema.Schema, error) {
	packageSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(packageSchemaBytes))
		if err != nil {
			packageSchemaErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("package.schema.json", doc); err != nil {
			packageSchemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		packageSchema, packageSchemaErr = c.Compile("package.schema.json")
		if packageSchemaErr != nil {
			packageSchemaErr = fmt.Errorf("compiling schema: %w", packageSchemaErr)
		}
	})
	return packageSchema, packageSchemaErr
}

// ValidatePackageJSON checks data against the package.json schema. The
// returned error wraps ErrInvalid when the document is malformed.
func ValidatePackageJSON(data []byte) error {
	schema, err := getPackageSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: package.json: %v", ErrInvalid, err)
	}

	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: package.json: %s", ErrInvalid, firstIssue(ve))
		}
		return fmt.Errorf("%w: package.json: %v", ErrInvalid, err)
	}
	return nil
}

// firstIssue returns the deepest leftmost cause, which names the offending
// field rather than the enclosing object.
func firstIssue(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := "/" + strings.Join(ve.InstanceLocation, "/")
	return fmt.Sprintf("%s: %s", location, ve.Error())
}

// packageDocument keeps every top-level field of a package.json in its
// original order so rewrites only touch the fields hatch manages.
type packageDocument struct {
	keys   []string
	values map[string]json.RawMessage
}

func newPackageDocument(name string) *packageDocument {
	doc := &packageDocument{values: map[string]json.RawMessage{}}
	if name != "" {
		_ = doc.set("name", name)
	}
	return doc
}

func parsePackageJSON(data []byte) (*packageDocument, error) {
	if err := ValidatePackageJSON(data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: package.json: %v", ErrInvalid, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: package.json: expected an object", ErrInvalid)
	}

	doc := &packageDocument{values: map[string]json.RawMessage{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: package.json: %v", ErrInvalid, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: package.json: unexpected token %v", ErrInvalid, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: package.json: %v", ErrInvalid, err)
		}

		if _, seen := doc.values[key]; !seen {
			doc.keys = append(doc.keys, key)
		}
		doc.values[key] = raw
	}

	return doc, nil
}

func (d *packageDocument) get(key string, v any) error {
	raw, ok := d.values[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: package.json %s: %v", ErrInvalid, key, err)
	}
	return nil
}

func (d *packageDocument) set(key string, v any) error {
	raw, err := marshalJSON(v)
	if err != nil {
		return err
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
	return nil
}

// setMap writes a string map, leaving absent keys absent when m is empty
func (d *packageDocument) setMap(key string, m map[string]string) error {
	if _, ok := d.values[key]; !ok && len(m) == 0 {
		return nil
	}
	return d.set(key, m)
}

func (d *packageDocument) manifest() (*Manifest, error) {
	m := Empty()
	m.Kind = KindPackageJSON

	if err := d.get("name", &m.Name); err != nil {
		return Empty(), err
	}
	for key, target := range map[string]*map[string]string{
		"dependencies":    &m.Dependencies,
		"devDependencies": &m.DevDependencies,
		"scripts":         &m.Scripts,
	} {
		if err := d.get(key, target); err != nil {
			return Empty(), err
		}
		if *target == nil {
			*target = map[string]string{}
		}
	}

	return m, nil
}

func (d *packageDocument) apply(m *Manifest) error {
	if err := d.setMap("dependencies", m.Dependencies); err != nil {
		return err
	}
	if err := d.setMap("devDependencies", m.DevDependencies); err != nil {
		return err
	}
	return d.setMap("scripts", m.Scripts)
}

// bytes renders the document with two-space indentation and a trailing
// newline, the way npm writes it.
func (d *packageDocument) bytes() ([]byte, error) {
	if len(d.keys) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range d.keys {
		name, err := marshalJSON(key)
		if err != nil {
			return nil, err
		}

		var value bytes.Buffer
		if err := json.Indent(&value, d.values[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("formatting %s: %w", key, err)
		}

		buf.WriteString("  ")
		buf.Write(name)
		buf.WriteString(": ")
		buf.Write(value.Bytes())
		if i < len(d.keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

// marshalJSON encodes v without HTML escaping so scripts like "a && b"
// survive unchanged
func marshalJSON(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
