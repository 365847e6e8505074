package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"unicode/utf8"
)

const indent = "  "

// Parse decodes a package.json document. Top-level key order of passthrough
// fields is preserved; their values are stored as compact JSON.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, errors.Join(ErrInvalidManifest, err)
	}

	m := &Manifest{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}

	for dec.More() {
		key, raw, err := nextMember(dec)
		if err != nil {
			return nil, errors.Join(ErrInvalidManifest, err)
		}

		switch key {
		case "name":
			err = decodeString(raw, &m.Name)
		case "version":
			err = decodeString(raw, &m.Version)
		case "description":
			err = decodeString(raw, &m.Description)
		case "scripts":
			m.Scripts, err = decodeScripts(raw)
		case "dependencies":
			m.Dependencies, err = decodeDeps(raw)
		case "devDependencies":
			m.DevDependencies, err = decodeDeps(raw)
		default:
			var buf bytes.Buffer
			if err = json.Compact(&buf, raw); err == nil {
				m.SetField(key, buf.Bytes())
			}
		}
		if err != nil {
			return nil, errors.Join(ErrInvalidField, fmt.Errorf("%s: %w", key, err))
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, errors.Join(ErrInvalidManifest, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidManifest, errors.New("unexpected data after top-level object"))
	}

	return m, nil
}

// Encode renders m as canonical JSON text: two-space indentation, fixed key
// order (name, version, description, passthrough fields in order, scripts,
// dependencies, devDependencies), ordinal-sorted dependency keys and a single
// trailing newline.
func Encode(m *Manifest) ([]byte, error) {
	if m == nil {
		return nil, ErrNilManifest
	}

	w := &objectWriter{}
	w.open()

	w.stringMember("name", m.Name)
	if m.Version != "" {
		w.stringMember("version", m.Version)
	}
	w.stringMember("description", m.Description)

	for _, f := range m.Extra {
		if controlled[f.Key] {
			continue
		}
		w.rawMember(f.Key, f.Value)
	}

	w.key("scripts")
	w.stringObject(m.Scripts)
	w.key("dependencies")
	w.stringObject(sortedEntries(m.Dependencies))
	w.key("devDependencies")
	w.stringObject(sortedEntries(m.DevDependencies))

	w.close()
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// sortedEntries orders a dependency map by ordinal key comparison.
func sortedEntries(deps map[string]string) Scripts {
	keys := slices.Sorted(maps.Keys(deps))
	out := make(Scripts, 0, len(keys))
	for _, k := range keys {
		out = append(out, Script{Name: k, Command: deps[k]})
	}
	return out
}

// objectWriter emits a single top-level JSON object member by member.
type objectWriter struct {
	buf     bytes.Buffer
	members int
	err     error
}

func (w *objectWriter) open() {
	w.buf.WriteString("{")
}

func (w *objectWriter) close() {
	if w.members > 0 {
		w.buf.WriteString("\n")
	}
	w.buf.WriteString("}\n")
}

func (w *objectWriter) key(k string) {
	if w.members > 0 {
		w.buf.WriteString(",")
	}
	w.members++
	w.buf.WriteString("\n" + indent)
	w.quote(k)
	w.buf.WriteString(": ")
}

func (w *objectWriter) stringMember(k, v string) {
	w.key(k)
	w.quote(v)
}

func (w *objectWriter) rawMember(k string, v json.RawMessage) {
	w.key(k)
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		w.buf.WriteString("null")
		return
	}
	if err := json.Indent(&w.buf, v, indent, indent); err != nil && w.err == nil {
		w.err = errors.Join(ErrInvalidField, fmt.Errorf("%s: %w", k, err))
	}
}

func (w *objectWriter) stringObject(entries Scripts) {
	if len(entries) == 0 {
		w.buf.WriteString("{}")
		return
	}
	w.buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			w.buf.WriteString(",")
		}
		w.buf.WriteString("\n" + indent + indent)
		w.quote(e.Name)
		w.buf.WriteString(": ")
		w.quote(e.Command)
	}
	w.buf.WriteString("\n" + indent + "}")
}

// quote writes s as a JSON string. Invalid UTF-8 fails the encoding.
func (w *objectWriter) quote(s string) {
	if !utf8.ValidString(s) && w.err == nil {
		w.err = errors.Join(ErrInvalidField, fmt.Errorf("%q is not valid UTF-8", s))
	}
	w.buf.Write(quote(s))
}

// quote encodes s as a JSON string without HTML escaping, so shell operators
// such as "&&" in scripts stay readable.
func quote(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func nextMember(dec *json.Decoder) (string, json.RawMessage, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", nil, err
	}
	key, ok := tok.(string)
	if !ok {
		return "", nil, fmt.Errorf("expected object key, got %v", tok)
	}
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return "", nil, fmt.Errorf("%s: %w", key, err)
	}
	return key, raw, nil
}

func decodeString(raw json.RawMessage, dst *string) error {
	if isNull(raw) {
		*dst = ""
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func decodeDeps(raw json.RawMessage) (map[string]string, error) {
	deps := map[string]string{}
	if isNull(raw) {
		return deps, nil
	}
	if err := json.Unmarshal(raw, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

// decodeScripts reads the scripts object keeping key order.
func decodeScripts(raw json.RawMessage) (Scripts, error) {
	out := Scripts{}
	if isNull(raw) {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		name, value, err := nextMember(dec)
		if err != nil {
			return nil, err
		}
		var cmd string
		if err := json.Unmarshal(value, &cmd); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out.Set(name, cmd)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
