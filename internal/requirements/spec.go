package requirements

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// FieldSpec describes one input required or accepted by a model configuration.
// Immutable once loaded.
type FieldSpec struct {
	FieldName   string `json:"field_name"   mapstructure:"-"`
	DisplayName string `json:"display_name" mapstructure:"display_name"`
	Mandatory   bool   `json:"mandatory"    mapstructure:"mandatory"`
	FieldType   string `json:"field_type"   mapstructure:"field_type"`
	Context     string `json:"context,omitempty" mapstructure:"context"`
	Example     string `json:"example,omitempty" mapstructure:"example"`
}

// RequirementSet is the field schema for exactly one configuration.
// Fields keep the document's declaration order.
type RequirementSet struct {
	Key    string
	Fields []FieldSpec
}

// Field returns the spec for a field name.
func (s RequirementSet) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.FieldName == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Len returns the number of fields in the set.
func (s RequirementSet) Len() int {
	return len(s.Fields)
}

// Document is a parsed schema document: lookup key -> requirement set,
// preserving key declaration order.
type Document struct {
	keys []string
	sets map[string]RequirementSet
}

// Keys returns all lookup keys in declaration order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Set returns the requirement set stored under the lookup key.
func (d *Document) Set(key string) (RequirementSet, bool) {
	set, ok := d.sets[key]
	return set, ok
}

func (d *Document) add(key string, set RequirementSet) {
	if _, dup := d.sets[key]; !dup {
		d.keys = append(d.keys, key)
	}
	d.sets[key] = set
}

// decodeFieldSpec maps one raw field entry onto a FieldSpec. A textual
// mandatory attribute ("true"/"True"/"TRUE") is coerced to a boolean here;
// any other string maps to false.
func decodeFieldSpec(name string, raw map[string]any) (FieldSpec, error) {
	spec := FieldSpec{FieldName: name}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(coerceTextualBool),
		Result:     &spec,
	})
	if err != nil {
		return FieldSpec{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return FieldSpec{}, fmt.Errorf("field %q: %w", name, err)
	}
	return spec, nil
}

func coerceTextualBool(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.Bool {
		return strings.EqualFold(data.(string), "true"), nil
	}
	return data, nil
}

func parseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	doc := &Document{sets: map[string]RequirementSet{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)
		set, err := parseJSONSet(dec, key)
		if err != nil {
			return nil, err
		}
		doc.add(key, set)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("trailing data after document: %v", tok)
	}
	return doc, nil
}

func parseJSONSet(dec *json.Decoder, key string) (RequirementSet, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return RequirementSet{}, fmt.Errorf("section %q: %w", key, err)
	}
	set := RequirementSet{Key: key}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return RequirementSet{}, err
		}
		name := tok.(string)
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return RequirementSet{}, fmt.Errorf("section %q, field %q: %w", key, name, err)
		}
		spec, err := decodeFieldSpec(name, raw)
		if err != nil {
			return RequirementSet{}, fmt.Errorf("section %q: %w", key, err)
		}
		set.Fields = append(set.Fields, spec)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return RequirementSet{}, err
	}
	return set, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("unexpected end of document")
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func parseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root must be a mapping")
	}
	doc := &Document{sets: map[string]RequirementSet{}}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		section := top.Content[i+1]
		if section.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("section %q must be a mapping", key)
		}
		set := RequirementSet{Key: key}
		for j := 0; j+1 < len(section.Content); j += 2 {
			name := section.Content[j].Value
			var raw map[string]any
			if err := section.Content[j+1].Decode(&raw); err != nil {
				return nil, fmt.Errorf("section %q, field %q: %w", key, name, err)
			}
			spec, err := decodeFieldSpec(name, raw)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", key, err)
			}
			set.Fields = append(set.Fields, spec)
		}
		doc.add(key, set)
	}
	return doc, nil
}
