package config

import (
	"bytes"
	"errors"
	"io"
	"reflect"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// header keys are read by the document, never by a module kind
func isHeaderKey(key string) bool {
	return key == "id" || key == "enabled"
}

// strictDecode decodes YAML data into v, rejecting keys v does not declare
func strictDecode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// yamlBody returns a strict decoder for the module keys of a YAML entry
func yamlBody(node *yaml.Node) func(any) error {
	return func(v any) error {
		body := *node
		body.Content = nil
		for i := 0; i+1 < len(node.Content); i += 2 {
			if isHeaderKey(node.Content[i].Value) {
				continue
			}
			body.Content = append(body.Content, node.Content[i], node.Content[i+1])
		}

		data, err := yaml.Marshal(&body)
		if err != nil {
			return err
		}
		return strictDecode(data, v)
	}
}

// tomlBody returns a strict decoder for the module keys of a TOML entry.
// Module configs carry matching yaml and toml tags, so key names are checked
// with the YAML decoder against a scratch value before the TOML decode.
func tomlBody(md toml.MetaData, prim toml.Primitive) func(any) error {
	return func(v any) error {
		var raw map[string]any
		if err := md.PrimitiveDecode(prim, &raw); err != nil {
			return err
		}
		for key := range raw {
			if isHeaderKey(key) {
				delete(raw, key)
			}
		}

		if t := reflect.TypeOf(v); t != nil && t.Kind() == reflect.Pointer {
			data, err := yaml.Marshal(raw)
			if err != nil {
				return err
			}
			if err := strictDecode(data, reflect.New(t.Elem()).Interface()); err != nil {
				return err
			}
		}
		return md.PrimitiveDecode(prim, v)
	}
}
