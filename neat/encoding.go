package neat

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Encoding turns records into a byte stream and back. JSON and YAML are provided;
// any structured format with the same record shape can be plugged in.
type Encoding interface {
	Encode(w io.Writer, v any) error
	Decode(r io.Reader, v any) error
}

var (
	// JSON encodes records as a single JSON document.
	JSON Encoding = jsonEncoding{}
	// YAML encodes records as a single YAML document.
	YAML Encoding = yamlEncoding{}
)

type jsonEncoding struct{}

func (jsonEncoding) Encode(w io.Writer, v any) error { return json.NewEncoder(w).Encode(v) }
func (jsonEncoding) Decode(r io.Reader, v any) error { return json.NewDecoder(r).Decode(v) }

type yamlEncoding struct{}

func (yamlEncoding) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlEncoding) Decode(r io.Reader, v any) error { return yaml.NewDecoder(r).Decode(v) }
