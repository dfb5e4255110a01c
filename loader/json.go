package loader

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// JSONLoader loads service definitions from a JSON file.
type JSONLoader struct {
	*fileLoader
}

var _ Loader = &JSONLoader{}

func NewJSONLoader(path string, catalog *Catalog, opts ...Option) *JSONLoader {
	return &JSONLoader{newFileLoader(path, catalog, opts, decodeJSON)}
}

// UnmarshalJSON accepts a handler name in place of a full definition.
func (d *definition) UnmarshalJSON(data []byte) error {
	var handler string
	if err := json.Unmarshal(data, &handler); err == nil {
		d.Handler = handler
		return nil
	}
	type plain definition
	return json.Unmarshal(data, (*plain)(d))
}

// decodeJSON streams tokens so that services keep the document order, which a
// map would lose.
func decodeJSON(data []byte) ([]definition, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var definitions []definition
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key != "services" {
			var skipped json.RawMessage
			if err := dec.Decode(&skipped); err != nil {
				return nil, err
			}
			continue
		}
		if definitions, err = decodeJSONServices(dec); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Errorf("unexpected data after the top-level object at offset %d", dec.InputOffset())
	}
	return definitions, nil
}

// decodeJSONServices reads the services object, null meaning no services.
func decodeJSONServices(dec *json.Decoder) ([]definition, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	if token != json.Delim('{') {
		return nil, errors.Errorf("services should be an object, found %v", token)
	}
	var definitions []definition
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := token.(string)
		var d definition
		if err := dec.Decode(&d); err != nil {
			return nil, errors.Wrapf(err, "service %q", name)
		}
		d.Name = name
		definitions = append(definitions, d)
	}
	return definitions, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, delim json.Delim) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}
	if token != delim {
		return errors.Errorf("expected %q but found %v", delim, token)
	}
	return nil
}
