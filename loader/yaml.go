package loader

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YAMLLoader loads service definitions from a YAML file.
type YAMLLoader struct {
	*fileLoader
}

var _ Loader = &YAMLLoader{}

func NewYAMLLoader(path string, catalog *Catalog, opts ...Option) *YAMLLoader {
	return &YAMLLoader{newFileLoader(path, catalog, opts, decodeYAML)}
}

type yamlDocument struct {
	Services yaml.Node `yaml:"services"`
}

// UnmarshalYAML accepts a handler name in place of a full definition.
func (d *definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&d.Handler)
	}
	type plain definition
	return node.Decode((*plain)(d))
}

// decodeYAML walks the services mapping node to keep the document order.
func decodeYAML(data []byte) ([]definition, error) {
	var document yamlDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}

	services := document.Services
	if services.Kind == 0 || services.Tag == "!!null" {
		return nil, nil
	}
	if services.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: services should be a mapping", services.Line)
	}

	definitions := make([]definition, 0, len(services.Content)/2)
	for i := 0; i+1 < len(services.Content); i += 2 {
		key, value := services.Content[i], services.Content[i+1]
		var d definition
		if value.Tag != "!!null" {
			if err := value.Decode(&d); err != nil {
				return nil, errors.Wrapf(err, "service %q", key.Value)
			}
		}
		d.Name = key.Value
		definitions = append(definitions, d)
	}
	return definitions, nil
}
