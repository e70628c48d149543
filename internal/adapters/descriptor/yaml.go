package descriptor

import (
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// yamlFile represents the structure of a YAML descriptor.
type yamlFile struct {
	Classes map[string]yamlClass `yaml:"classes"`
}

type yamlClass struct {
	Since      yamlLevel             `yaml:"since"`
	Deprecated yamlLevel             `yaml:"deprecated"`
	Removed    yamlLevel             `yaml:"removed"`
	Extends    yamlEdge              `yaml:"extends"`
	Implements map[string]yamlLevel  `yaml:"implements"`
	Fields     map[string]yamlMember `yaml:"fields"`
	Methods    map[string]yamlMember `yaml:"methods"`
}

// yamlLevel accepts levels written as integers, floats or strings.
type yamlLevel domain.APILevel

func (l *yamlLevel) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return zerr.With(domain.ErrDescriptorInvalid, "line", node.Line)
	}
	level, err := parseLevel(node.Value)
	if err != nil {
		return zerr.With(err, "line", node.Line)
	}
	*l = yamlLevel(level)
	return nil
}

// yamlEdge is either a bare class name or a mapping with name and since.
type yamlEdge struct {
	Name  string    `yaml:"name"`
	Since yamlLevel `yaml:"since"`
}

func (e *yamlEdge) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Name = node.Value
		return nil
	}
	type plain yamlEdge
	return node.Decode((*plain)(e))
}

// yamlMember is either a bare level or a mapping with since, deprecated and removed.
type yamlMember struct {
	Since      yamlLevel `yaml:"since"`
	Deprecated yamlLevel `yaml:"deprecated"`
	Removed    yamlLevel `yaml:"removed"`
}

func (m *yamlMember) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return m.Since.UnmarshalYAML(node)
	}
	type plain yamlMember
	return node.Decode((*plain)(m))
}

func decodeYAML(data []byte) ([]domain.ClassEntry, error) {
	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrDescriptorInvalid.Error())
	}

	classes := make([]domain.ClassEntry, 0, len(file.Classes))
	for name, dto := range file.Classes {
		if name == "" {
			return nil, zerr.Wrap(domain.ErrDescriptorInvalid, "class without name")
		}
		c := domain.ClassEntry{
			Name:       domain.InternalName(name),
			Since:      domain.APILevel(dto.Since),
			Deprecated: domain.APILevel(dto.Deprecated),
			Removed:    domain.APILevel(dto.Removed),
		}
		if c.Since == domain.NoLevel {
			c.Since = 1
		}
		if dto.Extends.Name != "" {
			c.Superclass = domain.Edge{
				Name:  domain.InternalName(dto.Extends.Name),
				Since: domain.APILevel(dto.Extends.Since),
			}
		}
		for iface, since := range dto.Implements {
			c.Interfaces = append(c.Interfaces, domain.Edge{
				Name:  domain.InternalName(iface),
				Since: domain.APILevel(since),
			})
		}
		for field, m := range dto.Fields {
			c.Members = append(c.Members, m.entry(field))
		}
		for method, m := range dto.Methods {
			c.Members = append(c.Members, m.entry(domain.NormalizeMethodKey(method)))
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func (m yamlMember) entry(key string) domain.MemberEntry {
	return domain.MemberEntry{
		Key:        key,
		Since:      domain.APILevel(m.Since),
		Deprecated: domain.APILevel(m.Deprecated),
		Removed:    domain.APILevel(m.Removed),
	}
}
