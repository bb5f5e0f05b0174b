package dataset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Values holds the value(s) an entity takes for one category. In a dataset
// file it may be written as a single scalar or as a list.
type Values []string

// UnmarshalYAML accepts a scalar, a sequence of scalars, or null.
func (v *Values) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = nil
			return nil
		}

		*v = Values{node.Value}

		return nil
	case yaml.SequenceNode:
		out := make(Values, 0, len(node.Content))

		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: attribute list items must be scalars", item.Line)
			}

			out = append(out, item.Value)
		}

		*v = out

		return nil
	default:
		return fmt.Errorf("line %d: attribute values must be a scalar or a list", node.Line)
	}
}

// Entity is a single record being filtered, typically a sample.
type Entity struct {
	// Name identifies the entity and is the value it takes for the identity
	// category.
	Name string `yaml:"name" json:"name"`
	// HasChildren marks internal (non-leaf) entities such as tree branches.
	// They are kept for evaluation but never counted or offered as options.
	HasChildren bool `yaml:"hasChildren,omitempty" json:"hasChildren,omitempty"`
	// Attributes maps a category name to the values the entity takes.
	Attributes map[string]Values `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Leaf reports whether the entity has no children.
func (e *Entity) Leaf() bool {
	return !e.HasChildren
}

// ValuesFor returns the values e takes for category. For the identity
// category the entity's own name is returned.
func (e *Entity) ValuesFor(category, identity string) []string {
	if category == identity {
		return []string{e.Name}
	}

	return e.Attributes[category]
}
