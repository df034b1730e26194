package jsonvalue

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/obegron/ipscope/internal/errors"
)

// ParseYAML decodes the first YAML document in data, keeping mapping order.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Value{}, errors.ErrEmptyInput
	}
	d := &yamlDecoder{budget: aliasBudget(&doc)}
	return d.fromNode(&doc, 0)
}

// minYAMLBudget is the smallest value budget a document gets, however short.
const minYAMLBudget = 10000

// yamlDecoder converts nodes while charging every produced value against a
// budget, so that repeated alias expansion cannot grow without bound.
type yamlDecoder struct {
	budget int
}

// aliasBudget allows a document ten times as many values as it has nodes.
func aliasBudget(doc *yaml.Node) int {
	return max(minYAMLBudget, 10*countNodes(doc))
}

func countNodes(n *yaml.Node) int {
	total := 1
	for _, c := range n.Content {
		total += countNodes(c)
	}
	return total
}

// ParseAny tries JSON first and falls back to YAML.
func ParseAny(data []byte) (Value, error) {
	v, err := Parse(data)
	if err == nil {
		return v, nil
	}
	if yv, yerr := ParseYAML(data); yerr == nil {
		return yv, nil
	}
	return Value{}, err
}

func (d *yamlDecoder) fromNode(n *yaml.Node, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, fmt.Errorf("%w: more than %d levels", errors.ErrTooDeep, MaxDepth)
	}
	if n.Kind != yaml.DocumentNode && n.Kind != yaml.AliasNode {
		d.budget--
		if d.budget < 0 {
			return Value{}, fmt.Errorf("%w: excessive aliasing at line %d", errors.ErrInvalidJSON, n.Line)
		}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewNull(), nil
		}
		return d.fromNode(n.Content[0], depth)

	case yaml.AliasNode:
		return d.fromNode(n.Alias, depth+1)

	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := d.fromNode(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return NewArray(items...), nil

	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := d.fromNode(n.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: n.Content[i].Value, Value: val})
		}
		return NewObject(members...), nil

	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return Value{}, fmt.Errorf("%w: unsupported YAML node at line %d", errors.ErrInvalidJSON, n.Line)
}

func fromScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return NewBool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return NewNumber(f), nil
	}
	return NewString(n.Value), nil
}
