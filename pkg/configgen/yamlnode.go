package configgen

import "gopkg.in/yaml.v3"

// pair is one (key, value) entry in an ordered mapping node.
type pair struct {
	key   string
	value *yaml.Node
}

func kv(key string, value *yaml.Node) pair { return pair{key: key, value: value} }

// scalar builds a plain-style scalar node.
func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// mapping builds a YAML mapping node with the given pairs, preserving
// the order they were supplied in — unlike marshaling a plain Go map,
// whose keys yaml.v3 would otherwise sort alphabetically.
func mapping(pairs ...pair) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range pairs {
		n.Content = append(n.Content, scalar(p.key), p.value)
	}
	return n
}

// sequence builds a YAML sequence node from scalar string items.
func sequence(items ...string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		n.Content = append(n.Content, scalar(item))
	}
	return n
}

// sequenceOf builds a YAML sequence node from pre-built nodes.
func sequenceOf(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

func marshal(doc *yaml.Node) (string, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
