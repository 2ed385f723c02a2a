package jsonv

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// cborMode encodes with Core Deterministic Encoding: map keys are sorted
// by their encoded form, so object insertion order does not survive.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("jsonv: CBOR encoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR encodes v as deterministic CBOR.
func MarshalCBOR(v Value) ([]byte, error) {
	out, err := cborMode.Marshal(ToAny(v))
	if err != nil {
		return nil, fmt.Errorf("jsonv: cbor: %w", err)
	}
	return out, nil
}

// YAMLNode converts v into a yaml.v3 node tree. Mapping nodes keep object
// key order.
func YAMLNode(v Value) *yaml.Node {
	switch x := v.(type) {
	case Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, el := range x {
			n.Content = append(n.Content, YAMLNode(el))
		}
		return n
	case Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range x.members {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				YAMLNode(m.Value))
		}
		return n
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(x)}
	case Number:
		lit := Literal(x)
		if lit == "null" {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		tag := "!!float"
		if f := float64(x); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: lit}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: Literal(x)}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// MarshalYAML encodes v as a YAML document.
func MarshalYAML(v Value) ([]byte, error) {
	out, err := yaml.Marshal(YAMLNode(v))
	if err != nil {
		return nil, fmt.Errorf("jsonv: yaml: %w", err)
	}
	return out, nil
}
