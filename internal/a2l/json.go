package a2l

import (
	"encoding/json"
	"fmt"
	"io"
)

// Grounded on the teacher's internal/serialization package: a private
// serialized* struct family with a Kind-tagged value type, mirroring
// serializedValue{Kind, Value} over graph.Value{Kind, I, F, S, B}.

type serializedValue struct {
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
}

type serializedParam struct {
	Name  string          `json:"name"`
	Value serializedValue `json:"value"`
}

type serializedContainer struct {
	Name           string                `json:"name"`
	Parameters     []serializedParam     `json:"parameters,omitempty"`
	Children       []serializedContainer `json:"children,omitempty"`
	RepeatedValues [][]serializedValue   `json:"repeatedValues,omitempty"`
	IfData         string                `json:"ifData,omitempty"`
}

func marshalValue(v Value) serializedValue {
	switch v.Kind {
	case KindInt:
		return serializedValue{Kind: "int", Value: v.I}
	case KindUInt:
		return serializedValue{Kind: "uint", Value: v.U}
	case KindFloat:
		return serializedValue{Kind: "float", Value: v.F}
	case KindString:
		return serializedValue{Kind: "string", Value: v.S}
	default:
		return serializedValue{Kind: "unknown"}
	}
}

func unmarshalValue(sv serializedValue) (Value, error) {
	switch sv.Kind {
	case "int":
		f, ok := sv.Value.(float64)
		if !ok {
			return Value{}, fmt.Errorf("expected number for int, got %T", sv.Value)
		}
		return Value{Kind: KindInt, I: int64(f)}, nil
	case "uint":
		f, ok := sv.Value.(float64)
		if !ok {
			return Value{}, fmt.Errorf("expected number for uint, got %T", sv.Value)
		}
		return Value{Kind: KindUInt, U: uint64(f)}, nil
	case "float":
		f, ok := sv.Value.(float64)
		if !ok {
			return Value{}, fmt.Errorf("expected number for float, got %T", sv.Value)
		}
		return Value{Kind: KindFloat, F: f}, nil
	case "string":
		s, ok := sv.Value.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected string, got %T", sv.Value)
		}
		return Value{Kind: KindString, S: s}, nil
	default:
		return Value{}, fmt.Errorf("unknown serialized value kind %q", sv.Kind)
	}
}

func toSerializedContainer(c *ValueContainer) serializedContainer {
	sc := serializedContainer{Name: c.Name, IfData: string(c.IfData)}

	for _, p := range c.Parameters {
		sc.Parameters = append(sc.Parameters, serializedParam{Name: p.Name, Value: marshalValue(p.Value)})
	}
	for _, child := range c.Children {
		sc.Children = append(sc.Children, toSerializedContainer(child))
	}
	for _, row := range c.RepeatedValues {
		sRow := make([]serializedValue, 0, len(row))
		for _, v := range row {
			sRow = append(sRow, marshalValue(v))
		}
		sc.RepeatedValues = append(sc.RepeatedValues, sRow)
	}
	return sc
}

func fromSerializedContainer(sc serializedContainer) (*ValueContainer, error) {
	c := &ValueContainer{Name: sc.Name, IfData: []byte(sc.IfData)}

	for _, sp := range sc.Parameters {
		v, err := unmarshalValue(sp.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", sp.Name, err)
		}
		c.Parameters = append(c.Parameters, Param{Name: sp.Name, Value: v})
	}
	for _, schild := range sc.Children {
		child, err := fromSerializedContainer(schild)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, child)
	}
	for _, sRow := range sc.RepeatedValues {
		row := make([]Value, 0, len(sRow))
		for _, sv := range sRow {
			v, err := unmarshalValue(sv)
			if err != nil {
				return nil, fmt.Errorf("repeated value: %w", err)
			}
			row = append(row, v)
		}
		c.RepeatedValues = append(c.RepeatedValues, row)
	}
	return c, nil
}

// WriteJSON encodes a ValueContainer tree to JSON and writes it to w.
func WriteJSON(c *ValueContainer, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toSerializedContainer(c))
}

// ReadJSON decodes a ValueContainer tree from JSON read from r.
func ReadJSON(r io.Reader) (*ValueContainer, error) {
	var sc serializedContainer
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, fmt.Errorf("decoding container JSON: %w", err)
	}
	return fromSerializedContainer(sc)
}
