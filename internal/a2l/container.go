package a2l

import "github.com/christoph2/a2lgo/internal/token"

// ValueContainer is one parsed keyword instance: its name, its ordered
// parameter values, its ordered child containers, its repeated-values list
// (populated by a trailing repeating-simple or tuple parameter), and,
// for an IF_DATA container, the raw text preserved by the IF_DATA store.
type ValueContainer struct {
	Name           string
	Parameters     []Param
	Children       []*ValueContainer
	RepeatedValues [][]Value
	IfData         []byte
	Span           token.Span
}

// ParamByName returns the first recorded parameter value with the given
// name, and whether one was found.
func (c *ValueContainer) ParamByName(name string) (Value, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// ChildrenByName returns every direct child container whose Name matches.
func (c *ValueContainer) ChildrenByName(name string) []*ValueContainer {
	var out []*ValueContainer
	for _, ch := range c.Children {
		if ch.Name == name {
			out = append(out, ch)
		}
	}
	return out
}
