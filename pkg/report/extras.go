package report

import "iter"

// Extra is one free-text annotation shown in the Extras block.
type Extra struct {
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Extras is a string map that iterates in first-insertion order.
// Overwriting a key keeps its original position.
type Extras struct {
	keys   []string
	values map[string]string
}

// NewExtras returns an empty Extras.
func NewExtras() *Extras {
	return &Extras{values: make(map[string]string)}
}

// Set adds or overwrites name.
func (e *Extras) Set(name, value string) {
	if _, ok := e.values[name]; !ok {
		e.keys = append(e.keys, name)
	}

	e.values[name] = value
}

// Get returns the value stored under name.
func (e *Extras) Get(name string) (string, bool) {
	v, ok := e.values[name]

	return v, ok
}

// Len returns the number of distinct keys.
func (e *Extras) Len() int {
	return len(e.keys)
}

// All iterates name/value pairs in insertion order.
func (e *Extras) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range e.keys {
			if !yield(k, e.values[k]) {
				return
			}
		}
	}
}

// Slice returns a snapshot of the pairs in insertion order.
func (e *Extras) Slice() []Extra {
	out := make([]Extra, 0, len(e.keys))
	for k, v := range e.All() {
		out = append(out, Extra{Name: k, Value: v})
	}

	return out
}

// Clone returns an independent copy.
func (e *Extras) Clone() *Extras {
	c := &Extras{
		keys:   append([]string(nil), e.keys...),
		values: make(map[string]string, len(e.values)),
	}

	for k, v := range e.values {
		c.values[k] = v
	}

	return c
}
