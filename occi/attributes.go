// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

// Attribute is one name/value pair in an Attributes bag.
type Attribute struct {
	Name  string
	Value Value
}

// Attributes is an ordered attribute bag.  Setting an existing name
// replaces its value in place; new names are appended.  The zero value
// is an empty bag ready to use.
type Attributes struct {
	list []Attribute
}

// NewAttributes builds a bag from name/value pairs, in order.
func NewAttributes(attrs ...Attribute) Attributes {
	var a Attributes
	for _, attr := range attrs {
		a.Set(attr.Name, attr.Value)
	}
	return a
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.list)
}

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (Value, bool) {
	for _, attr := range a.list {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return Value{}, false
}

// GetString returns the text of the named attribute, or "" if it is
// absent.
func (a Attributes) GetString(name string) string {
	if v, ok := a.Get(name); ok {
		return v.Text()
	}
	return ""
}

// Set adds or replaces an attribute.
func (a *Attributes) Set(name string, value Value) {
	for i := range a.list {
		if a.list[i].Name == name {
			a.list[i].Value = value
			return
		}
	}
	a.list = append(a.list, Attribute{Name: name, Value: value})
}

// Delete removes an attribute if present.
func (a *Attributes) Delete(name string) {
	for i := range a.list {
		if a.list[i].Name == name {
			a.list = append(a.list[:i], a.list[i+1:]...)
			return
		}
	}
}

// Names returns the attribute names in order.
func (a Attributes) Names() []string {
	names := make([]string, len(a.list))
	for i, attr := range a.list {
		names[i] = attr.Name
	}
	return names
}

// List returns a copy of the attributes in order.
func (a Attributes) List() []Attribute {
	return append([]Attribute(nil), a.list...)
}

// Clone returns an independent copy of the bag.
func (a Attributes) Clone() Attributes {
	return Attributes{list: a.List()}
}

// Merge sets every attribute of other into a, in other's order.
func (a *Attributes) Merge(other Attributes) {
	for _, attr := range other.list {
		a.Set(attr.Name, attr.Value)
	}
}

// Map returns the attributes as a map of plain Go values, losing
// order.  See Value.Interface.
func (a Attributes) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(a.list))
	for _, attr := range a.list {
		m[attr.Name] = attr.Value.Interface()
	}
	return m
}
