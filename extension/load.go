// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package extension

// This file loads extensions from YAML.  A definition looks like
//
//     name: example
//     scheme: http://example.com/occi#
//     kinds:
//       - term: vm
//         title: Virtual machine
//         parent: http://schemas.ogf.org/occi/infrastructure#compute
//         location: /vm/
//         attributes:
//           - name: example.vm.flavor
//             type: string
//             default: small
//         actions:
//           - http://example.com/occi/vm/action#rebuild
//     mixins:
//       - term: gpu
//         applies: [http://example.com/occi#vm]
//     actions:
//       - term: rebuild
//         scheme: http://example.com/occi/vm/action#
//
// A category without its own scheme uses the extension's.

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/diffeo/go-occi/occi"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// ErrNoExtensionName is returned from Load if the definition has no
// name.
var ErrNoExtensionName = errors.New("Extension definition has no 'name'")

type attributeSpec struct {
	Name        string
	Type        string
	Required    bool
	Immutable   bool
	Default     interface{}
	Description string
}

type categorySpec struct {
	Scheme     string
	Term       string
	Title      string
	Parent     string
	Depends    []string
	Applies    []string
	Location   string
	Attributes []attributeSpec
	Actions    []string
}

type extensionSpec struct {
	Name    string
	Scheme  string
	Kinds   []categorySpec
	Mixins  []categorySpec
	Actions []categorySpec
}

// Load reads one YAML extension definition.
func Load(r io.Reader) (Extension, error) {
	var ext Extension
	bytes, err := ioutil.ReadAll(r)
	if err != nil {
		return ext, err
	}
	var raw map[string]interface{}
	if err = yaml.Unmarshal(bytes, &raw); err != nil {
		return ext, err
	}
	var spec extensionSpec
	config := mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &spec,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(raw)
	}
	if err != nil {
		return ext, err
	}
	if spec.Name == "" {
		return ext, ErrNoExtensionName
	}
	ext.Name = spec.Name
	groups := []struct {
		class occi.Class
		specs []categorySpec
	}{
		{occi.ClassKind, spec.Kinds},
		{occi.ClassMixin, spec.Mixins},
		{occi.ClassAction, spec.Actions},
	}
	for _, group := range groups {
		for _, cs := range group.specs {
			cat, err := cs.category(spec.Scheme, group.class)
			if err != nil {
				return ext, err
			}
			cat.Extension = spec.Name
			ext.Categories = append(ext.Categories, cat)
		}
	}
	return ext, nil
}

// LoadFile reads a YAML extension definition from a file.
func LoadFile(filename string) (Extension, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Extension{}, err
	}
	defer f.Close()
	return Load(f)
}

func (cs categorySpec) category(scheme string, class occi.Class) (occi.Category, error) {
	if cs.Scheme != "" {
		scheme = cs.Scheme
	}
	cat := occi.Category{
		Scheme:   scheme,
		Term:     cs.Term,
		Class:    class,
		Title:    cs.Title,
		Parent:   cs.Parent,
		Depends:  cs.Depends,
		Applies:  cs.Applies,
		Location: cs.Location,
		Actions:  cs.Actions,
	}
	if cat.Scheme == "" || cat.Term == "" {
		return cat, fmt.Errorf("%v %q needs a scheme and a term", class, cs.Term)
	}
	if class == occi.ClassKind && cat.Parent == "" {
		cat.Parent = occi.ResourceKind
	}
	for _, as := range cs.Attributes {
		def := occi.AttributeDef{
			Name:        as.Name,
			Type:        as.Type,
			Required:    as.Required,
			Immutable:   as.Immutable,
			Description: as.Description,
		}
		if def.Type == "" {
			def.Type = "string"
		}
		if as.Default != nil {
			v, err := occi.Coerce(def.Type, as.Default)
			if err != nil {
				return cat, fmt.Errorf("attribute %v: %v", as.Name, err)
			}
			def.Default = &v
		}
		cat.Attributes = append(cat.Attributes, def)
	}
	return cat, nil
}
