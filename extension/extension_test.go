// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package extension_test

import (
	"strings"
	"testing"

	"github.com/diffeo/go-occi/extension"
	"github.com/diffeo/go-occi/memory"
	"github.com/diffeo/go-occi/occi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleYAML = `
name: example
scheme: http://example.com/occi#
kinds:
  - term: vm
    title: Virtual machine
    parent: http://schemas.ogf.org/occi/infrastructure#compute
    location: /vm/
    attributes:
      - name: example.vm.flavor
        default: small
      - name: example.vm.disks
        type: integer
        default: "2"
        required: true
    actions:
      - http://example.com/occi/vm/action#rebuild
  - term: appliance
mixins:
  - term: gpu
    applies: [http://example.com/occi#vm]
    location: /gpu/
actions:
  - term: rebuild
    scheme: http://example.com/occi/vm/action#
`

func TestStandard(t *testing.T) {
	c := memory.New()
	require.NoError(t, extension.Install(c, extension.Standard()...))

	entity, err := c.Category(occi.EntityKind)
	if assert.NoError(t, err) {
		assert.Equal(t, extension.CoreName, entity.Extension)
	}
	compute, err := c.Category(extension.ComputeKind)
	if assert.NoError(t, err) {
		assert.Equal(t, extension.InfrastructureName, compute.Extension)
		assert.Equal(t, occi.ResourceKind, compute.Parent)
		assert.Equal(t, "/compute/", compute.Location)
		assert.NotEmpty(t, compute.Actions)
	}
	for _, id := range compute.Actions {
		action, err := c.Category(id)
		if assert.NoError(t, err, id) {
			assert.Equal(t, occi.ClassAction, action.Class)
		}
	}

	cats, err := c.Categories()
	if assert.NoError(t, err) && assert.NotEmpty(t, cats) {
		assert.Equal(t, occi.EntityKind, cats[0].ID())
	}
}

func TestLoad(t *testing.T) {
	ext, err := extension.Load(strings.NewReader(exampleYAML))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "example", ext.Name)
	if !assert.Len(t, ext.Categories, 4) {
		return
	}

	vm := ext.Categories[0]
	assert.Equal(t, "http://example.com/occi#vm", vm.ID())
	assert.Equal(t, occi.ClassKind, vm.Class)
	assert.Equal(t, "example", vm.Extension)
	if assert.Len(t, vm.Attributes, 2) {
		flavor := vm.Attributes[0]
		assert.Equal(t, "string", flavor.Type)
		if assert.NotNil(t, flavor.Default) {
			assert.Equal(t, occi.String("small"), *flavor.Default)
		}
		disks := vm.Attributes[1]
		assert.True(t, disks.Required)
		if assert.NotNil(t, disks.Default) {
			assert.Equal(t, occi.Number(2), *disks.Default)
		}
	}

	appliance := ext.Categories[1]
	assert.Equal(t, occi.ResourceKind, appliance.Parent)

	gpu := ext.Categories[2]
	assert.Equal(t, occi.ClassMixin, gpu.Class)
	assert.Equal(t, []string{"http://example.com/occi#vm"}, gpu.Applies)

	rebuild := ext.Categories[3]
	assert.Equal(t, occi.ClassAction, rebuild.Class)
	assert.Equal(t, "http://example.com/occi/vm/action#rebuild", rebuild.ID())

	c := memory.New()
	require.NoError(t, extension.Install(c, append(extension.Standard(), ext)...))
	ancestors := occi.Ancestors(c, vm.ID())
	assert.Contains(t, ancestors, extension.ComputeKind)
}

func TestLoadErrors(t *testing.T) {
	for _, test := range []struct {
		Name string
		YAML string
	}{
		{"no name", "scheme: http://x#\n"},
		{"no scheme", "name: x\nkinds:\n  - term: k\n"},
		{"unknown field", "name: x\ncolour: blue\n"},
		{"bad default", "name: x\nscheme: http://x#\nkinds:\n  - term: k\n    attributes:\n      - name: a\n        type: integer\n        default: many\n"},
		{"not yaml", "name: [x\n"},
	} {
		_, err := extension.Load(strings.NewReader(test.YAML))
		assert.Error(t, err, test.Name)
	}

	_, err := extension.Load(strings.NewReader("scheme: http://x#\n"))
	assert.Equal(t, extension.ErrNoExtensionName, err)

	_, err = extension.LoadFile("/nonexistent/extension.yaml")
	assert.Error(t, err)
}
