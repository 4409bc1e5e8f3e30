// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package connector

import (
	"github.com/diffeo/go-occi/extension"
	"github.com/diffeo/go-occi/occi"
)

// SetState returns a handler that sets one attribute to a fixed value
// and clears the matching ".message" attribute.
func SetState(attribute, state string) Handler {
	return func(inv Invocation) (occi.Entity, error) {
		var attrs occi.Attributes
		attrs.Set(attribute, occi.String(state))
		attrs.Set(attribute+".message", occi.String(""))
		return inv.Catalog.UpdateEntity(inv.Context, occi.Entity{
			ID:         inv.Entity.ID,
			Attributes: attrs,
		})
	}
}

// resize sets the storage size from the action's size parameter.
func resize(inv Invocation) (occi.Entity, error) {
	size, ok := inv.Attributes.Get("size")
	if !ok {
		return inv.Entity, occi.ErrInvalidAttribute{Name: "size", Reason: "is required"}
	}
	var attrs occi.Attributes
	attrs.Set("occi.storage.size", size)
	return inv.Catalog.UpdateEntity(inv.Context, occi.Entity{
		ID:         inv.Entity.ID,
		Attributes: attrs,
	})
}

// Infrastructure returns a registry that handles the OCCI
// Infrastructure actions which only change state.  Compute save,
// and storage backup and snapshot, are left unimplemented.
func Infrastructure() *Registry {
	r := NewRegistry()
	compute := map[string]string{
		"start":   "active",
		"stop":    "inactive",
		"restart": "active",
		"suspend": "suspended",
	}
	for _, term := range []string{"start", "stop", "restart", "suspend"} {
		r.Register(extension.ComputeKind, extension.ComputeActionScheme+term,
			SetState(extension.ComputeState, compute[term]))
	}
	r.Register(extension.StorageKind, extension.StorageActionScheme+"online",
		SetState(extension.StorageState, "online"))
	r.Register(extension.StorageKind, extension.StorageActionScheme+"offline",
		SetState(extension.StorageState, "offline"))
	r.Register(extension.StorageKind, extension.StorageActionScheme+"resize", resize)
	r.Register(extension.NetworkKind, extension.NetworkActionScheme+"up",
		SetState(extension.NetworkState, "active"))
	r.Register(extension.NetworkKind, extension.NetworkActionScheme+"down",
		SetState(extension.NetworkState, "inactive"))
	return r
}
