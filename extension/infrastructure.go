// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package extension

import (
	"github.com/diffeo/go-occi/occi"
)

// InfrastructureName is the extension name of OCCI Infrastructure.
const InfrastructureName = "infrastructure"

// Schemes used by OCCI Infrastructure.
const (
	InfrastructureScheme = "http://schemas.ogf.org/occi/infrastructure#"
	ComputeActionScheme  = "http://schemas.ogf.org/occi/infrastructure/compute/action#"
	StorageActionScheme  = "http://schemas.ogf.org/occi/infrastructure/storage/action#"
	NetworkActionScheme  = "http://schemas.ogf.org/occi/infrastructure/network/action#"
	InterfaceMixinScheme = "http://schemas.ogf.org/occi/infrastructure/networkinterface#"
	NetworkMixinScheme   = "http://schemas.ogf.org/occi/infrastructure/network#"
)

// Identifiers of the infrastructure kinds.
const (
	ComputeKind          = InfrastructureScheme + "compute"
	StorageKind          = InfrastructureScheme + "storage"
	NetworkKind          = InfrastructureScheme + "network"
	NetworkInterfaceKind = InfrastructureScheme + "networkinterface"
	StorageLinkKind      = InfrastructureScheme + "storagelink"
)

// State attribute names, which the default connector maintains.
const (
	ComputeState          = "occi.compute.state"
	StorageState          = "occi.storage.state"
	NetworkState          = "occi.network.state"
	NetworkInterfaceState = "occi.networkinterface.state"
	StorageLinkState      = "occi.storagelink.state"
)

func action(scheme, term, title string, attrs ...occi.AttributeDef) occi.Category {
	return occi.Category{
		Scheme:     scheme,
		Term:       term,
		Class:      occi.ClassAction,
		Title:      title,
		Attributes: attrs,
	}
}

// Infrastructure returns the OCCI Infrastructure extension: compute,
// storage, and network resources, their links, actions, and mixins.
func Infrastructure() Extension {
	inactive := occi.String("inactive")
	offline := occi.String("offline")
	return Extension{
		Name: InfrastructureName,
		Categories: []occi.Category{
			{
				Scheme:   InfrastructureScheme,
				Term:     "compute",
				Class:    occi.ClassKind,
				Title:    "Compute Resource",
				Parent:   occi.ResourceKind,
				Location: "/compute/",
				Attributes: []occi.AttributeDef{
					attr("occi.compute.architecture", "Architecture"),
					attr("occi.compute.cores", "integer"),
					attr("occi.compute.hostname", "string"),
					attr("occi.compute.share", "integer"),
					attr("occi.compute.speed", "float"),
					attr("occi.compute.memory", "float"),
					withDefault(attr(ComputeState, "ComputeStatus"), inactive),
					attr("occi.compute.state.message", "string"),
				},
				Actions: []string{
					ComputeActionScheme + "start",
					ComputeActionScheme + "stop",
					ComputeActionScheme + "restart",
					ComputeActionScheme + "suspend",
					ComputeActionScheme + "save",
				},
			},
			action(ComputeActionScheme, "start", "Start the system"),
			action(ComputeActionScheme, "stop", "Stop the system",
				attr("method", "StopMethod")),
			action(ComputeActionScheme, "restart", "Restart the system",
				attr("method", "RestartMethod")),
			action(ComputeActionScheme, "suspend", "Suspend the system",
				attr("method", "SuspendMethod")),
			action(ComputeActionScheme, "save", "Save the system",
				attr("method", "SaveMethod"), attr("name", "string")),
			{
				Scheme:   InfrastructureScheme,
				Term:     "storage",
				Class:    occi.ClassKind,
				Title:    "Storage Resource",
				Parent:   occi.ResourceKind,
				Location: "/storage/",
				Attributes: []occi.AttributeDef{
					attr("occi.storage.size", "float"),
					withDefault(attr(StorageState, "StorageStatus"), offline),
					attr("occi.storage.state.message", "string"),
				},
				Actions: []string{
					StorageActionScheme + "online",
					StorageActionScheme + "offline",
					StorageActionScheme + "backup",
					StorageActionScheme + "snapshot",
					StorageActionScheme + "resize",
				},
			},
			action(StorageActionScheme, "online", "Set storage online"),
			action(StorageActionScheme, "offline", "Set storage offline"),
			action(StorageActionScheme, "backup", "Back up storage"),
			action(StorageActionScheme, "snapshot", "Snapshot storage"),
			action(StorageActionScheme, "resize", "Resize storage",
				attr("size", "float")),
			{
				Scheme:   InfrastructureScheme,
				Term:     "network",
				Class:    occi.ClassKind,
				Title:    "Network Resource",
				Parent:   occi.ResourceKind,
				Location: "/network/",
				Attributes: []occi.AttributeDef{
					attr("occi.network.vlan", "integer"),
					attr("occi.network.label", "string"),
					withDefault(attr(NetworkState, "NetworkStatus"), inactive),
					attr("occi.network.state.message", "string"),
				},
				Actions: []string{
					NetworkActionScheme + "up",
					NetworkActionScheme + "down",
				},
			},
			action(NetworkActionScheme, "up", "Activate network"),
			action(NetworkActionScheme, "down", "Deactivate network"),
			{
				Scheme:   InfrastructureScheme,
				Term:     "networkinterface",
				Class:    occi.ClassKind,
				Title:    "Network Interface",
				Parent:   occi.LinkKind,
				Location: "/networkinterface/",
				Attributes: []occi.AttributeDef{
					attr("occi.networkinterface.interface", "string"),
					attr("occi.networkinterface.mac", "string"),
					withDefault(attr(NetworkInterfaceState, "NetworkInterfaceStatus"), inactive),
				},
			},
			{
				Scheme:   InfrastructureScheme,
				Term:     "storagelink",
				Class:    occi.ClassKind,
				Title:    "Storage Link",
				Parent:   occi.LinkKind,
				Location: "/storagelink/",
				Attributes: []occi.AttributeDef{
					attr("occi.storagelink.deviceid", "string"),
					attr("occi.storagelink.mountpoint", "string"),
					withDefault(attr(StorageLinkState, "StorageLinkStatus"), inactive),
				},
			},
			{
				Scheme:   NetworkMixinScheme,
				Term:     "ipnetwork",
				Class:    occi.ClassMixin,
				Title:    "IP Networking Mixin",
				Location: "/ipnetwork/",
				Applies:  []string{NetworkKind},
				Attributes: []occi.AttributeDef{
					attr("occi.network.address", "string"),
					attr("occi.network.gateway", "string"),
					attr("occi.network.allocation", "Allocation"),
				},
			},
			{
				Scheme:   InterfaceMixinScheme,
				Term:     "ipnetworkinterface",
				Class:    occi.ClassMixin,
				Title:    "IP Network Interface Mixin",
				Location: "/ipnetworkinterface/",
				Applies:  []string{NetworkInterfaceKind},
				Attributes: []occi.AttributeDef{
					attr("occi.networkinterface.address", "string"),
					attr("occi.networkinterface.gateway", "string"),
					attr("occi.networkinterface.allocation", "Allocation"),
				},
			},
			{
				Scheme:   InfrastructureScheme,
				Term:     "os_tpl",
				Class:    occi.ClassMixin,
				Title:    "OS Template",
				Location: "/os_tpl/",
				Applies:  []string{ComputeKind},
			},
			{
				Scheme:   InfrastructureScheme,
				Term:     "resource_tpl",
				Class:    occi.ClassMixin,
				Title:    "Resource Template",
				Location: "/resource_tpl/",
				Applies:  []string{ComputeKind},
			},
		},
	}
}
