// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package extension

import (
	"github.com/diffeo/go-occi/occi"
)

// CoreName is the extension name of OCCI Core.
const CoreName = "core"

// Core returns the OCCI Core extension: the entity, resource, and link
// kinds.
func Core() Extension {
	return Extension{
		Name: CoreName,
		Categories: []occi.Category{
			{
				Scheme:   occi.CoreScheme,
				Term:     "entity",
				Class:    occi.ClassKind,
				Title:    "Entity",
				Location: "/entity/",
				Attributes: []occi.AttributeDef{
					immutable(attr(occi.AttrID, "string")),
					attr(occi.AttrTitle, "string"),
				},
			},
			{
				Scheme:   occi.CoreScheme,
				Term:     "resource",
				Class:    occi.ClassKind,
				Title:    "Resource",
				Parent:   occi.EntityKind,
				Location: "/resource/",
				Attributes: []occi.AttributeDef{
					attr(occi.AttrSummary, "string"),
				},
			},
			{
				Scheme:   occi.CoreScheme,
				Term:     "link",
				Class:    occi.ClassKind,
				Title:    "Link",
				Parent:   occi.EntityKind,
				Location: "/link/",
				Attributes: []occi.AttributeDef{
					required(attr(occi.AttrSource, "string")),
					required(attr(occi.AttrTarget, "string")),
				},
			},
		},
	}
}
