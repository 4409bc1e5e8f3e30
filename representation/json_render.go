// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package representation

import (
	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
	"github.com/ugorji/go/codec"
)

func (c JSONCodec) encode(v interface{}) (Output, error) {
	var body []byte
	if err := codec.NewEncoderBytes(&body, jsonHandle).Encode(v); err != nil {
		return Output{}, err
	}
	return Output{Body: body}, nil
}

// RenderEntities renders exactly one entity as a single resource or
// link document, and any other number as a collection document.
func (c JSONCodec) RenderEntities(l occi.Lookup, entities []occi.Entity) (Output, error) {
	if len(entities) == 1 {
		e := entities[0]
		if e.IsLink() {
			return c.encode(renderLink(l, e))
		}
		return c.encode(renderResource(l, e))
	}
	return c.RenderCollection(l, entities)
}

// RenderCollection renders any number of entities as a collection
// document.
func (c JSONCodec) RenderCollection(l occi.Lookup, entities []occi.Entity) (Output, error) {
	var doc restdata.Collection
	for _, e := range entities {
		if e.IsLink() {
			doc.Links = append(doc.Links, renderLink(l, e))
		} else {
			doc.Resources = append(doc.Resources, renderResource(l, e))
		}
	}
	return c.encode(doc)
}

// attributeMap renders the generic attribute bag, leaving out the
// reserved attributes which have their own fields.
func attributeMap(e occi.Entity) map[string]interface{} {
	if e.Attributes.Len() == 0 {
		return nil
	}
	m := make(map[string]interface{}, e.Attributes.Len())
	for _, attr := range e.Attributes.List() {
		if occi.IsReserved(attr.Name, e.IsLink()) {
			continue
		}
		m[attr.Name] = attr.Value.Interface()
	}
	return m
}

func actionIDs(l occi.Lookup, e occi.Entity) []string {
	var ids []string
	for _, action := range actionsOf(l, e) {
		ids = append(ids, action.ID())
	}
	return ids
}

func renderResource(l occi.Lookup, e occi.Entity) restdata.Resource {
	r := restdata.Resource{
		Kind:       e.Kind,
		Mixins:     e.Mixins,
		Attributes: attributeMap(e),
		Actions:    actionIDs(l, e),
		ID:         e.ID,
		Title:      e.Title,
		Summary:    e.Summary,
		Location:   e.Location,
	}
	for _, link := range e.Links {
		r.Links = append(r.Links, renderLink(l, link))
	}
	return r
}

// renderLinkEnd names the kind of the entity at the end of a link, if
// the catalog knows it.
func renderLinkEnd(l occi.Lookup, location string) restdata.LinkEnd {
	end := restdata.LinkEnd{Location: withSlash(location)}
	if l == nil {
		return end
	}
	if id, ok := occi.ParseID(location); ok {
		if e, err := l.Entity(id); err == nil {
			end.Kind = e.Kind
		}
	}
	return end
}

func renderLink(l occi.Lookup, e occi.Entity) restdata.Link {
	return restdata.Link{
		Kind:       e.Kind,
		Mixins:     e.Mixins,
		Attributes: attributeMap(e),
		Actions:    actionIDs(l, e),
		ID:         e.ID,
		Title:      e.Title,
		Summary:    e.Summary,
		Location:   e.Location,
		Source:     renderLinkEnd(l, e.Source),
		Target:     renderLinkEnd(l, e.Target),
	}
}

func renderAttributeDefs(defs []occi.AttributeDef) map[string]restdata.AttributeDef {
	if len(defs) == 0 {
		return nil
	}
	m := make(map[string]restdata.AttributeDef, len(defs))
	for _, def := range defs {
		out := restdata.AttributeDef{
			Type:        occi.SchemaType(def.Type),
			Required:    def.Required,
			Mutable:     !def.Immutable,
			Description: def.Description,
		}
		if def.Default != nil {
			out.Default = def.Default.Interface()
		}
		m[def.Name] = out
	}
	return m
}

// jsonGroup collects the categories of one extension.
type jsonGroup struct {
	ext     restdata.Extension
	actions map[string]bool
}

func (g *jsonGroup) addAction(action occi.Category) {
	if g.actions[action.ID()] {
		return
	}
	g.actions[action.ID()] = true
	g.ext.Actions = append(g.ext.Actions, restdata.ActionDef{
		Term:       action.Term,
		Scheme:     action.Scheme,
		Title:      action.Title,
		Attributes: renderAttributeDefs(action.Attributes),
	})
}

// groupName is the extension a category is listed under.
func groupName(cat occi.Category) string {
	if cat.Extension != "" {
		return cat.Extension
	}
	return cat.Scheme
}

// RenderInterface renders categories grouped by extension.  Each group
// lists its kinds and mixins, then the actions they expose, each
// action once.
func (c JSONCodec) RenderInterface(categories []occi.Category) (Output, error) {
	actions := make(map[string]occi.Category)
	for _, cat := range categories {
		if cat.Class == occi.ClassAction {
			actions[cat.ID()] = cat
		}
	}
	var groups []*jsonGroup
	byName := make(map[string]*jsonGroup)
	group := func(cat occi.Category) *jsonGroup {
		name := groupName(cat)
		g, exists := byName[name]
		if !exists {
			g = &jsonGroup{
				ext:     restdata.Extension{Name: name},
				actions: make(map[string]bool),
			}
			byName[name] = g
			groups = append(groups, g)
		}
		return g
	}
	for _, cat := range categories {
		g := group(cat)
		switch cat.Class {
		case occi.ClassKind:
			g.ext.Kinds = append(g.ext.Kinds, restdata.Kind{
				Term:       cat.Term,
				Scheme:     cat.Scheme,
				Title:      cat.Title,
				Parent:     cat.Parent,
				Location:   cat.Location,
				Attributes: renderAttributeDefs(cat.Attributes),
				Actions:    cat.Actions,
			})
		case occi.ClassMixin:
			var attrs map[string]interface{}
			if defs := renderAttributeDefs(cat.Attributes); defs != nil {
				attrs = make(map[string]interface{}, len(defs))
				for name, def := range defs {
					attrs[name] = def
				}
			}
			g.ext.Mixins = append(g.ext.Mixins, restdata.Mixin{
				Term:       cat.Term,
				Scheme:     cat.Scheme,
				Title:      cat.Title,
				Location:   cat.Location,
				Depends:    cat.Depends,
				Applies:    cat.Applies,
				Attributes: attrs,
				Actions:    cat.Actions,
			})
		default:
			continue
		}
		for _, id := range cat.Actions {
			action, known := actions[id]
			if !known {
				scheme, term := occi.SplitID(id)
				action = occi.Category{Scheme: scheme, Term: term, Class: occi.ClassAction}
			}
			g.addAction(action)
		}
	}
	// Actions nothing in the list exposes still go in their own
	// extension's group.
	for _, cat := range categories {
		if cat.Class == occi.ClassAction {
			group(cat).addAction(cat)
		}
	}
	doc := restdata.Interface{Extensions: make([]restdata.Extension, len(groups))}
	for i, g := range groups {
		doc.Extensions[i] = g.ext
	}
	return c.encode(doc)
}

// RenderLocations renders {"locations": [...]}.
func (c JSONCodec) RenderLocations(locations []string) (Output, error) {
	if locations == nil {
		locations = []string{}
	}
	return c.encode(restdata.Locations{Locations: locations})
}

// RenderMessage renders {"message": "..."}.
func (c JSONCodec) RenderMessage(message string) (Output, error) {
	return c.encode(restdata.Message{Message: message})
}

// RenderError renders the error response object.
func (c JSONCodec) RenderError(resp restdata.ErrorResponse) (Output, error) {
	return c.encode(resp)
}
