// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides an HTTP client for the OCCI server in
// the "restserver" package.
//
// The server in github.com/diffeo/go-occi/cmd/occid can run a
// compatible REST server.  Call New() with the base URL of that
// service; for instance,
//
//     c, err := restclient.New("http://localhost:5980/")
//
// Requests and responses are application/occi+json, except mixin tag
// removal and association, which are sent as text/occi headers.
package restclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
	"github.com/ugorji/go/codec"
)

const (
	entityTemplate     = "{+location}"
	collectionTemplate = "{+location}{?category,attribute,value,operator,page,number}"
	actionTemplate     = "{+location}{?action}"
	interfaceTemplate  = "{+location}{?category}"
)

// Client talks to one OCCI server.
type Client struct {
	resource

	// Interface is the server's discovery interface as of the
	// last Refresh.
	Interface restdata.Interface
}

// New creates a new client for an OCCI server at baseURL, and
// fetches its discovery interface.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{resource: resource{URL: u}}
	if err = c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh reloads the discovery interface.
func (c *Client) Refresh() error {
	iface, err := c.Categories("")
	if err == nil {
		c.Interface = iface
	}
	return err
}

// Categories fetches the discovery interface.  If filter is not
// empty, only the category with that identifier or term is returned.
func (c *Client) Categories(filter string) (restdata.Interface, error) {
	var iface restdata.Interface
	vars := map[string]interface{}{"location": restdata.InterfacePath}
	if filter != "" {
		vars["category"] = filter
	}
	u, err := c.Template(interfaceTemplate, vars)
	if err == nil {
		_, err = c.Do(http.MethodGet, u, nil, nil, &iface)
	}
	return iface, err
}

// Query selects entities in a collection.  Zero fields are not sent.
type Query struct {
	Category  string
	Attribute string
	Value     string
	Operator  string
	Page      int
	Number    int
}

func (q Query) vars(location string) map[string]interface{} {
	vars := map[string]interface{}{"location": location}
	for name, value := range map[string]string{
		restdata.CategoryParam:  q.Category,
		restdata.AttributeParam: q.Attribute,
		restdata.ValueParam:     q.Value,
		restdata.OperatorParam:  q.Operator,
	} {
		if value != "" {
			vars[name] = value
		}
	}
	if q.Page != 0 {
		vars[restdata.PageParam] = strconv.Itoa(q.Page)
	}
	if q.Number != 0 {
		vars[restdata.NumberParam] = strconv.Itoa(q.Number)
	}
	return vars
}

// Get retrieves a single resource by location.
func (c *Client) Get(location string) (restdata.Resource, error) {
	var doc restdata.Resource
	u, err := c.Template(entityTemplate, map[string]interface{}{"location": location})
	if err == nil {
		_, err = c.Do(http.MethodGet, u, nil, nil, &doc)
	}
	return doc, err
}

// List retrieves the entities in a collection.
func (c *Client) List(location string, q Query) (restdata.Collection, error) {
	var raw map[string]interface{}
	u, err := c.Template(collectionTemplate, q.vars(location))
	if err == nil {
		_, err = c.Do(http.MethodGet, u, nil, nil, &raw)
	}
	if err != nil {
		return restdata.Collection{}, err
	}
	return toCollection(raw)
}

// toCollection converts a decoded response document to a collection.
// The server renders a collection of exactly one entity as that
// entity's own document, which becomes a collection of one here.
func toCollection(raw map[string]interface{}) (restdata.Collection, error) {
	var (
		doc restdata.Collection
		b   []byte
	)
	err := codec.NewEncoderBytes(&b, jsonHandle).Encode(raw)
	if err != nil {
		return doc, err
	}
	dec := codec.NewDecoderBytes(b, jsonHandle)
	_, hasKind := raw["kind"]
	_, hasSource := raw["source"]
	switch {
	case hasKind && hasSource:
		var link restdata.Link
		err = dec.Decode(&link)
		doc.Links = []restdata.Link{link}
	case hasKind:
		var resource restdata.Resource
		err = dec.Decode(&resource)
		doc.Resources = []restdata.Resource{resource}
	default:
		err = dec.Decode(&doc)
	}
	return doc, err
}

// Create creates a new resource in a collection and returns it as
// stored.
func (c *Client) Create(collection string, r restdata.Resource) (restdata.Resource, error) {
	return c.send(http.MethodPost, collection, r)
}

// Put creates or replaces the resource at location.
func (c *Client) Put(location string, r restdata.Resource) (restdata.Resource, error) {
	return c.send(http.MethodPut, location, r)
}

// Update partially updates the resource at location: mixins are
// added and attributes merged.
func (c *Client) Update(location string, r restdata.Resource) (restdata.Resource, error) {
	return c.send(http.MethodPost, location, r)
}

func (c *Client) send(method, location string, r restdata.Resource) (restdata.Resource, error) {
	var doc restdata.Resource
	// Server-computed fields are not part of a request.
	r.Actions = nil
	u, err := c.Template(entityTemplate, map[string]interface{}{"location": location})
	if err == nil {
		_, err = c.Do(method, u, nil, r, &doc)
	}
	return doc, err
}

// Delete deletes the entity at location, or every entity in the
// collection at location.
func (c *Client) Delete(location string) error {
	u, err := c.Template(entityTemplate, map[string]interface{}{"location": location})
	if err == nil {
		_, err = c.Do(http.MethodDelete, u, nil, nil, nil)
	}
	return err
}

// Invoke invokes an action on the entity at location.  action may be
// a full category identifier or just its term.
func (c *Client) Invoke(location, action string, attrs map[string]interface{}) (restdata.Resource, error) {
	var doc restdata.Resource
	err := c.invoke(location, action, attrs, &doc)
	return doc, err
}

// InvokeAll invokes an action on every entity in a collection, and
// returns the updated entities.
func (c *Client) InvokeAll(collection, action string, attrs map[string]interface{}) (restdata.Collection, error) {
	var raw map[string]interface{}
	if err := c.invoke(collection, action, attrs, &raw); err != nil {
		return restdata.Collection{}, err
	}
	return toCollection(raw)
}

func (c *Client) invoke(location, action string, attrs map[string]interface{}, out interface{}) error {
	vars := map[string]interface{}{"location": location, restdata.ActionParam: action}
	u, err := c.Template(actionTemplate, vars)
	if err != nil {
		return err
	}
	var in interface{}
	if len(attrs) > 0 {
		in = restdata.Action{Action: action, Attributes: attrs}
	}
	_, err = c.Do(http.MethodPost, u, nil, in, out)
	return err
}

// DefineMixinTag creates or replaces a user mixin tag.  tag needs a
// scheme, term, and location.
func (c *Client) DefineMixinTag(tag restdata.Mixin) error {
	u, err := c.Template(entityTemplate, map[string]interface{}{"location": restdata.InterfacePath})
	if err == nil {
		_, err = c.Do(http.MethodPut, u, nil, tag, nil)
	}
	return err
}

// DeleteMixinTag removes a user mixin tag.
func (c *Client) DeleteMixinTag(id string) error {
	u, err := c.Template(entityTemplate, map[string]interface{}{"location": restdata.InterfacePath})
	if err == nil {
		_, err = c.Do(http.MethodDelete, u, mixinHeader(id, nil), nil, nil)
	}
	return err
}

// Associate applies the mixin whose collection is at location to the
// entities or collections at locations, and returns the server's
// report.
func (c *Client) Associate(location, mixin string, locations ...string) (string, error) {
	return c.associate(http.MethodPost, location, mixin, locations)
}

// Replace makes the entities at locations the only members of a
// mixin.
func (c *Client) Replace(location, mixin string, locations ...string) (string, error) {
	return c.associate(http.MethodPut, location, mixin, locations)
}

// Dissociate removes a mixin from the entities at locations.
func (c *Client) Dissociate(location, mixin string, locations ...string) (string, error) {
	if len(locations) == 0 {
		// An empty list would delete the whole collection.
		return "", nil
	}
	return c.associate(http.MethodDelete, location, mixin, locations)
}

func (c *Client) associate(method, location, mixin string, locations []string) (string, error) {
	var msg restdata.Message
	u, err := c.Template(entityTemplate, map[string]interface{}{"location": location})
	if err == nil {
		_, err = c.Do(method, u, mixinHeader(mixin, locations), nil, &msg)
	}
	return msg.Message, err
}

// mixinHeader builds text/occi request headers naming a mixin and a
// list of locations.
func mixinHeader(id string, locations []string) http.Header {
	scheme, term := occi.SplitID(id)
	h := http.Header{}
	h.Add(restdata.CategoryHeader, fmt.Sprintf(`%s; scheme="%s"; class="mixin"`, term, scheme))
	for _, location := range locations {
		h.Add(restdata.LocationHeader, location)
	}
	return h
}
