// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-occi/connector"
	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/representation"
	"github.com/diffeo/go-occi/restdata"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// DefaultMaxBody is the largest request body the server reads when
// Config.MaxBody is not set.
const DefaultMaxBody = 1 << 20

// Config holds everything the REST server needs.  Only Catalog is
// required.
type Config struct {
	// Catalog is the catalog to publish.
	Catalog occi.Catalog

	// Codecs selects representations.  If nil, a factory with
	// the default header limit is used.
	Codecs *representation.Factory

	// Actions dispatches action invocations.  If nil, the
	// default infrastructure connector is used.
	Actions *connector.Registry

	// Logger, if non-nil, receives a Debug entry for every
	// request.  Server errors are always logged to the standard
	// logger.
	Logger *logrus.Logger

	// Clock times requests.  If nil, uses the wall clock.
	Clock clock.Clock

	// Metrics, if non-nil, counts requests.
	Metrics *Metrics

	// Owner is the identity recorded on created entities.
	Owner string

	// IDs generates entity identifiers.  If nil, random UUIDs
	// are used.
	IDs occi.IDGenerator

	// PageSize is the collection page size used when a query
	// does not give one.  Zero means occi.DefaultPageSize.
	PageSize int

	// MaxBody is the largest request body accepted, in bytes.
	MaxBody int64
}

// NewRouter creates a new HTTP handler that publishes a catalog with
// default settings.  All OCCI resources are under the URL path root,
// e.g. /compute/.  For more control over this setup, create a
// mux.Router and call PopulateRouter instead.
func NewRouter(c occi.Catalog) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, Config{Catalog: c})
	return r
}

// PopulateRouter adds OCCI routes to an existing
// github.com/gorilla/mux router object.  Since OCCI lets clients
// choose entity locations, this claims every path under the router;
// add more specific routes, like /metrics, before calling this.
func PopulateRouter(r *mux.Router, config Config) {
	api := newAPI(config)
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the OCCI REST API.
type restAPI struct {
	Catalog  occi.Catalog
	Codecs   *representation.Factory
	Actions  *connector.Registry
	Logger   *logrus.Logger
	Clock    clock.Clock
	Metrics  *Metrics
	Owner    string
	IDs      occi.IDGenerator
	PageSize int
	MaxBody  int64
}

func newAPI(config Config) *restAPI {
	api := &restAPI{
		Catalog:  config.Catalog,
		Codecs:   config.Codecs,
		Actions:  config.Actions,
		Logger:   config.Logger,
		Clock:    config.Clock,
		Metrics:  config.Metrics,
		Owner:    config.Owner,
		IDs:      config.IDs,
		PageSize: config.PageSize,
		MaxBody:  config.MaxBody,
	}
	if api.Codecs == nil {
		api.Codecs = representation.NewFactory(0)
	}
	if api.Actions == nil {
		api.Actions = connector.Infrastructure()
	}
	if api.Clock == nil {
		api.Clock = clock.New()
	}
	if api.IDs == nil {
		api.IDs = occi.UUIDGenerator{}
	}
	if api.MaxBody <= 0 {
		api.MaxBody = DefaultMaxBody
	}
	return api
}

// PopulateRouter adds all OCCI URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	handler := &dispatcher{api: api}
	r.Path(restdata.InterfacePath).Name("interface").Handler(handler)
	r.Path(restdata.WellKnownInterfacePath).Name("well-known").Handler(handler)
	r.PathPrefix("/").Name("catalog").Handler(handler)
}

// context builds the per-request catalog context.
func (api *restAPI) context() *occi.Context {
	return &occi.Context{Owner: api.Owner, IDs: api.IDs}
}
