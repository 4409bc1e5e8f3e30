// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains the request skeleton.
//
// Every request goes through the same steps: negotiate the response
// representation from Accept:, decode the body (or headers) with the
// codec for Content-Type:, classify each decoded record, run the
// operation, and render the result.  Anything that goes wrong turns
// into an error response in the negotiated representation, so a
// text/occi client gets its error as text and a JSON client gets
// JSON.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/diffeo/go-occi/classify"
	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/representation"
	"github.com/diffeo/go-occi/restdata"
	"github.com/sirupsen/logrus"
)

// errMethodNotAllowed flags a method that makes no sense for the
// classified operation.  This corresponds exactly to the 405 Method
// Not Allowed HTTP status code.
type errMethodNotAllowed struct {
	Method string
	Class  classify.Classification
}

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed on %v", e.Method, e.Class)
}

func (e errMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// errTooLarge is returned if the request body is larger than the
// server accepts.
type errTooLarge struct {
	Limit int64
}

func (e errTooLarge) Error() string {
	return fmt.Sprintf("Request body is larger than %v bytes", e.Limit)
}

func (e errTooLarge) HTTPStatus() int {
	return http.StatusRequestEntityTooLarge
}

// renderKind selects which codec method renders a result.
type renderKind int

const (
	renderNothing renderKind = iota
	renderMessage
	renderLocations
	renderInterface
	renderEntities
)

// result is what an operation produces.
type result struct {
	// Status is the HTTP status; zero means 200 OK.
	Status int

	// Location, if set, is sent as the Location: header.
	Location string

	Render     renderKind
	Entities   []occi.Entity
	Categories []occi.Category
	Locations  []string
	Message    string
}

// merge combines the results of several records in one request.
func (r result) merge(other result) result {
	if other.Status == http.StatusCreated {
		r.Status = other.Status
		r.Location = other.Location
	}
	r.Entities = append(r.Entities, other.Entities...)
	r.Categories = append(r.Categories, other.Categories...)
	r.Locations = append(r.Locations, other.Locations...)
	if other.Message != "" {
		if r.Message != "" {
			r.Message += "\n"
		}
		r.Message += other.Message
	}
	if r.Render != other.Render {
		if len(r.Entities) > 0 {
			r.Render = renderEntities
		} else {
			r.Render = renderMessage
		}
	}
	return r
}

// dispatcher is the single handler behind every OCCI route.
type dispatcher struct {
	api *restAPI
}

func (d *dispatcher) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var (
		api    = d.api
		start  = api.Clock.Now()
		class  = "none"
		out    representation.Codec
		res    result
		output representation.Output
		status int
		err    error
	)

	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			response := restdata.ErrorResponse{}
			response.FromPanic(recovered)
			logrus.WithFields(logrus.Fields{
				"panic": recovered,
				"stack": response.Stack,
				"path":  req.URL.Path,
			}).Error("Panic in REST server")
			if out == nil {
				out = api.Codecs.Select(restdata.PlainMediaType)
			}
			output, _ = out.RenderError(response)
			api.write(resp, req, out, http.StatusInternalServerError, "", output)
			api.finish(req, class, http.StatusInternalServerError, start, errors.New(response.Message))
		}
	}()

	// Start by trying to come up with a response type, even before
	// trying to parse the input.  This determines what format an
	// error message could be sent back as.
	out, err = api.Codecs.Negotiate(req.Header.Get("Accept"))
	if err != nil {
		// Gotta pick something
		out = api.Codecs.Select(restdata.PlainMediaType)
	}

	ctx := api.context()
	var records []occi.RequestRecord
	if err == nil {
		records, err = api.decode(ctx, req)
	}
	if err == nil {
		records = classify.ApplyActionParam(records, req.URL.Query())
		if len(records) == 0 {
			records = []occi.RequestRecord{{}}
		}
		class, res, err = api.execute(ctx, req, records)
	}
	if err == nil {
		status = res.Status
		if status == 0 {
			status = http.StatusOK
		}
		output, err = api.render(out, res)
	}

	// Fix up the final result based on what we know.
	location := res.Location
	if err != nil {
		status = restdata.StatusFor(err)
		location = ""
		response := restdata.ErrorResponse{}
		response.FromError(err)
		var renderErr error
		output, renderErr = out.RenderError(response)
		if renderErr != nil {
			output = representation.Output{Body: []byte(response.Message + "\n")}
		}
	}
	api.write(resp, req, out, status, location, output)
	api.finish(req, class, status, start, err)
}

// decode reads the request body and parses it with the codec for its
// declared media type.
func (api *restAPI) decode(ctx *occi.Context, req *http.Request) ([]occi.RequestRecord, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = ioutil.ReadAll(io.LimitReader(req.Body, api.MaxBody+1))
		if err != nil {
			return nil, restdata.ErrBadRequest{Err: err}
		}
		if int64(len(body)) > api.MaxBody {
			return nil, errTooLarge{Limit: api.MaxBody}
		}
	}
	contentType := req.Header.Get("Content-Type")
	if contentType == "" && hasOCCIHeaders(req.Header) {
		contentType = restdata.OCCIMediaType
	}
	if len(bytes.TrimSpace(body)) > 0 && !api.Codecs.Known(contentType) {
		return nil, restdata.ErrUnsupportedMediaType{Type: contentType}
	}
	codec := api.Codecs.Select(contentType)
	return codec.Decode(ctx, api.Catalog, representation.Input{
		Header: req.Header,
		Body:   body,
	})
}

// hasOCCIHeaders reports whether a request carries text/occi header
// fields.  Clients often send these on GET and DELETE without a
// Content-Type:.
func hasOCCIHeaders(h http.Header) bool {
	for _, name := range []string{restdata.CategoryHeader, restdata.AttributeHeader, restdata.LocationHeader} {
		if len(h[http.CanonicalHeaderKey(name)]) > 0 {
			return true
		}
	}
	return false
}

// execute classifies and runs every record.  It stops at the first
// error.
func (api *restAPI) execute(ctx *occi.Context, req *http.Request, records []occi.RequestRecord) (string, result, error) {
	var (
		total result
		class = "none"
	)
	query := req.URL.Query()
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return class, total, restdata.ErrBadRequest{Err: err}
		}
		c, err := classify.Classify(api.Catalog, req.URL.Path, record)
		if err != nil {
			return class, total, err
		}
		class = c.Classification.String()
		op := &operation{
			restAPI: api,
			Context: ctx,
			Method:  req.Method,
			Path:    req.URL.Path,
			Query:   query,
			Record:  record,
			Result:  c,
		}
		r, err := op.run()
		if err != nil {
			return class, total, err
		}
		if i == 0 {
			total = r
		} else {
			total = total.merge(r)
		}
	}
	return class, total, nil
}

// render turns a result into response headers and body.
func (api *restAPI) render(codec representation.Codec, res result) (representation.Output, error) {
	switch res.Render {
	case renderEntities:
		// A collection of one renders exactly as that entity would.
		return codec.RenderEntities(api.Catalog, res.Entities)
	case renderInterface:
		return codec.RenderInterface(res.Categories)
	case renderLocations:
		return codec.RenderLocations(res.Locations)
	case renderMessage:
		return codec.RenderMessage(res.Message)
	}
	return representation.Output{}, nil
}

// write sends a rendered response.  Failing to write the body is
// logged, but by then the status line has gone out, so there is
// nothing better to do.
func (api *restAPI) write(resp http.ResponseWriter, req *http.Request, codec representation.Codec, status int, location string, output representation.Output) {
	header := resp.Header()
	for name, values := range output.Header {
		for _, value := range values {
			header.Add(name, value)
		}
	}
	if (len(output.Body) > 0 || len(output.Header) > 0) && codec.MediaType() != "" {
		header.Set("Content-Type", codec.MediaType())
	}
	if location != "" {
		header.Set("Location", location)
	}
	resp.WriteHeader(status)
	if req.Method == http.MethodHead || len(output.Body) == 0 {
		return
	}
	if _, err := resp.Write(output.Body); err != nil && api.Logger != nil {
		api.Logger.WithError(err).WithField("path", req.URL.Path).Debug("Error writing response")
	}
}

// finish logs the request and records its metrics.
func (api *restAPI) finish(req *http.Request, class string, status int, start time.Time, err error) {
	elapsed := api.Clock.Now().Sub(start)
	api.Metrics.observe(req.Method, class, status, elapsed)
	fields := logrus.Fields{
		"method":         req.Method,
		"path":           req.URL.Path,
		"classification": class,
		"status":         status,
		"duration":       elapsed,
	}
	if api.Logger != nil {
		entry := api.Logger.WithFields(fields)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Debug("Request")
	}
	if status >= http.StatusInternalServerError && err != nil {
		logrus.WithFields(fields).WithError(err).Error("Request failed")
	}
}
