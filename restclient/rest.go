// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

// This file provides generic REST client code.

import (
	"bytes"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"net/url"

	"github.com/diffeo/go-occi/restdata"
	"github.com/jtacoma/uritemplates"
	"github.com/ugorji/go/codec"
)

// jsonHandle is shared by every request.
var jsonHandle = &codec.JsonHandle{}

// resource is any object that has a URL and a representation.
type resource struct {
	URL    *url.URL
	Client *http.Client
}

// Template expands a URI template and resolves the result against the
// resource's URL.
func (r *resource) Template(template string, vars map[string]interface{}) (*url.URL, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return nil, err
	}
	expanded, err := tmpl.Expand(vars)
	if err != nil {
		return nil, err
	}
	return r.URL.Parse(expanded)
}

// Do performs some HTTP action.  If in is non-nil, the request data is
// serialized as JSON and sent as the body of, for instance, a POST
// request.  header, if non-nil, adds request header fields; this is
// how text/occi requests are made.  If out is non-nil, the response
// data (if any) is deserialized into this object, which must be of
// pointer type.  Returns the response header.
func (r *resource) Do(method string, url *url.URL, header http.Header, in, out interface{}) (respHeader http.Header, err error) {
	// Set up the body as serialized JSON, if there is one
	var body io.Reader
	if in != nil {
		reader, writer := io.Pipe()
		encoder := codec.NewEncoder(writer, jsonHandle)
		finished := make(chan error)
		go func() {
			err := encoder.Encode(in)
			err = firstError(err, writer.Close())
			finished <- err
		}()
		defer func() {
			err = firstError(err, <-finished)
		}()
		body = reader
	}

	// Create the request and set headers
	req, err := http.NewRequest(method, url.String(), body)
	if err != nil {
		return nil, err
	}
	for name, values := range header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", restdata.OCCIJSONMediaType)
	}
	req.Header.Set("Accept", restdata.OCCIJSONMediaType)

	// Actually do the request
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	// If the response included a body, clean up afterwards
	if resp.Body != nil {
		defer func() {
			err = firstError(err, resp.Body.Close())
		}()
	}

	// Check the response code
	if err = checkHTTPStatus(resp); err != nil {
		return resp.Header, err
	}

	// If there is both a body and a requested output,
	// decode it
	if resp.Body != nil && out != nil {
		err = decode(resp.Header.Get("Content-Type"), resp.Body, out)
	}

	return resp.Header, err // may be nil
}

// decode reads a JSON response body.
func decode(contentType string, r io.Reader, out interface{}) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}
	if mediaType != restdata.OCCIJSONMediaType && mediaType != restdata.JSONMediaType {
		return restdata.ErrUnsupportedMediaType{Type: mediaType}
	}
	return codec.NewDecoder(r, jsonHandle).Decode(out)
}

// ErrorHTTP is a catch-all error for non-successes returned from the
// REST endpoint.
type ErrorHTTP struct {
	// Response holds a pointer to the failing HTTP response.
	Response *http.Response

	// Body holds the contents of the message body, presumed to
	// be text.
	Body string
}

func (e ErrorHTTP) Error() string {
	if e.Body == "" {
		return e.Response.Status
	}
	return e.Response.Status + ": " + e.Body
}

// HTTPStatus returns the status code of the failing response.
func (e ErrorHTTP) HTTPStatus() int {
	return e.Response.StatusCode
}

// checkHTTPStatus examines an HTTP response and returns an error if
// it is not successful.
func checkHTTPStatus(resp *http.Response) error {
	if len(resp.Status) > 0 && resp.Status[0] == '2' {
		return nil
	}

	// Always collect the entire body; we will need it as a fallback
	// and can only parse it once.
	var body []byte
	var err error
	if resp.Body != nil {
		body, err = ioutil.ReadAll(resp.Body)
		if err != nil {
			return err
		}
	}

	// Take a shot at decoding it as a better error
	var errResp restdata.ErrorResponse
	contentType := resp.Header.Get("Content-Type")
	err2 := decode(contentType, bytes.NewReader(body), &errResp)
	if err2 != nil {
		return ErrorHTTP{Response: resp, Body: string(body)}
	}
	switch errResp.Error {
	case "", "error", "panic":
		// Nothing better than the status code
		return ErrorHTTP{Response: resp, Body: errResp.Message}
	}
	return errResp.ToError()
}

func firstError(e1, e2 error) error {
	if e1 != nil {
		return e1
	}
	return e2
}
