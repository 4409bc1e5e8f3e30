// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-occi/extension"
	"github.com/diffeo/go-occi/memory"
	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugorji/go/codec"
)

const (
	firstID = "00000000-0000-4000-8000-000000000001"
	missing = "11111111-2222-4333-8444-555555555555"

	computeCategory = `compute; scheme="http://schemas.ogf.org/occi/infrastructure#"; class="kind"`
	tagCategory     = `mytag; scheme="http://example.com/tags#"; class="mixin"`
	tagID           = "http://example.com/tags#mytag"
)

var jsonHandle = &codec.JsonHandle{}

type fixture struct {
	catalog occi.Catalog
	ctx     *occi.Context
	handler http.Handler
	metrics *Metrics
	hook    *test.Hook
}

func newFixture(t *testing.T, config Config) *fixture {
	f := &fixture{
		catalog: memory.New(),
		ctx:     &occi.Context{Owner: "tester", IDs: &occi.SequenceGenerator{}},
	}
	require.NoError(t, extension.Install(f.catalog, extension.Standard()...))

	var err error
	f.metrics, err = NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f.hook = hook

	config.Catalog = f.catalog
	config.IDs = f.ctx.IDs
	config.Owner = f.ctx.Owner
	config.Metrics = f.metrics
	config.Logger = logger
	if config.Clock == nil {
		config.Clock = clock.NewMock()
	}
	r := mux.NewRouter()
	PopulateRouter(r, config)
	f.handler = r
	return f
}

func (f *fixture) do(method, target string, header http.Header, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for name, values := range header {
		req.Header[name] = values
	}
	resp := httptest.NewRecorder()
	f.handler.ServeHTTP(resp, req)
	return resp
}

func (f *fixture) save(t *testing.T, e occi.Entity) occi.Entity {
	e, _, err := f.catalog.SaveEntity(f.ctx, e)
	require.NoError(t, err)
	return e
}

func header(pairs ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}
	return h
}

func lines(body string) []string {
	var result []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}

func TestInterface(t *testing.T) {
	f := newFixture(t, Config{})
	for _, path := range []string{restdata.InterfacePath, restdata.WellKnownInterfacePath} {
		resp := f.do("GET", path, header("Accept", restdata.OCCIMediaType), "")
		assert.Equal(t, http.StatusOK, resp.Code, path)
		assert.Equal(t, restdata.OCCIMediaType, resp.Header().Get("Content-Type"))
		found := false
		for _, value := range resp.Header()[restdata.CategoryHeader] {
			if strings.HasPrefix(value, computeCategory) {
				found = true
				assert.Contains(t, value, `location="/compute/"`)
			}
		}
		assert.True(t, found, "no compute category in %v", path)
	}
}

func TestInterfaceFilter(t *testing.T) {
	f := newFixture(t, Config{})
	resp := f.do("GET", "/-/?category=storage", header("Accept", restdata.PlainMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{extension.StorageKind}, lines(resp.Body.String()))
}

func TestCreateText(t *testing.T) {
	f := newFixture(t, Config{})
	resp := f.do("POST", "/compute/", header(
		"Accept", restdata.OCCIMediaType,
		restdata.CategoryHeader, computeCategory,
		restdata.AttributeHeader, `occi.compute.hostname="web01"`,
		restdata.AttributeHeader, `occi.compute.cores=2`,
	), "")
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "/compute/"+firstID, resp.Header().Get("Location"))

	resp = f.do("GET", "/compute/"+firstID, header("Accept", restdata.OCCIMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	attrs := resp.Header().Values(restdata.AttributeHeader)
	assert.Contains(t, attrs, `occi.compute.hostname="web01"`)
	assert.Contains(t, attrs, `occi.compute.cores=2`)
	assert.Contains(t, attrs, `occi.core.id="`+firstID+`"`)
	assert.Equal(t, []string{"/compute/" + firstID}, resp.Header().Values(restdata.LocationHeader))

	e, err := f.catalog.Entity(firstID)
	if assert.NoError(t, err) {
		assert.Equal(t, "tester", e.Owner)
		assert.Equal(t, "inactive", e.Attributes.GetString(extension.ComputeState))
	}
}

func TestCreateJSON(t *testing.T) {
	f := newFixture(t, Config{})
	body := `{"kind":"` + extension.ComputeKind + `","title":"web","attributes":{"occi.compute.hostname":"web01"}}`
	resp := f.do("POST", "/compute/", header(
		"Accept", restdata.OCCIJSONMediaType,
		"Content-Type", restdata.OCCIJSONMediaType,
	), body)
	if !assert.Equal(t, http.StatusCreated, resp.Code) {
		return
	}
	assert.Equal(t, restdata.OCCIJSONMediaType, resp.Header().Get("Content-Type"))
	var doc restdata.Resource
	if assert.NoError(t, codec.NewDecoderBytes(resp.Body.Bytes(), jsonHandle).Decode(&doc)) {
		assert.Equal(t, firstID, doc.ID)
		assert.Equal(t, extension.ComputeKind, doc.Kind)
		assert.Equal(t, "web", doc.Title)
		assert.Equal(t, "/compute/"+firstID, doc.Location)
		assert.Equal(t, "web01", doc.Attributes["occi.compute.hostname"])
		assert.Contains(t, doc.Actions, extension.ComputeActionScheme+"start")
	}
}

func TestPutCustomLocation(t *testing.T) {
	f := newFixture(t, Config{})
	resp := f.do("PUT", "/my/vms/"+missing, header(restdata.CategoryHeader, computeCategory), "")
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "/my/vms/"+missing, resp.Header().Get("Location"))

	// Replacing it is not a creation.
	resp = f.do("PUT", "/my/vms/"+missing, header(
		restdata.CategoryHeader, computeCategory,
		restdata.AttributeHeader, `occi.compute.hostname="again"`,
	), "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do("POST", "/my/vms/", header(restdata.CategoryHeader, computeCategory), "")
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "/my/vms/"+firstID, resp.Header().Get("Location"))

	resp = f.do("GET", "/my/vms/", header("Accept", restdata.URIListMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.ElementsMatch(t, []string{"/my/vms/" + missing, "/my/vms/" + firstID}, lines(resp.Body.String()))
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.save(t, occi.Entity{Kind: extension.ComputeKind, Title: "before"})
	resp := f.do("POST", e.Location, header(
		restdata.CategoryHeader, computeCategory,
		restdata.AttributeHeader, `occi.core.title="after"`,
	), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	e, err := f.catalog.Entity(e.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, "after", e.Title)
	}
}

func TestCollection(t *testing.T) {
	f := newFixture(t, Config{PageSize: 1})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	b := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	f.save(t, occi.Entity{Kind: extension.StorageKind})

	resp := f.do("GET", "/compute/", header("Accept", restdata.URIListMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{a.Location}, lines(resp.Body.String()))

	resp = f.do("GET", "/compute/?page=2", header("Accept", restdata.URIListMediaType), "")
	assert.Equal(t, []string{b.Location}, lines(resp.Body.String()))

	resp = f.do("GET", "/compute/?number=10", header("Accept", restdata.OCCIJSONMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	var doc restdata.Collection
	if assert.NoError(t, codec.NewDecoderBytes(resp.Body.Bytes(), jsonHandle).Decode(&doc)) &&
		assert.Len(t, doc.Resources, 2) {
		assert.Equal(t, a.ID, doc.Resources[0].ID)
		assert.Equal(t, b.ID, doc.Resources[1].ID)
	}

	// text/occi carries only the first entity of a collection.
	resp = f.do("GET", "/compute/?number=10", header("Accept", restdata.OCCIMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{a.Location}, resp.Header().Values(restdata.LocationHeader))
	assert.Contains(t, resp.Header().Values(restdata.AttributeHeader), `occi.core.id="`+a.ID+`"`)
}

// TestCollectionOfOne checks that a collection with exactly one
// member renders as that member's own document.
func TestCollectionOfOne(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind, Title: "only"})
	single := f.do("GET", a.Location, header("Accept", restdata.OCCIJSONMediaType), "")
	resp := f.do("GET", "/compute/", header("Accept", restdata.OCCIJSONMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, single.Body.String(), resp.Body.String())

	var doc restdata.Resource
	if assert.NoError(t, codec.NewDecoderBytes(resp.Body.Bytes(), jsonHandle).Decode(&doc)) {
		assert.Equal(t, a.ID, doc.ID)
		assert.Equal(t, "only", doc.Title)
		assert.Equal(t, extension.ComputeKind, doc.Kind)
	}

	resp = f.do("GET", "/compute/", header("Accept", restdata.OCCIMediaType), "")
	assert.Equal(t, []string{a.Location}, resp.Header().Values(restdata.LocationHeader))
	assert.Contains(t, resp.Header().Values(restdata.AttributeHeader), `occi.core.title="only"`)

	// Two members keep the collection document.
	f.save(t, occi.Entity{Kind: extension.ComputeKind})
	resp = f.do("GET", "/compute/", header("Accept", restdata.OCCIJSONMediaType), "")
	var coll restdata.Collection
	if assert.NoError(t, codec.NewDecoderBytes(resp.Body.Bytes(), jsonHandle).Decode(&coll)) {
		assert.Len(t, coll.Resources, 2)
	}
}

func TestAction(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	b := f.save(t, occi.Entity{Kind: extension.ComputeKind})

	resp := f.do("POST", a.Location+"?action=start", header("Accept", restdata.OCCIJSONMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	var doc restdata.Resource
	if assert.NoError(t, codec.NewDecoderBytes(resp.Body.Bytes(), jsonHandle).Decode(&doc)) {
		assert.Equal(t, "active", doc.Attributes[extension.ComputeState])
	}

	// The action category in a header does the same thing.
	resp = f.do("POST", b.Location, header(
		restdata.CategoryHeader, `start; scheme="`+extension.ComputeActionScheme+`"; class="action"`,
	), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	b, err := f.catalog.Entity(b.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, "active", b.Attributes.GetString(extension.ComputeState))
	}

	// On a collection it applies to every member.
	resp = f.do("POST", "/compute/?action=stop", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	for _, id := range []string{a.ID, b.ID} {
		e, err := f.catalog.Entity(id)
		if assert.NoError(t, err) {
			assert.Equal(t, "inactive", e.Attributes.GetString(extension.ComputeState))
		}
	}
}

func TestActionErrors(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind})

	type testCase struct {
		method, target string
		status         int
	}
	for _, tc := range []testCase{
		{"POST", a.Location + "?action=fly", http.StatusNotFound},
		{"POST", a.Location + "?action=save", http.StatusNotImplemented},
		{"POST", "/compute/" + missing + "?action=start", http.StatusNotFound},
		{"GET", a.Location + "?action=start", http.StatusMethodNotAllowed},
		{"POST", "/-/?action=start", http.StatusBadRequest},
	} {
		resp := f.do(tc.method, tc.target, nil, "")
		assert.Equal(t, tc.status, resp.Code, "%v %v", tc.method, tc.target)
	}
}

func TestMixinTag(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	b := f.save(t, occi.Entity{Kind: extension.ComputeKind})

	definition := header(restdata.CategoryHeader, tagCategory+`; title="Mine"; location="/mytag/"`)
	resp := f.do("PUT", "/-/", definition, "")
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "/mytag/", resp.Header().Get("Location"))
	resp = f.do("PUT", "/-/", definition, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do("POST", "/mytag/", header(
		restdata.CategoryHeader, tagCategory,
		restdata.LocationHeader, a.Location,
		restdata.LocationHeader, b.Location,
	), "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do("GET", "/mytag/", header("Accept", restdata.URIListMediaType), "")
	assert.Equal(t, []string{a.Location, b.Location}, lines(resp.Body.String()))

	// PUT replaces the whole membership.
	resp = f.do("PUT", "/mytag/", header(
		restdata.CategoryHeader, tagCategory,
		restdata.LocationHeader, b.Location,
	), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = f.do("GET", "/mytag/", header("Accept", restdata.URIListMediaType), "")
	assert.Equal(t, []string{b.Location}, lines(resp.Body.String()))

	// DELETE with locations dissociates without deleting.
	resp = f.do("DELETE", "/mytag/", header(
		restdata.CategoryHeader, tagCategory,
		restdata.LocationHeader, b.Location,
	), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	_, err := f.catalog.Entity(b.ID)
	assert.NoError(t, err)
	resp = f.do("GET", "/mytag/", header("Accept", restdata.URIListMediaType), "")
	assert.Empty(t, lines(resp.Body.String()))

	resp = f.do("DELETE", "/-/", header(restdata.CategoryHeader, tagCategory), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	_, err = f.catalog.Category(tagID)
	assert.Equal(t, occi.ErrNoSuchCategory{ID: tagID}, err)
}

func TestAssociateNothingFound(t *testing.T) {
	f := newFixture(t, Config{})
	resp := f.do("PUT", "/-/", header(restdata.CategoryHeader, tagCategory+`; location="/mytag/"`), "")
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = f.do("POST", "/mytag/", header(
		restdata.CategoryHeader, tagCategory,
		restdata.LocationHeader, "/compute/"+missing,
	), "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	b := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	s := f.save(t, occi.Entity{Kind: extension.StorageKind})

	resp := f.do("DELETE", a.Location, nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = f.do("GET", a.Location, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = f.do("DELETE", a.Location, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = f.do("DELETE", "/compute/", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	_, err := f.catalog.Entity(b.ID)
	assert.Equal(t, occi.ErrNoSuchEntity{ID: b.ID}, err)
	_, err = f.catalog.Entity(s.ID)
	assert.NoError(t, err)
}

// TestDeleteRoot checks that the root collection is only cleared
// when a category narrows it.
func TestDeleteRoot(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	s := f.save(t, occi.Entity{Kind: extension.StorageKind})

	resp := f.do("DELETE", "/", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	_, err := f.catalog.Entity(a.ID)
	assert.NoError(t, err)

	resp = f.do("DELETE", "/?category=compute", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	_, err = f.catalog.Entity(a.ID)
	assert.Equal(t, occi.ErrNoSuchEntity{ID: a.ID}, err)
	_, err = f.catalog.Entity(s.ID)
	assert.NoError(t, err)
}

func TestHead(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.save(t, occi.Entity{Kind: extension.ComputeKind})
	resp := f.do("HEAD", a.Location, header("Accept", restdata.OCCIJSONMediaType), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, resp.Body.Len())
}

func TestErrors(t *testing.T) {
	f := newFixture(t, Config{MaxBody: 64})
	type testCase struct {
		name   string
		method string
		target string
		header http.Header
		body   string
		status int
	}
	for _, tc := range []testCase{
		{"unsupported media type", "POST", "/compute/",
			header("Content-Type", "application/xml"), "<compute/>",
			http.StatusUnsupportedMediaType},
		{"not acceptable", "GET", "/-/",
			header("Accept", "image/png"), "",
			http.StatusNotAcceptable},
		{"bad accept", "GET", "/-/",
			header("Accept", "text/occi;q=7"), "",
			http.StatusBadRequest},
		{"method", "PATCH", "/-/", nil, "",
			http.StatusMethodNotAllowed},
		{"too large", "POST", "/compute/",
			header("Content-Type", restdata.JSONMediaType), strings.Repeat(" ", 65),
			http.StatusRequestEntityTooLarge},
		{"bad json", "POST", "/compute/",
			header("Content-Type", restdata.JSONMediaType), `{"kind":`,
			http.StatusBadRequest},
		{"bad category", "POST", "/compute/",
			header(restdata.CategoryHeader, "compute"), "",
			http.StatusBadRequest},
		{"unknown kind", "POST", "/compute/",
			header(restdata.CategoryHeader, `vm; scheme="http://nowhere#"; class="kind"`), "",
			http.StatusBadRequest},
		{"tag without location", "PUT", "/-/",
			header(restdata.CategoryHeader, tagCategory), "",
			http.StatusBadRequest},
		{"nothing to create", "POST", "/compute/", nil, "",
			http.StatusBadRequest},
	} {
		resp := f.do(tc.method, tc.target, tc.header, tc.body)
		assert.Equal(t, tc.status, resp.Code, tc.name)
	}
}

// TestErrorRepresentation checks that errors come back in the
// negotiated representation.
func TestErrorRepresentation(t *testing.T) {
	f := newFixture(t, Config{})
	resp := f.do("GET", "/compute/"+missing, header("Accept", restdata.OCCIJSONMediaType), "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, restdata.OCCIJSONMediaType, resp.Header().Get("Content-Type"))
	var doc restdata.ErrorResponse
	if assert.NoError(t, codec.NewDecoderBytes(resp.Body.Bytes(), jsonHandle).Decode(&doc)) {
		assert.Equal(t, "ErrNoSuchEntity", doc.Error)
		assert.Contains(t, doc.Message, missing)
	}

	resp = f.do("GET", "/-/", header("Accept", "image/png"), "")
	assert.Equal(t, restdata.PlainMediaType, resp.Header().Get("Content-Type"))
}

func TestMetricsAndLogging(t *testing.T) {
	mock := clock.NewMock()
	f := newFixture(t, Config{Clock: mock})
	resp := f.do("GET", "/-/", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = f.do("GET", "/compute/"+missing, nil, "")
	require.Equal(t, http.StatusNotFound, resp.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("GET", "interface", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("GET", "entity", "404")))

	entries := f.hook.AllEntries()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, logrus.DebugLevel, entries[0].Level)
		assert.Equal(t, "interface", entries[0].Data["classification"])
		assert.Equal(t, http.StatusOK, entries[0].Data["status"])
		assert.Equal(t, time.Duration(0), entries[0].Data["duration"])
		assert.Equal(t, "entity", entries[1].Data["classification"])
		assert.IsType(t, occi.ErrNoSuchEntity{}, entries[1].Data[logrus.ErrorKey])
	}
}

// panicCatalog fails while listing categories.
type panicCatalog struct {
	occi.Catalog
}

func (panicCatalog) Categories() ([]occi.Category, error) {
	panic("no categories for you")
}

func TestPanic(t *testing.T) {
	backend := memory.New()
	router := NewRouter(panicCatalog{backend})
	req := httptest.NewRequest("GET", "/-/", nil)
	resp := httptest.NewRecorder()
	assert.NotPanics(t, func() { router.ServeHTTP(resp, req) })
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "no categories for you")
}

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

// TestDoubleFault checks that, if there is an error writing a
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.save(t, occi.Entity{Kind: extension.ComputeKind})

	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: e.Location,
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{"Accept": {restdata.OCCIJSONMediaType}},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	f.handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
