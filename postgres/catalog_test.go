// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres_test

import (
	"os"
	"testing"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/occi/catalogtest"
	"github.com/diffeo/go-occi/postgres"
	"github.com/stretchr/testify/suite"
)

// newCatalog creates a PostgreSQL catalog backend with an empty
// schema, using an empty string as the connection string.  This
// means that, when you run "go test", you must set environment
// variables as described in
// http://www.postgresql.org/docs/current/static/libpq-envars.html
func newCatalog() (occi.Catalog, error) {
	db, err := postgres.Open("")
	if err != nil {
		return nil, err
	}
	err = postgres.Drop(db)
	if err == nil {
		err = db.Close()
	}
	if err != nil {
		return nil, err
	}
	return postgres.New("")
}

// TestCatalog runs the generic catalog tests against PostgreSQL.  It
// is skipped unless PGHOST names a database server.
func TestCatalog(t *testing.T) {
	if os.Getenv("PGHOST") == "" {
		t.Skip("PGHOST not set")
	}
	suite.Run(t, &catalogtest.Suite{NewCatalog: newCatalog})
}
