// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package catalogtest provides generic functional tests for the
// occi.Catalog interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-occi/occi/catalogtest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     func TestCatalog(t *testing.T) {
//             suite.Run(t, &catalogtest.Suite{NewCatalog: New})
//     }
package catalogtest

import (
	"github.com/diffeo/go-occi/extension"
	"github.com/diffeo/go-occi/occi"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic catalog backend test suite.
type Suite struct {
	suite.Suite

	// NewCatalog creates a fresh, empty catalog.  It is called
	// before every test.  It is set by importing packages.
	NewCatalog func() (occi.Catalog, error)

	// Catalog is the catalog under test, with the standard
	// extensions installed.
	Catalog occi.Catalog

	// Context has a predictable identifier generator.
	Context *occi.Context
}

// SetupTest creates a new catalog for each test.
func (s *Suite) SetupTest() {
	var err error
	s.Catalog, err = s.NewCatalog()
	s.Require().NoError(err)
	s.Require().NoError(extension.Install(s.Catalog, extension.Standard()...))
	s.Context = &occi.Context{Owner: "tester", IDs: &occi.SequenceGenerator{}}
}

func (s *Suite) compute(attrs ...occi.Attribute) occi.Entity {
	e, created, err := s.Catalog.SaveEntity(s.Context, occi.Entity{
		Kind:       extension.ComputeKind,
		Attributes: occi.NewAttributes(attrs...),
	})
	s.Require().NoError(err)
	s.Require().True(created)
	return e
}

// TestCategoryLookup checks the category read interface.
func (s *Suite) TestCategoryLookup() {
	cat, err := s.Catalog.Category(extension.ComputeKind)
	if s.NoError(err) {
		s.Equal("compute", cat.Term)
		s.Equal(occi.ClassKind, cat.Class)
		s.Equal("/compute/", cat.Location)
		s.Equal(extension.InfrastructureName, cat.Extension)
	}

	_, err = s.Catalog.Category("http://nowhere#nothing")
	s.Equal(occi.ErrNoSuchCategory{ID: "http://nowhere#nothing"}, err)

	cats, err := s.Catalog.CategoriesByTerm("COMPUTE")
	if s.NoError(err) && s.Len(cats, 1) {
		s.Equal(extension.ComputeKind, cats[0].ID())
	}

	all, err := s.Catalog.Categories()
	if s.NoError(err) && s.NotEmpty(all) {
		s.Equal(occi.EntityKind, all[0].ID())
	}
}

// TestRegisterReplaces checks that registering a category twice
// replaces it.
func (s *Suite) TestRegisterReplaces() {
	cat := occi.Category{Scheme: "http://x#", Term: "k", Class: occi.ClassKind, Parent: occi.ResourceKind}
	s.NoError(s.Catalog.Register(cat))
	cat.Title = "Second"
	s.NoError(s.Catalog.Register(cat))
	got, err := s.Catalog.Category("http://x#k")
	if s.NoError(err) {
		s.Equal("Second", got.Title)
	}
	cats, err := s.Catalog.CategoriesByTerm("k")
	if s.NoError(err) {
		s.Len(cats, 1)
	}
}

// TestSaveEntity checks creating and replacing an entity.
func (s *Suite) TestSaveEntity() {
	e := s.compute(
		occi.Attribute{Name: "occi.compute.cores", Value: occi.String("2")},
		occi.Attribute{Name: occi.AttrTitle, Value: occi.String("web")},
	)
	s.Equal("00000000-0000-4000-8000-000000000001", e.ID)
	s.Equal("/compute/"+e.ID, e.Location)
	s.Equal("web", e.Title)
	s.Equal("tester", e.Owner)
	v, _ := e.Attributes.Get("occi.compute.cores")
	s.Equal(occi.Number(2), v)
	v, _ = e.Attributes.Get(extension.ComputeState)
	s.Equal(occi.String("inactive"), v)

	location, err := s.Catalog.EntityLocation(e.ID)
	if s.NoError(err) {
		s.Equal(e.Location, location)
	}

	replaced, created, err := s.Catalog.SaveEntity(s.Context, occi.Entity{
		ID:   e.ID,
		Kind: extension.ComputeKind,
		Attributes: occi.NewAttributes(
			occi.Attribute{Name: "occi.compute.hostname", Value: occi.String("h")},
		),
	})
	if s.NoError(err) {
		s.False(created)
		s.Equal(e.Location, replaced.Location)
		_, present := replaced.Attributes.Get("occi.compute.cores")
		s.False(present)
		s.Equal("h", replaced.Attributes.GetString("occi.compute.hostname"))
	}

	got, err := s.Catalog.Entity(e.ID)
	if s.NoError(err) {
		s.Equal(replaced.Attributes, got.Attributes)
	}
}

// TestSaveEntityErrors checks validation failures.
func (s *Suite) TestSaveEntityErrors() {
	_, _, err := s.Catalog.SaveEntity(s.Context, occi.Entity{Kind: "http://x#nope"})
	s.Equal(occi.CategoryError{ID: "http://x#nope"}, err)

	_, _, err = s.Catalog.SaveEntity(s.Context, occi.Entity{
		Kind:       extension.ComputeKind,
		Attributes: occi.NewAttributes(occi.Attribute{Name: "occi.compute.cores", Value: occi.String("many")}),
	})
	s.IsType(occi.ErrInvalidAttribute{}, err)

	e := s.compute()
	_, _, err = s.Catalog.SaveEntity(s.Context, occi.Entity{
		Kind:     extension.StorageKind,
		Location: e.Location,
	})
	s.Equal(occi.ErrLocationInUse, err)

	_, err = s.Catalog.Entity("00000000-0000-4000-8000-0000000000ff")
	s.Equal(occi.ErrNoSuchEntity{ID: "00000000-0000-4000-8000-0000000000ff"}, err)
}

// TestUpdateEntity checks partial updates.
func (s *Suite) TestUpdateEntity() {
	e := s.compute(occi.Attribute{Name: "occi.compute.cores", Value: occi.Number(1)})
	updated, err := s.Catalog.UpdateEntity(s.Context, occi.Entity{
		ID:      e.ID,
		Summary: "updated",
		Mixins:  []string{extension.InfrastructureScheme + "os_tpl"},
		Attributes: occi.NewAttributes(
			occi.Attribute{Name: "occi.compute.memory", Value: occi.Number(2.5)},
		),
	})
	if s.NoError(err) {
		s.Equal("updated", updated.Summary)
		s.Equal([]string{extension.InfrastructureScheme + "os_tpl"}, updated.Mixins)
		s.Equal("1", updated.Attributes.GetString("occi.compute.cores"))
		s.Equal("2.5", updated.Attributes.GetString("occi.compute.memory"))
	}

	_, err = s.Catalog.UpdateEntity(s.Context, occi.Entity{ID: "missing"})
	s.Equal(occi.ErrNoSuchEntity{ID: "missing"}, err)
}

// TestLinks checks that links are embedded in their source resource
// and deleted with it.
func (s *Suite) TestLinks() {
	vm := s.compute()
	disk, _, err := s.Catalog.SaveEntity(s.Context, occi.Entity{Kind: extension.StorageKind})
	s.Require().NoError(err)
	link, _, err := s.Catalog.SaveEntity(s.Context, occi.Entity{
		Kind:   extension.StorageLinkKind,
		Source: vm.Location,
		Target: disk.Location,
	})
	s.Require().NoError(err)
	s.True(link.IsLink())
	s.Equal("/storagelink/"+link.ID, link.Location)

	got, err := s.Catalog.Entity(vm.ID)
	if s.NoError(err) && s.Len(got.Links, 1) {
		s.Equal(link.ID, got.Links[0].ID)
		s.Equal(disk.Location, got.Links[0].Target)
	}

	s.NoError(s.Catalog.DeleteEntity(vm.ID))
	_, err = s.Catalog.Entity(link.ID)
	s.Equal(occi.ErrNoSuchEntity{ID: link.ID}, err)
	_, err = s.Catalog.Entity(disk.ID)
	s.NoError(err)

	s.Equal(occi.ErrNoSuchEntity{ID: vm.ID}, s.Catalog.DeleteEntity(vm.ID))
}

// TestEntitiesFilter checks collection queries.
func (s *Suite) TestEntitiesFilter() {
	a := s.compute(occi.Attribute{Name: "occi.compute.hostname", Value: occi.String("alpha")})
	b := s.compute(occi.Attribute{Name: "occi.compute.hostname", Value: occi.String("beta")})
	n, _, err := s.Catalog.SaveEntity(s.Context, occi.Entity{Kind: extension.NetworkKind})
	s.Require().NoError(err)

	all := occi.NewCollectionFilter()
	found, err := s.Catalog.Entities(all)
	if s.NoError(err) {
		s.Len(found, 3)
	}

	f := occi.NewCollectionFilter()
	f.CategoryFilter = extension.ComputeKind
	found, err = s.Catalog.Entities(f)
	if s.NoError(err) && s.Len(found, 2) {
		s.Equal(a.ID, found[0].ID)
		s.Equal(b.ID, found[1].ID)
	}

	f = occi.NewCollectionFilter()
	f.CategoryFilter = occi.ResourceKind
	found, err = s.Catalog.Entities(f)
	if s.NoError(err) {
		s.Len(found, 3)
	}

	f = occi.NewCollectionFilter()
	f.PathFilter = "/network/"
	found, err = s.Catalog.Entities(f)
	if s.NoError(err) && s.Len(found, 1) {
		s.Equal(n.ID, found[0].ID)
	}

	f = occi.NewCollectionFilter()
	f.AttributeFilter = "occi.compute.hostname"
	f.ValueFilter = "ET"
	f.Operator = occi.OperatorLike
	found, err = s.Catalog.Entities(f)
	if s.NoError(err) && s.Len(found, 1) {
		s.Equal(b.ID, found[0].ID)
	}

	f = occi.NewCollectionFilter()
	f.PageSize = 2
	f.Page = 2
	found, err = s.Catalog.Entities(f)
	if s.NoError(err) {
		s.Len(found, 1)
	}
}

// TestMixinTags checks defining, associating, and deleting a tag.
func (s *Suite) TestMixinTags() {
	tag := occi.Category{
		Scheme:   "http://me.example.com/tags#",
		Term:     "mine",
		Title:    "My stuff",
		Location: "/mine",
	}
	s.Require().NoError(s.Catalog.DefineMixinTag(s.Context, tag))
	got, err := s.Catalog.Category(tag.ID())
	if s.NoError(err) {
		s.True(got.Tag)
		s.Equal(occi.ClassMixin, got.Class)
		s.Equal("/mine/", got.Location)
	}

	vm := s.compute()
	s.NoError(s.Catalog.Associate(tag.ID(), vm.ID))
	s.NoError(s.Catalog.Associate(tag.ID(), vm.ID))
	e, err := s.Catalog.Entity(vm.ID)
	if s.NoError(err) {
		s.Equal([]string{tag.ID()}, e.Mixins)
	}

	f := occi.NewCollectionFilter()
	f.CategoryFilter = tag.ID()
	found, err := s.Catalog.Entities(f)
	if s.NoError(err) {
		s.Len(found, 1)
	}

	s.Equal(occi.ErrNoSuchEntity{ID: "nope"}, s.Catalog.Associate(tag.ID(), "nope"))
	s.IsType(occi.CategoryError{}, s.Catalog.Associate("http://x#none", vm.ID))
	s.IsType(occi.CategoryError{}, s.Catalog.Associate(extension.ComputeKind, vm.ID))

	s.NoError(s.Catalog.Dissociate(tag.ID(), vm.ID))
	e, err = s.Catalog.Entity(vm.ID)
	if s.NoError(err) {
		s.Empty(e.Mixins)
	}

	s.NoError(s.Catalog.Associate(tag.ID(), vm.ID))
	s.NoError(s.Catalog.DeleteMixinTag(tag.ID()))
	_, err = s.Catalog.Category(tag.ID())
	s.IsType(occi.ErrNoSuchCategory{}, err)
	e, err = s.Catalog.Entity(vm.ID)
	if s.NoError(err) {
		s.Empty(e.Mixins)
	}

	s.Equal(occi.ErrNotTag, s.Catalog.DeleteMixinTag(extension.InfrastructureScheme+"os_tpl"))
}

// TestMixinTagErrors checks invalid tag definitions.
func (s *Suite) TestMixinTagErrors() {
	s.Equal(occi.ErrLocationInUse, s.Catalog.DefineMixinTag(s.Context, occi.Category{
		Scheme:   "http://me#",
		Term:     "clash",
		Location: "/compute/",
	}))
	s.Equal(occi.ErrTagHasAttributes, s.Catalog.DefineMixinTag(s.Context, occi.Category{
		Scheme:     "http://me#",
		Term:       "attrs",
		Location:   "/attrs/",
		Attributes: []occi.AttributeDef{{Name: "a"}},
	}))
	s.IsType(occi.CategoryError{}, s.Catalog.DefineMixinTag(s.Context, occi.Category{
		Scheme:   extension.InfrastructureScheme,
		Term:     "os_tpl",
		Location: "/elsewhere/",
	}))
}
