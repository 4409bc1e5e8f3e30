// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeLookup is a minimal Lookup over a fixed category list.
type fakeLookup struct {
	categories []Category
	entities   map[string]Entity
}

func (f fakeLookup) Categories() ([]Category, error) {
	return f.categories, nil
}

func (f fakeLookup) Category(id string) (Category, error) {
	for _, c := range f.categories {
		if c.ID() == id {
			return c, nil
		}
	}
	return Category{}, ErrNoSuchCategory{ID: id}
}

func (f fakeLookup) CategoriesByTerm(term string) ([]Category, error) {
	var result []Category
	for _, c := range f.categories {
		if strings.EqualFold(c.Term, term) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f fakeLookup) Entity(id string) (Entity, error) {
	if e, ok := f.entities[id]; ok {
		return e, nil
	}
	return Entity{}, ErrNoSuchEntity{ID: id}
}

func (f fakeLookup) EntityLocation(id string) (string, error) {
	e, err := f.Entity(id)
	return e.Location, err
}

const testScheme = "http://example.com/occi#"

func defaultOf(v Value) *Value {
	return &v
}

func newFakeLookup() fakeLookup {
	return fakeLookup{
		categories: []Category{
			{Scheme: CoreScheme, Term: "entity", Class: ClassKind},
			{Scheme: CoreScheme, Term: "resource", Class: ClassKind, Parent: EntityKind},
			{Scheme: CoreScheme, Term: "link", Class: ClassKind, Parent: EntityKind},
			{
				Scheme:   testScheme,
				Term:     "vm",
				Class:    ClassKind,
				Parent:   ResourceKind,
				Location: "/vm/",
				Attributes: []AttributeDef{
					{Name: "vm.cores", Type: "integer", Default: defaultOf(Number(1))},
					{Name: "vm.name", Type: "string", Immutable: true},
					{Name: "vm.arch", Type: "string", Required: true},
				},
			},
			{
				Scheme: testScheme,
				Term:   "big",
				Class:  ClassMixin,
				Attributes: []AttributeDef{
					{Name: "big.factor", Type: "float"},
				},
			},
			{Scheme: testScheme, Term: "wire", Class: ClassKind, Parent: LinkKind},
			{Scheme: testScheme, Term: "reboot", Class: ClassAction},
		},
	}
}

func TestAncestors(t *testing.T) {
	l := newFakeLookup()
	assert.Equal(t, []string{ResourceKind, EntityKind}, Ancestors(l, testScheme+"vm"))
	assert.Nil(t, Ancestors(l, EntityKind))
	assert.True(t, IsLinkKind(l, testScheme+"wire"))
	assert.False(t, IsLinkKind(l, testScheme+"vm"))
}

func TestPrepareEntity(t *testing.T) {
	l := newFakeLookup()
	ctx := &Context{Owner: "alice", IDs: &SequenceGenerator{}}
	e, err := PrepareEntity(l, ctx, Entity{
		Kind:   testScheme + "vm",
		Mixins: []string{testScheme + "big"},
		Attributes: NewAttributes(
			Attribute{Name: "vm.arch", Value: String("x86")},
			Attribute{Name: "big.factor", Value: String("1.5")},
			Attribute{Name: AttrTitle, Value: String("my vm")},
		),
	})
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "00000000-0000-4000-8000-000000000001", e.ID)
	assert.Equal(t, "/vm/"+e.ID, e.Location)
	assert.Equal(t, "alice", e.Owner)
	assert.Equal(t, "my vm", e.Title)
	v, _ := e.Attributes.Get("big.factor")
	assert.Equal(t, Number(1.5), v)
	v, _ = e.Attributes.Get("vm.cores")
	assert.Equal(t, Number(1), v)
	_, present := e.Attributes.Get(AttrTitle)
	assert.False(t, present)
}

func TestPrepareEntityErrors(t *testing.T) {
	l := newFakeLookup()
	ctx := NewContext()
	arch := NewAttributes(Attribute{Name: "vm.arch", Value: String("x86")})

	_, err := PrepareEntity(l, ctx, Entity{})
	assert.Equal(t, ErrNoKind, err)

	_, err = PrepareEntity(l, ctx, Entity{Kind: testScheme + "nope"})
	assert.Equal(t, CategoryError{ID: testScheme + "nope"}, err)

	_, err = PrepareEntity(l, ctx, Entity{Kind: testScheme + "big"})
	assert.IsType(t, CategoryError{}, err)

	_, err = PrepareEntity(l, ctx, Entity{Kind: testScheme + "vm"})
	assert.Equal(t, ErrInvalidAttribute{Name: "vm.arch", Reason: "is required"}, err)

	_, err = PrepareEntity(l, ctx, Entity{
		Kind:       testScheme + "vm",
		Mixins:     []string{testScheme + "vm"},
		Attributes: arch,
	})
	assert.IsType(t, CategoryError{}, err)

	_, err = PrepareEntity(l, ctx, Entity{
		Kind:       testScheme + "wire",
		Source:     "/vm/a",
		Attributes: arch,
	})
	assert.IsType(t, ErrInvalidAttribute{}, err)
}

func TestMergeEntity(t *testing.T) {
	l := newFakeLookup()
	existing := Entity{
		ID:    "x",
		Kind:  testScheme + "vm",
		Title: "old",
		Attributes: NewAttributes(
			Attribute{Name: "vm.name", Value: String("n")},
			Attribute{Name: "vm.cores", Value: Number(1)},
		),
	}
	merged, err := MergeEntity(l, existing, Entity{
		Mixins: []string{testScheme + "big"},
		Attributes: NewAttributes(
			Attribute{Name: "vm.cores", Value: String("4")},
			Attribute{Name: AttrSummary, Value: String("sum")},
		),
	})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{testScheme + "big"}, merged.Mixins)
		assert.Equal(t, "old", merged.Title)
		assert.Equal(t, "sum", merged.Summary)
		v, _ := merged.Attributes.Get("vm.cores")
		assert.Equal(t, Number(4), v)
	}

	_, err = MergeEntity(l, existing, Entity{
		Attributes: NewAttributes(Attribute{Name: "vm.name", Value: String("m")}),
	})
	assert.Equal(t, ErrInvalidAttribute{Name: "vm.name", Reason: "is immutable"}, err)
}

func TestValidateMixinTag(t *testing.T) {
	l := newFakeLookup()
	good := Category{Scheme: "http://me#", Term: "mine", Class: ClassMixin, Location: "/mine/", Tag: true}
	assert.NoError(t, ValidateMixinTag(l, good))

	bad := good
	bad.Location = "/vm/"
	assert.Equal(t, ErrLocationInUse, ValidateMixinTag(l, bad))

	bad = good
	bad.Attributes = []AttributeDef{{Name: "a"}}
	assert.Equal(t, ErrTagHasAttributes, ValidateMixinTag(l, bad))

	bad = good
	bad.Location = ""
	assert.IsType(t, CategoryError{}, ValidateMixinTag(l, bad))

	shadow := Category{Scheme: testScheme, Term: "big", Class: ClassMixin, Location: "/x/", Tag: true}
	assert.IsType(t, CategoryError{}, ValidateMixinTag(l, shadow))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in string
		id string
		ok bool
	}{
		{"6df690d2-3158-40c4-88fb-d1c41584d6e5", "6df690d2-3158-40c4-88fb-d1c41584d6e5", true},
		{"/compute/6DF690D2-3158-40C4-88FB-D1C41584D6E5", "6df690d2-3158-40c4-88fb-d1c41584d6e5", true},
		{"/compute/urn:uuid:6df690d2-3158-40c4-88fb-d1c41584d6e5/", "6df690d2-3158-40c4-88fb-d1c41584d6e5", true},
		{"/compute/", "", false},
		{"/compute/vm1", "", false},
		{"", "", false},
	}
	for _, test := range tests {
		id, ok := ParseID(test.in)
		assert.Equal(t, test.ok, ok, "ParseID(%q)", test.in)
		assert.Equal(t, test.id, id, "ParseID(%q)", test.in)
	}
}

func TestLocations(t *testing.T) {
	assert.Equal(t, "/a/b/", NormalizeLocation("a//b"))
	assert.Equal(t, "/", NormalizeLocation("/"))
	assert.Equal(t, "", NormalizeLocation(""))
	assert.True(t, PathContains("/a", "/a/b"))
	assert.True(t, PathContains("/a/b", "/a/b"))
	assert.False(t, PathContains("/a/", "/ab/c"))
	assert.True(t, PathContains("/", "/ab/c"))
	assert.Equal(t, "/x", EntityLocation("", "x"))
	assert.Equal(t, "/c/x", EntityLocation("c", "x"))
}

func TestCollectionFilter(t *testing.T) {
	l := newFakeLookup()
	e := Entity{
		ID:       "id1",
		Kind:     testScheme + "vm",
		Mixins:   []string{testScheme + "big"},
		Title:    "Web Server",
		Location: "/vm/id1",
		Attributes: NewAttributes(
			Attribute{Name: "vm.cores", Value: Number(2)},
		),
	}
	ancestors := func(kind string) []string { return Ancestors(l, kind) }
	tests := []struct {
		filter CollectionFilter
		match  bool
	}{
		{CollectionFilter{}, true},
		{CollectionFilter{CategoryFilter: testScheme + "vm"}, true},
		{CollectionFilter{CategoryFilter: ResourceKind}, true},
		{CollectionFilter{CategoryFilter: testScheme + "big"}, true},
		{CollectionFilter{CategoryFilter: LinkKind}, false},
		{CollectionFilter{PathFilter: "/vm/"}, true},
		{CollectionFilter{PathFilter: "/other/"}, false},
		{CollectionFilter{AttributeFilter: "vm.cores", ValueFilter: "2"}, true},
		{CollectionFilter{AttributeFilter: "vm.cores", ValueFilter: "3"}, false},
		{CollectionFilter{AttributeFilter: "vm.ram"}, false},
		{CollectionFilter{ValueFilter: "web", Operator: OperatorLike}, true},
		{CollectionFilter{ValueFilter: "web"}, false},
		{CollectionFilter{AttributeFilter: AttrTitle, ValueFilter: "Web Server"}, true},
	}
	for _, test := range tests {
		assert.Equal(t, test.match, test.filter.Matches(e, ancestors), "%+v", test.filter)
	}
}

func TestPaginate(t *testing.T) {
	entities := make([]Entity, 5)
	for i := range entities {
		entities[i].ID = string(rune('a' + i))
	}
	f := CollectionFilter{Page: 2, PageSize: 2}
	assert.Equal(t, entities[2:4], f.Paginate(entities))
	f.Page = 3
	assert.Equal(t, entities[4:], f.Paginate(entities))
	f.Page = 4
	assert.Empty(t, f.Paginate(entities))
	f.PageSize = -1
	assert.Equal(t, entities, f.Paginate(entities))
	f = CollectionFilter{Page: 0, PageSize: 3}
	assert.Equal(t, entities[:3], f.Paginate(entities))
}

func TestRecordSubject(t *testing.T) {
	assert.Equal(t, SubjectNone, RequestRecord{}.Subject())
	assert.Equal(t, SubjectEntity, RequestRecord{Kind: "k"}.Subject())
	assert.Equal(t, SubjectAction, RequestRecord{Action: "a"}.Subject())
	assert.Equal(t, SubjectMixinTag, RequestRecord{MixinTag: "m", Location: "/m/"}.Subject())
	assert.NoError(t, RequestRecord{MixinTag: "m"}.Validate())
	assert.Equal(t, ErrMixedSubject, RequestRecord{MixinTag: "m", Kind: "k"}.Validate())
}
