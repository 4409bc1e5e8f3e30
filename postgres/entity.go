// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"
	"sort"

	"github.com/diffeo/go-occi/occi"
	"github.com/lib/pq"
)

// scanner is the part of *sql.Row and *sql.Rows scanEntity needs.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEntity reads the entityColumns of one row.  Mixins and links
// are not filled in.
func scanEntity(row scanner) (occi.Entity, error) {
	var (
		e              occi.Entity
		source, target sql.NullString
		attrs          []byte
	)
	err := row.Scan(&e.ID, &e.Location, &e.Kind, &e.Owner, &e.Title, &e.Summary, &source, &target, &attrs)
	if err != nil {
		return e, err
	}
	e.Source = source.String
	e.Target = target.String
	e.Attributes, err = bytesToAttributes(attrs)
	return e, err
}

// scanEntities runs a query returning entityColumns, then fills in
// each entity's mixins.  Rows are collected first since the
// connection cannot run a second query while they are open.
func (v view) scanEntities(query string, params queryParams) (result []occi.Entity, err error) {
	err = queryInTx(v.tx, query, params, func(rows *sql.Rows) error {
		e, err := scanEntity(rows)
		if err == nil {
			result = append(result, e)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Mixins, err = v.mixins(result[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (v view) mixins(id string) (mixins []string, err error) {
	query := buildSelect([]string{mixinID}, []string{entityMixinTable}, []string{mixinEntity + "=$1"}) +
		" ORDER BY " + mixinPosition
	err = queryInTx(v.tx, query, queryParams{id}, func(rows *sql.Rows) error {
		var mixin string
		err := rows.Scan(&mixin)
		if err == nil {
			mixins = append(mixins, mixin)
		}
		return err
	})
	return
}

// entity fetches a stored entity without its links.
func (v view) entity(id string) (occi.Entity, error) {
	query := buildSelect(entityColumns, []string{entityTable}, []string{isEntity})
	e, err := scanEntity(v.tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return occi.Entity{}, occi.ErrNoSuchEntity{ID: id}
	}
	if err != nil {
		return occi.Entity{}, err
	}
	e.Mixins, err = v.mixins(id)
	return e, err
}

func (v view) Entity(id string) (occi.Entity, error) {
	e, err := v.entity(id)
	if err == nil && !e.IsLink() {
		e.Links, err = v.linksFrom(e.Location)
	}
	return e, err
}

func (v view) EntityLocation(id string) (string, error) {
	query := buildSelect([]string{entityLocation}, []string{entityTable}, []string{isEntity})
	var location string
	err := v.tx.QueryRow(query, id).Scan(&location)
	if err == sql.ErrNoRows {
		return "", occi.ErrNoSuchEntity{ID: id}
	}
	return location, err
}

// linksFrom returns every link whose source is location, ordered by
// location.
func (v view) linksFrom(location string) ([]occi.Entity, error) {
	query := buildSelect(entityColumns, []string{entityTable}, []string{trimmedSource + "=$1"}) +
		" ORDER BY " + entityLocation
	return v.scanEntities(query, queryParams{trimLocation(location)})
}

// checkLocation returns ErrLocationInUse if some entity other than id
// is stored at location.
func (v view) checkLocation(id, location string) error {
	query := buildSelect([]string{entityID}, []string{entityTable}, []string{
		trimmedLocation + "=$1",
		entityID + "<>$2",
	})
	var other string
	err := v.tx.QueryRow(query, trimLocation(location), id).Scan(&other)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	return occi.ErrLocationInUse
}

// store writes an entity row and replaces its mixin list.
func (v view) store(e occi.Entity) error {
	attrs, err := attributesToBytes(e.Attributes)
	if err != nil {
		return err
	}
	var (
		params queryParams
		fields fieldList
	)
	fields.Add(&params, "id", e.ID)
	fields.Add(&params, "location", e.Location)
	fields.Add(&params, "kind", e.Kind)
	fields.Add(&params, "owner", e.Owner)
	fields.Add(&params, "title", e.Title)
	fields.Add(&params, "summary", e.Summary)
	fields.Add(&params, "source", stringToNull(e.Source))
	fields.Add(&params, "target", stringToNull(e.Target))
	fields.Add(&params, "attributes", attrs)
	_, err = v.tx.Exec(fields.UpsertStatement(entityTable, "id"), params...)
	if err != nil {
		return err
	}
	_, err = v.tx.Exec(buildDelete(entityMixinTable, []string{mixinEntity + "=$1"}), e.ID)
	if err != nil {
		return err
	}
	for _, mixin := range e.Mixins {
		if err = v.addMixin(e.ID, mixin); err != nil {
			return err
		}
	}
	return nil
}

func (v view) addMixin(id, mixin string) error {
	var (
		params queryParams
		fields fieldList
	)
	fields.Add(&params, "entity_id", id)
	fields.Add(&params, "mixin", mixin)
	_, err := v.tx.Exec(fields.InsertStatement(entityMixinTable)+" ON CONFLICT DO NOTHING", params...)
	return err
}

// checkEntities returns ErrNoSuchEntity for the first of ids that
// does not exist.
func (v view) checkEntities(ids []string) error {
	for _, id := range ids {
		if _, err := v.EntityLocation(id); err != nil {
			return err
		}
	}
	return nil
}

// occi.Catalog interface:

func (c *pgCatalog) SaveEntity(ctx *occi.Context, e occi.Entity) (saved occi.Entity, created bool, err error) {
	err = c.write(func(v view) error {
		prepared, err := occi.PrepareEntity(v, ctx, e)
		if err != nil {
			return err
		}
		if err = v.checkLocation(prepared.ID, prepared.Location); err != nil {
			return err
		}
		oldLocation, err := v.EntityLocation(prepared.ID)
		exists := true
		if _, missing := err.(occi.ErrNoSuchEntity); missing {
			exists = false
		} else if err != nil {
			return err
		}
		if exists && oldLocation != prepared.Location && e.Location == "" {
			// Replacing without naming a location keeps
			// the entity where it was.
			prepared.Location = oldLocation
		}
		if err = v.store(prepared); err != nil {
			return err
		}
		created = !exists
		saved, err = v.Entity(prepared.ID)
		return err
	})
	return
}

func (c *pgCatalog) UpdateEntity(ctx *occi.Context, e occi.Entity) (updated occi.Entity, err error) {
	err = c.write(func(v view) error {
		existing, err := v.entity(e.ID)
		if err != nil {
			return err
		}
		merged, err := occi.MergeEntity(v, existing, e)
		if err != nil {
			return err
		}
		if err = v.store(merged); err != nil {
			return err
		}
		updated, err = v.Entity(e.ID)
		return err
	})
	return
}

func (c *pgCatalog) DeleteEntity(id string) error {
	return c.write(func(v view) error {
		e, err := v.entity(id)
		if err != nil {
			return err
		}
		_, err = v.tx.Exec(buildDelete(entityTable, []string{isEntity}), id)
		if err != nil || e.IsLink() {
			return err
		}
		query := buildDelete(entityTable, []string{
			entityIsLink,
			"(" + trimmedSource + "=$1 OR " + trimmedTarget + "=$1)",
		})
		_, err = v.tx.Exec(query, trimLocation(e.Location))
		return err
	})
}

func (c *pgCatalog) Entities(filter occi.CollectionFilter) (result []occi.Entity, err error) {
	err = c.read(func(v view) error {
		// Narrow the candidates in SQL; filter.Matches has the
		// final word.
		var (
			params     queryParams
			conditions []string
		)
		if path := occi.NormalizeLocation(filter.PathFilter); path != "" && path != "/" {
			conditions = append(conditions, "'/' || "+trimmedLocation+" || '/' LIKE "+params.Param(likePrefix(path)))
		}
		if filter.CategoryFilter != "" {
			cat, err := v.Category(filter.CategoryFilter)
			if err == nil && cat.Class == occi.ClassMixin {
				conditions = append(conditions, "EXISTS ("+
					buildSelect([]string{"1"}, []string{entityMixinTable}, []string{
						mixinOfEntity,
						mixinID + "=" + params.Param(filter.CategoryFilter),
					})+")")
			}
		}
		query := buildSelect(entityColumns, []string{entityTable}, conditions)
		candidates, err := v.scanEntities(query, params)
		if err != nil {
			return err
		}

		ancestors := func(kind string) []string { return occi.Ancestors(v, kind) }
		for _, e := range candidates {
			if filter.Matches(e, ancestors) {
				result = append(result, e)
			}
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Location < result[j].Location })
		result = filter.Paginate(result)
		for i := range result {
			result[i], err = v.Entity(result[i].ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return
}

func (c *pgCatalog) Associate(mixin string, ids ...string) error {
	return c.write(func(v view) error {
		if err := v.checkMixin(mixin); err != nil {
			return err
		}
		if err := v.checkEntities(ids); err != nil {
			return err
		}
		for _, id := range ids {
			if err := v.addMixin(id, mixin); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *pgCatalog) Dissociate(mixin string, ids ...string) error {
	return c.write(func(v view) error {
		if err := v.checkMixin(mixin); err != nil {
			return err
		}
		if err := v.checkEntities(ids); err != nil {
			return err
		}
		query := buildDelete(entityMixinTable, []string{mixinID + "=$1", mixinEntity + "=ANY($2)"})
		_, err := v.tx.Exec(query, mixin, pq.Array(ids))
		return err
	})
}
