// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	"github.com/diffeo/go-occi/occi"
)

func (v view) Categories() ([]occi.Category, error) {
	query := buildSelect([]string{categoryData}, []string{categoryTable}, nil) +
		" ORDER BY " + categoryPosition
	return v.scanCategories(query, nil)
}

func (v view) Category(id string) (occi.Category, error) {
	query := buildSelect([]string{categoryData}, []string{categoryTable}, []string{isCategory})
	var data []byte
	err := v.tx.QueryRow(query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return occi.Category{}, occi.ErrNoSuchCategory{ID: id}
	}
	if err != nil {
		return occi.Category{}, err
	}
	return bytesToCategory(data)
}

func (v view) CategoriesByTerm(term string) ([]occi.Category, error) {
	query := buildSelect([]string{categoryData}, []string{categoryTable}, []string{hasThisTerm}) +
		" ORDER BY " + categoryPosition
	return v.scanCategories(query, queryParams{term})
}

func (v view) scanCategories(query string, params queryParams) (cats []occi.Category, err error) {
	err = queryInTx(v.tx, query, params, func(rows *sql.Rows) error {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return err
		}
		cat, err := bytesToCategory(data)
		if err == nil {
			cats = append(cats, cat)
		}
		return err
	})
	return
}

// put creates or replaces a category.  A replaced category keeps its
// original position.
func (v view) put(cat occi.Category) error {
	data, err := categoryToBytes(cat)
	if err != nil {
		return err
	}
	var (
		params queryParams
		fields fieldList
	)
	fields.Add(&params, "id", cat.ID())
	fields.Add(&params, "term", cat.Term)
	fields.Add(&params, "tag", cat.Tag)
	fields.Add(&params, "data", data)
	_, err = v.tx.Exec(fields.UpsertStatement(categoryTable, "id"), params...)
	return err
}

func (v view) checkMixin(id string) error {
	cat, err := v.Category(id)
	if _, missing := err.(occi.ErrNoSuchCategory); missing {
		return occi.CategoryError{ID: id}
	}
	if err != nil {
		return err
	}
	if cat.Class != occi.ClassMixin {
		return occi.CategoryError{ID: id, Reason: "is not a mixin"}
	}
	return nil
}

// occi.Catalog interface:

func (c *pgCatalog) Register(categories ...occi.Category) error {
	return c.write(func(v view) error {
		for _, cat := range categories {
			if err := v.put(cat); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *pgCatalog) DefineMixinTag(ctx *occi.Context, tag occi.Category) error {
	return c.write(func(v view) error {
		tag.Class = occi.ClassMixin
		tag.Tag = true
		tag.Location = occi.NormalizeLocation(tag.Location)
		if err := occi.ValidateMixinTag(v, tag); err != nil {
			return err
		}
		return v.put(tag)
	})
}

func (c *pgCatalog) DeleteMixinTag(id string) error {
	return c.write(func(v view) error {
		cat, err := v.Category(id)
		if err != nil {
			return err
		}
		if !cat.Tag {
			return occi.ErrNotTag
		}
		_, err = v.tx.Exec(buildDelete(entityMixinTable, []string{mixinID + "=$1"}), id)
		if err != nil {
			return err
		}
		_, err = v.tx.Exec(buildDelete(categoryTable, []string{isCategory}), id)
		return err
	})
}
