// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package classify

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
)

// ParseOperator reads the operator query parameter: "0" or "equal"
// for exact matching, "1" or "like" for substring matching.  Anything
// else is exact matching.
func ParseOperator(s string) occi.Operator {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "like":
		return occi.OperatorLike
	default:
		return occi.OperatorEqual
	}
}

// Filter builds the collection filter for a query on path.
//
// If the path names a category, that category is the filter and the
// category query parameter is ignored.  The root path uses the
// category query parameter, which may be an identifier or a term.
// Any other path selects entities stored beneath it.
//
// Pagination parameters that are missing, malformed, or out of range
// fall back to the defaults rather than failing.
func Filter(l occi.Lookup, path string, query url.Values) (occi.CollectionFilter, error) {
	filter := occi.NewCollectionFilter()
	if page, err := strconv.Atoi(query.Get(restdata.PageParam)); err == nil && page >= 1 {
		filter.Page = page
	}
	if number, err := strconv.Atoi(query.Get(restdata.NumberParam)); err == nil && number != 0 {
		filter.PageSize = number
	}
	filter.Operator = ParseOperator(query.Get(restdata.OperatorParam))
	filter.AttributeFilter = query.Get(restdata.AttributeParam)
	filter.ValueFilter = query.Get(restdata.ValueParam)

	cat, found, err := CategoryAt(l, path)
	if err != nil {
		return filter, err
	}
	switch {
	case found:
		filter.CategoryFilter = cat.ID()
	case strings.Trim(path, "/") == "":
		param := query.Get(restdata.CategoryParam)
		if param == "" || strings.Contains(param, "#") {
			filter.CategoryFilter = param
			break
		}
		cat, found, err = CategoryAt(l, param)
		if err != nil {
			return filter, err
		}
		if found {
			filter.CategoryFilter = cat.ID()
		} else {
			filter.CategoryFilter = param
		}
	default:
		filter.PathFilter = occi.NormalizeLocation(path)
	}
	return filter, nil
}

// ApplyActionParam folds the action query parameter into decoded
// records.  Records that already name an action keep it; if there are
// no records, one is created for the action.  The parameter may be a
// full identifier or just a term.
func ApplyActionParam(records []occi.RequestRecord, query url.Values) []occi.RequestRecord {
	action := strings.TrimSpace(query.Get(restdata.ActionParam))
	if action == "" {
		return records
	}
	if len(records) == 0 {
		return []occi.RequestRecord{{Action: action}}
	}
	result := make([]occi.RequestRecord, len(records))
	for i, r := range records {
		if r.Action == "" {
			r.Action = action
		}
		result[i] = r
	}
	return result
}
