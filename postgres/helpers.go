// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"
	"strings"

	"github.com/diffeo/go-occi/occi"
	"github.com/ugorji/go/codec"
)

// cborHandle encodes the structured columns.  Field names are stored
// as-is; there is no struct tag mapping.
var cborHandle = &codec.CborHandle{}

// category <-> binary encoders

func categoryToBytes(cat occi.Category) (out []byte, err error) {
	err = codec.NewEncoderBytes(&out, cborHandle).Encode(cat)
	return
}

func bytesToCategory(in []byte) (cat occi.Category, err error) {
	err = codec.NewDecoderBytes(in, cborHandle).Decode(&cat)
	return
}

// attribute bag <-> binary encoders

func attributesToBytes(attrs occi.Attributes) ([]byte, error) {
	if attrs.Len() == 0 {
		return nil, nil
	}
	var out []byte
	err := codec.NewEncoderBytes(&out, cborHandle).Encode(attrs.List())
	return out, err
}

func bytesToAttributes(in []byte) (occi.Attributes, error) {
	if len(in) == 0 {
		return occi.Attributes{}, nil
	}
	var list []occi.Attribute
	err := codec.NewDecoderBytes(in, cborHandle).Decode(&list)
	if err != nil {
		return occi.Attributes{}, err
	}
	return occi.NewAttributes(list...), nil
}

// other SQL encoders

// stringToNull maps the empty string to SQL NULL.
func stringToNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// likeEscaper escapes the LIKE wildcards using the default backslash
// escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix returns a LIKE pattern matching every string that
// starts with prefix.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

// trimLocation is the Go equivalent of the trimmedLocation SQL
// expression.
func trimLocation(location string) string {
	return strings.Trim(location, "/")
}
