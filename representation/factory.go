// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package representation

import (
	"errors"
	"mime"
	"strconv"
	"strings"

	"github.com/diffeo/go-occi/restdata"
)

// errBadAccept is returned from Negotiate if the Accept: header is
// malformed (and no more specific error applies).
var errBadAccept = errors.New("Invalid Accept: header")

// Factory maps media types to codecs.
type Factory struct {
	codecs   map[string]Codec
	fallback Codec
}

// NewFactory creates a factory for every supported media type.  The
// header codec fails renderings larger than headerLimit bytes; zero
// or negative means DefaultHeaderLimit.
func NewFactory(headerLimit int) *Factory {
	if headerLimit <= 0 {
		headerLimit = DefaultHeaderLimit
	}
	return &Factory{
		codecs: map[string]Codec{
			restdata.OCCIMediaType:     HeaderCodec{Limit: headerLimit},
			restdata.URIListMediaType:  URIListCodec{},
			restdata.JSONMediaType:     JSONCodec{Type: restdata.JSONMediaType},
			restdata.OCCIJSONMediaType: JSONCodec{Type: restdata.OCCIJSONMediaType},
			restdata.PlainMediaType:    PlainCodec{},
		},
		fallback: NoopCodec{},
	}
}

// canonicalType lower-cases a media type and strips its parameters.
func canonicalType(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		return parsed
	}
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Select returns the codec for a media type.  Comparison ignores case
// and media type parameters.  An unknown or empty media type gets a
// codec that parses nothing and renders nothing.
func (f *Factory) Select(mediaType string) Codec {
	if codec, known := f.codecs[canonicalType(mediaType)]; known {
		return codec
	}
	return f.fallback
}

// Known reports whether a media type has a real codec.
func (f *Factory) Known(mediaType string) bool {
	_, known := f.codecs[canonicalType(mediaType)]
	return known
}

// Negotiate picks the codec for a response, following the path laid
// out in RFC 7231 section 5.3.  An empty header, or one that only
// names wildcards, selects plain text.
func (f *Factory) Negotiate(accept string) (Codec, error) {
	if strings.TrimSpace(accept) == "" {
		accept = "*/*"
	}
	bestType := ""
	bestQ := 0.0
	mediaRanges := strings.Split(accept, ",")
	for _, mediaRange := range mediaRanges {
		mediaRange = strings.TrimSpace(mediaRange)
		if mediaRange == "" {
			continue
		}
		mediaType, params, err := mime.ParseMediaType(mediaRange)
		if err != nil {
			return f.fallback, restdata.ErrBadRequest{Err: err}
		}

		// What is the "q" ("quality") parameter for this type?
		// If it is less than the best known so far, skip it
		q := 1.0
		if qStr, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qStr, 64)
			if err != nil {
				return f.fallback, restdata.ErrBadRequest{Err: err}
			}
			if q < 0.0 || q > 1.0 {
				return f.fallback, restdata.ErrBadRequest{Err: errBadAccept}
			}
		}
		if q < bestQ {
			continue
		}

		// Specific types override wildcards; the first one at a
		// given q wins.
		if mediaType == "*/*" {
			if q > bestQ {
				bestType = mediaType
				bestQ = q
			}
		} else if mediaType == "text/*" || mediaType == "application/*" {
			if q > bestQ || bestType == "*/*" {
				bestType = mediaType
				bestQ = q
			}
		} else if _, knownType := f.codecs[mediaType]; knownType {
			if q > bestQ || bestType == "*/*" || bestType == "text/*" || bestType == "application/*" {
				bestType = mediaType
				bestQ = q
			}
		}
	}
	if bestQ == 0.0 {
		return f.fallback, NotAcceptableError{Accept: accept}
	}
	switch bestType {
	case "*/*", "text/*":
		return f.codecs[restdata.PlainMediaType], nil
	case "application/*":
		return f.codecs[restdata.OCCIJSONMediaType], nil
	default:
		return f.codecs[bestType], nil
	}
}
