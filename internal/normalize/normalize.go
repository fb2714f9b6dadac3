// Package normalize implements the URL normalisation pipeline: a
// deterministic, idempotent sequence of rewrites applied to every URL a page
// yields before it reaches the filter stage. Two URLs that differ only in
// the ways this pipeline collapses are the same crawl target.
package normalize

import (
	"net/url"
	"path"
	"strings"

	"github.com/crawlfleet/crawlfleet/pkg/setutil"
	"github.com/crawlfleet/crawlfleet/pkg/urlutil"
)

// One applies the six-step pipeline to a single URL:
//
//  1. library normalisation (sort query, drop fragment, elide default port)
//  2. lower-case the scheme
//  3. lower-case the host
//  4. upper-case percent-encoded triplets in the path and query
//  5. empty path becomes "/"
//  6. collapse "." and ".." path segments
//
// The steps run in this order because later steps assume the escaping and
// casing earlier steps establish; running them out of order is not
// equivalent. One is idempotent: One(One(u)) == One(u).
func One(u url.URL) (url.URL, *Error) {
	out := urlutil.LibraryNormalize(u)

	out.Scheme = urlutil.LowerASCII(out.Scheme)
	if out.Host != "" {
		out.Host = urlutil.LowerASCII(out.Host)
	}

	escapedPath := urlutil.UppercasePercentTriplets(out.EscapedPath())
	out.RawQuery = urlutil.UppercasePercentTriplets(out.RawQuery)

	if escapedPath == "" {
		escapedPath = "/"
	}
	escapedPath = collapseDotSegments(escapedPath)

	decodedPath, err := url.PathUnescape(escapedPath)
	if err != nil {
		return url.URL{}, &Error{Message: err.Error(), Cause: ErrCauseUnparseable}
	}
	out.Path = decodedPath
	out.RawPath = escapedPath

	return out, nil
}

// collapseDotSegments removes "." and ".." segments the way path.Clean does,
// operating on the already-escaped path so percent-encoded bytes inside a
// segment are never touched. path.Clean strips a trailing slash; a slash
// the input path ended with is put back, so "/a/" stays "/a/" and is not
// merged with "/a".
func collapseDotSegments(escapedPath string) string {
	cleaned := path.Clean(escapedPath)
	if cleaned != "/" && strings.HasSuffix(escapedPath, "/") && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}

// Batch normalises every URL in urls, dropping any that fail to normalise
// (logged by the caller, never propagated as a stage failure; see Error),
// and dedupes the survivors by their canonical serialisation so a page that
// links the same target twice yields it once.
func Batch(urls []url.URL) ([]url.URL, []*Error) {
	seen := setutil.New[string]()
	out := make([]url.URL, 0, len(urls))
	var errs []*Error

	for _, u := range urls {
		normalised, err := One(u)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		key := normalised.String()
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		out = append(out, normalised)
	}

	return out, errs
}
