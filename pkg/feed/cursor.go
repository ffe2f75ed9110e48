package feed

import (
	"net/url"
	"strings"
)

const cursorParam = "cursor"

// ExtractCursor returns the cursor query parameter of a page link.
// A nil link, or a link without a cursor, gives nil.
func ExtractCursor(link *string) *string {
	if link == nil || *link == "" {
		return nil
	}

	query := *link
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}
	if i := strings.IndexByte(query, '?'); i >= 0 {
		query = query[i+1:]
	}

	// ParseQuery keeps going past malformed pairs, the partial result is good enough
	values, _ := url.ParseQuery(query)
	cursor := values.Get(cursorParam)
	if cursor == "" {
		return nil
	}
	return &cursor
}
