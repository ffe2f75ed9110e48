package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iLert/ilert-feed-sync/pkg/utils"
)

func TestExtractCursor(t *testing.T) {
	testCases := []struct {
		name     string
		link     *string
		expected *string
	}{
		{name: "nil_link", link: nil, expected: nil},
		{name: "empty_link", link: utils.String(""), expected: nil},
		{name: "full_url", link: utils.String("https://host/api?cursor=abc123&other=1"), expected: utils.String("abc123")},
		{name: "cursor_last", link: utils.String("https://host/api/internal/v1/alertgroups/?status=0&cursor=xyz"), expected: utils.String("xyz")},
		{name: "escaped_cursor", link: utils.String("https://host/api?cursor=cD0yMDI0LTA1%3D"), expected: utils.String("cD0yMDI0LTA1=")},
		{name: "with_fragment", link: utils.String("https://host/api?cursor=abc#top"), expected: utils.String("abc")},
		{name: "bare_query", link: utils.String("...&cursor=xyz"), expected: utils.String("xyz")},
		{name: "no_cursor", link: utils.String("https://host/api?page=2"), expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractCursor(tc.link))
		})
	}
}
