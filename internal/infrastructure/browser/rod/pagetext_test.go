package rod

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText_SkipsScriptsAndComments(t *testing.T) {
	doc := `<html><head><title>ignored</title><style>.x{}</style></head>
<body>
	<!-- hidden -->
	<h1>404</h1>
	<p>Page   not
	found</p>
	<script>var secret = 1;</script>
	<noscript>enable js</noscript>
</body></html>`

	assert.Equal(t, "404 Page not found", ExtractText(doc, 0))
}

func TestExtractText_NoBody(t *testing.T) {
	assert.Equal(t, "plain", ExtractText("plain", 0))
}

func TestExtractText_Truncates(t *testing.T) {
	doc := "<body>" + strings.Repeat("a", 50) + "</body>"

	assert.Len(t, ExtractText(doc, 10), 10)
}

func TestExtractText_TruncatesOnRuneBoundary(t *testing.T) {
	doc := "<body>ééééé</body>"

	got := ExtractText(doc, 3)

	assert.Equal(t, "é", got)
}
