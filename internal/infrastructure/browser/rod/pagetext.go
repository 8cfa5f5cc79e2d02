package rod

import (
	"strings"

	"golang.org/x/net/html"
)

var skippedTextTags = []string{
	"script", "style", "noscript", "svg", "iframe", "template", "head",
}

// ExtractText returns the visible-ish text of the document body with
// whitespace collapsed. Unparseable input yields an empty string.
func ExtractText(rawHTML string, maxLen int) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	root := findBodyNode(doc)
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	collectText(root, &sb)

	text := strings.Join(strings.Fields(sb.String()), " ")
	if maxLen > 0 && len(text) > maxLen {
		text = truncateUTF8(text, maxLen)
	}
	return text
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if isOneOf(n.Data, skippedTextTags...) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func truncateUTF8(s string, maxLen int) string {
	for maxLen > 0 && maxLen < len(s) && !isRuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
