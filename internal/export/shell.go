package export

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Shell is the HTML document skeleton exported pages are interpolated into:
// a full document with a head element and a root container the page content
// is mounted in.
type Shell struct {
	src    string
	rootID string
}

// ParseShell validates that src is a parseable HTML document containing a
// head element and an element with the given id, and returns the shell.
func ParseShell(src, rootID string) (*Shell, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("malformed HTML shell: %w", err)
	}
	if findHead(doc) == nil {
		return nil, fmt.Errorf("HTML shell has no head element")
	}
	if findByID(doc, rootID) == nil {
		return nil, fmt.Errorf("HTML shell has no element with id %q", rootID)
	}
	return &Shell{src: src, rootID: rootID}, nil
}

// Interpolate produces a complete document with the page content mounted in
// the root container and the page head appended to the document head. The
// shell itself is never mutated; every call parses a fresh tree.
func (s *Shell) Interpolate(content, head string) (string, error) {
	doc, err := html.Parse(strings.NewReader(s.src))
	if err != nil {
		return "", fmt.Errorf("malformed HTML shell: %w", err)
	}
	headNode := findHead(doc)
	rootNode := findByID(doc, s.rootID)

	if err := appendFragment(headNode, head); err != nil {
		return "", fmt.Errorf("interpolate head: %w", err)
	}
	if err := appendFragment(rootNode, content); err != nil {
		return "", fmt.Errorf("interpolate content: %w", err)
	}

	var out strings.Builder
	if err := html.Render(&out, doc); err != nil {
		return "", fmt.Errorf("render exported document: %w", err)
	}
	return out.String(), nil
}

// appendFragment parses markup in the context of parent and appends the
// resulting nodes as children.
func appendFragment(parent *html.Node, markup string) error {
	if markup == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

func findHead(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Head {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findHead(c); found != nil {
			return found
		}
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
