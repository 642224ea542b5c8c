// Package htmlpath points relative illustration and link paths of a
// rendered novel at the manuscript's directory, so the document still
// resolves them once it is printed from a temporary file.
package htmlpath

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewritten lists the attributes resolved per element.
var rewritten = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// Absolutize rewrites relative img[src] and a[href] values under sourceDir
// to file:// URLs. Paths escaping sourceDir, URLs and anchors are kept.
// The input is returned unchanged when nothing needs rewriting.
func Absolutize(doc, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(doc, "<img") && !strings.Contains(doc, "<a ") {
		return doc, nil
	}

	dir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	root, fragment, err := parse(doc)
	if err != nil {
		return "", err
	}
	if !rewrite(root, dir) {
		return doc, nil
	}
	return render(root, fragment)
}

// parse reads a full document, or a fragment in a body context.
func parse(doc string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(doc))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		n, err := html.Parse(strings.NewReader(doc))
		return n, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(doc), body)
	if err != nil {
		return nil, true, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

func render(root *html.Node, fragment bool) (string, error) {
	var b strings.Builder
	if !fragment {
		err := html.Render(&b, root)
		return b.String(), err
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// rewrite walks n and reports whether any attribute changed.
func rewrite(n *html.Node, dir string) bool {
	changed := false
	if key, ok := rewritten[n.DataAtom]; ok && n.Type == html.ElementNode {
		for i, attr := range n.Attr {
			if attr.Key != key || !isRelative(attr.Val) {
				continue
			}
			abs := filepath.Join(dir, filepath.FromSlash(attr.Val))
			if !within(abs, dir) {
				continue
			}
			n.Attr[i].Val = fileURL(abs)
			changed = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if rewrite(c, dir) {
			changed = true
		}
	}
	return changed
}

// isRelative reports whether p is a relative file path.
func isRelative(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") || filepath.IsAbs(p) {
		return false
	}
	if u, err := url.Parse(p); err != nil || u.Scheme != "" {
		return false
	}
	return true
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
