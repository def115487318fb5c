// Package browsers builds the browser catalog from the "browsers" subtree
// of a compat document.
package browsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/parser"
)

// knownNames maps browser ids to display names for documents that do not
// carry a "name" field.
var knownNames = map[string]string{
	"chrome":                  "Chrome",
	"chrome_android":          "Chrome Android",
	"edge":                    "Edge",
	"edge_mobile":             "Edge Mobile",
	"firefox":                 "Firefox",
	"firefox_android":         "Firefox Android",
	"ie":                      "Internet Explorer",
	"nodejs":                  "NodeJS",
	"opera":                   "Opera",
	"opera_android":           "Opera Android",
	"qq_android":              "QQ Android",
	"safari":                  "Safari",
	"safari_ios":              "Safari Mobile",
	"samsunginternet_android": "Samsung Internet for Android",
	"uc_android":              "UC Browser for Android",
	"uc_chinese_android":      "Chinese UC Browser for Android",
	"webview_android":         "WebView Android",
}

// Release is one browser release.
type Release struct {
	Version       string          `json:"version" yaml:"version"`
	ReleaseDate   string          `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Status        string          `json:"status,omitempty" yaml:"status,omitempty"`
	Engine        string          `json:"engine,omitempty" yaml:"engine,omitempty"`
	EngineVersion string          `json:"engine_version,omitempty" yaml:"engine_version,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty" yaml:"-"`
}

// Browser is one catalog entry.
type Browser struct {
	ID          string    `json:"id" yaml:"id"`
	DisplayName string    `json:"name" yaml:"name"`
	Type        string    `json:"type,omitempty" yaml:"type,omitempty"`
	Releases    []Release `json:"releases,omitempty" yaml:"releases,omitempty"`
}

// Release returns the release with the given version.
func (b *Browser) Release(version string) (Release, bool) {
	for _, r := range b.Releases {
		if r.Version == version {
			return r, true
		}
	}
	return Release{}, false
}

// Catalog is the read-only set of browsers in document order.
type Catalog struct {
	browsers []Browser
	index    map[string]int
}

// FromDocument builds the catalog from doc. A document without a
// "browsers" subtree yields an empty catalog.
func FromDocument(doc *parser.Document) (*Catalog, error) {
	node, ok := doc.Browsers()
	if !ok || parser.IsNull(node) {
		return &Catalog{index: map[string]int{}}, nil
	}
	return FromNode(node)
}

// FromNode builds the catalog from a "browsers" mapping.
func FromNode(node *yaml.Node) (*Catalog, error) {
	if !parser.IsMapping(node) {
		return nil, &bcderrors.ParseError{Feature: parser.BrowsersKey, Message: "browsers must be an object, got " + parser.KindName(node)}
	}
	c := &Catalog{index: make(map[string]int)}
	for id, value := range parser.Pairs(node) {
		b, err := buildBrowser(id, value)
		if err != nil {
			return nil, err
		}
		c.index[id] = len(c.browsers)
		c.browsers = append(c.browsers, b)
	}
	return c, nil
}

func buildBrowser(id string, node *yaml.Node) (Browser, error) {
	where := parser.BrowsersKey + "." + id
	if !parser.IsMapping(node) {
		return Browser{}, &bcderrors.ParseError{Feature: where, Message: "browser must be an object, got " + parser.KindName(node)}
	}
	b := Browser{ID: id}
	name, _ := parser.ScalarString(mustGet(node, "name"))
	b.DisplayName = DisplayName(id, name)
	b.Type, _ = parser.ScalarString(mustGet(node, "type"))

	releases, ok := parser.Get(node, "releases")
	if !ok || parser.IsNull(releases) {
		return b, nil
	}
	if !parser.IsMapping(releases) {
		return Browser{}, &bcderrors.ParseError{Feature: where + ".releases", Message: "releases must be an object, got " + parser.KindName(releases)}
	}
	for version, info := range parser.Pairs(releases) {
		r := Release{Version: version}
		if parser.IsMapping(info) {
			r.ReleaseDate, _ = parser.ScalarString(mustGet(info, "release_date"))
			r.Status, _ = parser.ScalarString(mustGet(info, "status"))
			r.Engine, _ = parser.ScalarString(mustGet(info, "engine"))
			r.EngineVersion, _ = parser.ScalarString(mustGet(info, "engine_version"))
			raw, err := parser.MarshalNodeJSON(info)
			if err != nil {
				return Browser{}, fmt.Errorf("browsers: release %s %s: %w", id, version, err)
			}
			r.Metadata = raw
		}
		b.Releases = append(b.Releases, r)
	}
	return b, nil
}

func mustGet(node *yaml.Node, key string) *yaml.Node {
	v, _ := parser.Get(node, key)
	return v
}

// DisplayName picks the name to show for a browser id. A non-empty name from
// the document wins, then the table of well-known browsers, then a title-cased
// form of the id ("kai_os" becomes "Kai Os").
func DisplayName(id, documentName string) string {
	if documentName != "" {
		return documentName
	}
	if name, ok := knownNames[id]; ok {
		return name
	}
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Len returns the number of browsers.
func (c *Catalog) Len() int {
	return len(c.browsers)
}

// IDs returns the browser ids in document order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.browsers))
	for i, b := range c.browsers {
		out[i] = b.ID
	}
	return out
}

// All returns the browsers in document order.
func (c *Catalog) All() []Browser {
	return append([]Browser(nil), c.browsers...)
}

// Get returns the browser with the given id.
func (c *Catalog) Get(id string) (Browser, bool) {
	i, ok := c.index[id]
	if !ok {
		return Browser{}, false
	}
	return c.browsers[i], true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Unknown returns the ids not present in the catalog, deduplicated, in the
// order first seen.
func (c *Catalog) Unknown(ids []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if !c.Has(id) && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
