package feature

import (
	"fmt"
	"strings"

	"github.com/erraggy/bcdtools/parser"
)

// Path is the sequence of object keys from the document root to a feature.
// A valid path is non-empty and never contains the "__compat" marker key.
type Path []string

// NewPath returns a validated copy of segments.
func NewPath(segments ...string) (Path, error) {
	p := Path(append([]string(nil), segments...))
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports whether p is a usable feature path.
func (p Path) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("feature: empty path")
	}
	for i, seg := range p {
		if seg == parser.CompatKey {
			return fmt.Errorf("feature: path segment %d is the reserved key %s", i, parser.CompatKey)
		}
	}
	return nil
}

// String joins the segments with ".".
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Append returns a new path with seg added. The receiver is never aliased.
func (p Path) Append(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Category returns the first segment, or "" for an empty path.
func (p Path) Category() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Leaf returns the last segment, or "" for an empty path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}

// ParsePath splits a dotted feature name.
func ParsePath(name string) (Path, error) {
	if name == "" {
		return nil, fmt.Errorf("feature: empty path")
	}
	return NewPath(strings.Split(name, ".")...)
}
