package feature

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/parser"
)

// Build creates the record for the feature at path from the value stored
// under its "__compat" key. It never returns a partial record.
//
// The compat value, its "status" and its "support" must be objects.
// Optional fields that are absent or null stay nil or unknown.
func Build(path Path, compat *yaml.Node) (Record, error) {
	if err := path.Validate(); err != nil {
		return Record{}, &bcderrors.ParseError{Message: "invalid feature path", Cause: err}
	}
	name := path.String()
	fail := func(format string, args ...any) (Record, error) {
		return Record{}, &bcderrors.ParseError{
			Feature: name,
			Line:    nodeLine(compat),
			Message: fmt.Sprintf(format, args...),
		}
	}

	if !parser.IsMapping(compat) {
		return fail("%s must be an object, got %s", parser.CompatKey, parser.KindName(compat))
	}

	rec := Record{Name: name, Path: path.Clone()}

	var err error
	if rec.Description, err = optionalString(compat, "description"); err != nil {
		return fail("%v", err)
	}
	if rec.MDNURL, err = optionalString(compat, "mdn_url"); err != nil {
		return fail("%v", err)
	}
	if rec.SpecURLs, err = specURLs(compat); err != nil {
		return fail("%v", err)
	}
	if len(rec.SpecURLs) > 0 {
		first := rec.SpecURLs[0]
		rec.SpecURL = &first
	}

	if status, ok := parser.Get(compat, "status"); ok && !parser.IsNull(status) {
		if !parser.IsMapping(status) {
			return fail("status must be an object, got %s", parser.KindName(status))
		}
		if rec.Deprecated, err = statusFlag(status, "deprecated"); err != nil {
			return fail("%v", err)
		}
		if rec.Experimental, err = statusFlag(status, "experimental"); err != nil {
			return fail("%v", err)
		}
		if rec.StandardTrack, err = statusFlag(status, "standard_track"); err != nil {
			return fail("%v", err)
		}
	}

	if sup, ok := parser.Get(compat, "support"); ok && !parser.IsNull(sup) {
		if !parser.IsMapping(sup) {
			return fail("support must be an object, got %s", parser.KindName(sup))
		}
		for browser, statement := range parser.Pairs(sup) {
			raw, err := parser.MarshalNodeJSON(statement)
			if err != nil {
				return fail("support for %s: %v", browser, err)
			}
			rec.Support.Set(browser, raw)
		}
	}

	return rec, nil
}

func optionalString(node *yaml.Node, key string) (*string, error) {
	v, ok := parser.Get(node, key)
	if !ok || parser.IsNull(v) {
		return nil, nil
	}
	s, ok := parser.ScalarString(v)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %s", key, parser.KindName(v))
	}
	return &s, nil
}

func specURLs(node *yaml.Node) ([]string, error) {
	v, ok := parser.Get(node, "spec_url")
	if !ok || parser.IsNull(v) {
		return nil, nil
	}
	if s, ok := parser.ScalarString(v); ok {
		return []string{s}, nil
	}
	if !parser.IsSequence(v) {
		return nil, fmt.Errorf("spec_url must be a string or a list of strings, got %s", parser.KindName(v))
	}
	var out []string
	for i, item := range parser.Items(v) {
		s, ok := parser.ScalarString(item)
		if !ok {
			return nil, fmt.Errorf("spec_url[%d] must be a string, got %s", i, parser.KindName(item))
		}
		out = append(out, s)
	}
	return out, nil
}

func statusFlag(status *yaml.Node, key string) (Tristate, error) {
	v, ok := parser.Get(status, key)
	if !ok || parser.IsNull(v) {
		return TristateUnknown, nil
	}
	b, ok := parser.ScalarBool(v)
	if !ok {
		return TristateUnknown, fmt.Errorf("status.%s must be a boolean, got %s", key, parser.KindName(v))
	}
	return TristateOf(b), nil
}

func nodeLine(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	return node.Line
}
