package feature

// Record is the flat description of one feature: its dotted name, metadata
// and raw per-browser support.
type Record struct {
	Name        string  `json:"name" yaml:"name"`
	Path        Path    `json:"-" yaml:"-"`
	Description *string `json:"description" yaml:"description"`
	MDNURL      *string `json:"mdn_url" yaml:"mdn_url"`
	// SpecURL is the first specification URL when the source lists several.
	SpecURL *string `json:"spec_url" yaml:"spec_url"`
	// SpecURLs holds every specification URL in source order.
	SpecURLs      []string   `json:"spec_urls,omitempty" yaml:"spec_urls,omitempty"`
	Deprecated    Tristate   `json:"deprecated" yaml:"deprecated"`
	Experimental  Tristate   `json:"experimental" yaml:"experimental"`
	StandardTrack Tristate   `json:"standard_track" yaml:"standard_track"`
	Support       SupportMap `json:"support" yaml:"support"`
}

// Slug returns the persistence key derived from the name.
func (r *Record) Slug() string {
	return Slugify(r.Name)
}

// Category returns the first segment of the feature path.
func (r *Record) Category() string {
	if len(r.Path) > 0 {
		return r.Path.Category()
	}
	p, err := ParsePath(r.Name)
	if err != nil {
		return ""
	}
	return p.Category()
}
