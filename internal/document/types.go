package document

// CurrentVersion is the format version written by Encode.
const CurrentVersion = "1.0.0"

// Document is the persisted form of the registry.
type Document struct {
	Version string         `yaml:"version" json:"version"`
	Bundles []BundleRecord `yaml:"bundles" json:"bundles"`
	Assets  []AssetRecord  `yaml:"assets" json:"assets"`
}

// BundleRecord holds the persisted attributes of one bundle.
type BundleRecord struct {
	Name           string   `yaml:"name" json:"name"`
	Variant        string   `yaml:"variant,omitempty" json:"variant,omitempty"`
	LoadType       int      `yaml:"loadType" json:"loadType"`
	Packed         bool     `yaml:"packed" json:"packed"`
	ResourceGroups []string `yaml:"resourceGroups,omitempty" json:"resourceGroups,omitempty"`
}

// AssetRecord ties a content identifier to its owning bundle.
type AssetRecord struct {
	GUID    string `yaml:"guid" json:"guid"`
	Bundle  string `yaml:"bundle" json:"bundle"`
	Variant string `yaml:"variant,omitempty" json:"variant,omitempty"`
}

// New returns an empty document stamped with CurrentVersion.
func New() *Document {
	return &Document{
		Version: CurrentVersion,
		Bundles: []BundleRecord{},
		Assets:  []AssetRecord{},
	}
}

// Entry is one decoded record together with the issues found while
// validating it. A record with issues must not be applied.
type Entry[T any] struct {
	Index  int
	Record T
	Issues []ValidationIssue
}

// Valid reports whether the record decoded without issues.
func (e Entry[T]) Valid() bool { return len(e.Issues) == 0 }

// Parsed is a decoded document whose records have been validated
// individually.
type Parsed struct {
	Version string
	Bundles []Entry[BundleRecord]
	Assets  []Entry[AssetRecord]
}

// InvalidCount returns the number of records carrying issues.
func (p *Parsed) InvalidCount() int {
	n := 0
	for _, e := range p.Bundles {
		if !e.Valid() {
			n++
		}
	}
	for _, e := range p.Assets {
		if !e.Valid() {
			n++
		}
	}
	return n
}
