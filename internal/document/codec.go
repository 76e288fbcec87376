package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
)

// rawDocument keeps records as nodes so each one can be validated and
// decoded on its own.
type rawDocument struct {
	Version string      `yaml:"version"`
	Bundles []yaml.Node `yaml:"bundles"`
	Assets  []yaml.Node `yaml:"assets"`
}

// Decode parses document bytes. It returns ErrCorrupt when the bytes are
// not a YAML mapping of the expected shape (an empty input included) and
// ErrUnsupportedVersion for newer formats. Records that fail validation
// are returned with their issues rather than failing the whole decode.
// Unknown attributes are ignored.
func Decode(data []byte) (*Parsed, error) {
	s, err := getSchemas()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrCorrupt)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var generic interface{}
	if err := root.Decode(&generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	issues, err := validate(s.root, generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, issues[0])
	}

	var raw rawDocument
	if err := root.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	version, err := CheckVersion(raw.Version)
	if err != nil {
		return nil, err
	}

	parsed := &Parsed{Version: version}
	for i := range raw.Bundles {
		parsed.Bundles = append(parsed.Bundles, decodeEntry[BundleRecord](&raw.Bundles[i], i, s.bundle))
	}
	for i := range raw.Assets {
		parsed.Assets = append(parsed.Assets, decodeEntry[AssetRecord](&raw.Assets[i], i, s.asset))
	}
	return parsed, nil
}

// decodeEntry validates a single record node against its schema and
// decodes it into T.
func decodeEntry[T any](node *yaml.Node, index int, schema *jsonschema.Schema) Entry[T] {
	e := Entry[T]{Index: index}

	var generic interface{}
	if err := node.Decode(&generic); err != nil {
		e.Issues = append(e.Issues, ValidationIssue{Message: err.Error()})
		return e
	}

	issues, err := validate(schema, generic)
	if err != nil {
		e.Issues = append(e.Issues, ValidationIssue{Message: err.Error()})
		return e
	}
	if len(issues) > 0 {
		e.Issues = issues
		return e
	}

	if err := node.Decode(&e.Record); err != nil {
		e.Issues = append(e.Issues, ValidationIssue{Message: err.Error()})
	}
	return e
}

// Encode writes doc as YAML with two-space indentation. A missing version
// is stamped with CurrentVersion.
func Encode(w io.Writer, doc *Document) error {
	out := *doc
	if out.Version == "" {
		out.Version = CurrentVersion
	}
	if out.Bundles == nil {
		out.Bundles = []BundleRecord{}
	}
	if out.Assets == nil {
		out.Assets = []AssetRecord{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encoding registry document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flushing registry document: %w", err)
	}
	return nil
}
