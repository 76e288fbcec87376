package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/document.schema.json
var schemaBytes []byte

const schemaURL = "document.schema.json"

// schemas holds the compiled root and per-record schemas.
type schemas struct {
	root   *jsonschema.Schema
	bundle *jsonschema.Schema
	asset  *jsonschema.Schema
}

var (
	compiled    schemas
	compileOnce sync.Once
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// ValidationIssue is one schema violation found in a record.
type ValidationIssue struct {
	Path    string // JSON pointer into the record, "" for the record itself
	Message string
	Keyword string // failing schema keyword, e.g. "required"
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// getSchemas compiles the embedded JSON schema once.
func getSchemas() (schemas, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		for loc, dst := range map[string]**jsonschema.Schema{
			schemaURL:                    &compiled.root,
			schemaURL + "#/$defs/bundle": &compiled.bundle,
			schemaURL + "#/$defs/asset":  &compiled.asset,
		} {
			s, err := c.Compile(loc)
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", loc, err)
				return
			}
			*dst = s
		}
	})
	return compiled, compileErr
}

// validate checks a YAML-decoded value against schema. The error return is
// for conversion or compilation failures; schema violations come back as
// issues.
func validate(schema *jsonschema.Schema, v any) ([]ValidationIssue, error) {
	inst, err := toInstance(v)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return extractIssues(ve), nil
}

// toInstance converts a YAML-decoded value into the JSON-compatible form
// the schema validator expects, with json.Number for numerics.
func toInstance(v any) (any, error) {
	data, err := json.Marshal(jsonable(v))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}
	return inst, nil
}

// extractIssues flattens the error tree into its informative leaves,
// in tree order and without repeats. A tree with no such leaf yields the
// top-level message.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[ValidationIssue]bool)
	stack := []*jsonschema.ValidationError{ve}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(e.Causes) > 0 {
			for i := len(e.Causes) - 1; i >= 0; i-- {
				stack = append(stack, e.Causes[i])
			}
			continue
		}
		is, ok := leafIssue(e)
		if ok && !seen[is] {
			seen[is] = true
			issues = append(issues, is)
		}
	}
	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return issues
}

// leafIssue converts a leaf error. Leaves of allOf and $ref only repeat
// their children and are dropped.
func leafIssue(e *jsonschema.ValidationError) (ValidationIssue, bool) {
	if e.ErrorKind == nil {
		return ValidationIssue{}, false
	}
	kw := e.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return ValidationIssue{}, false
	}
	switch last := kw[len(kw)-1]; last {
	case "allOf", "$ref":
		return ValidationIssue{}, false
	default:
		var path string
		if len(e.InstanceLocation) > 0 {
			path = "/" + strings.Join(e.InstanceLocation, "/")
		}
		return ValidationIssue{
			Path:    path,
			Message: e.ErrorKind.LocalizedString(printer),
			Keyword: last,
		}, true
	}
}

// jsonable rewrites a value decoded from YAML so json.Marshal accepts it:
// map keys of any type become strings.
func jsonable(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonable(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonable(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = jsonable(item)
		}
		return out
	}
	return v
}
