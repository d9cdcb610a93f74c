package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "content.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// ValidationIssue is one failed constraint in a content document.
type ValidationIssue struct {
	Location string
	Message  string
}

func (i ValidationIssue) String() string {
	location := i.Location
	if location == "" {
		location = "#"
	} else if !strings.HasPrefix(location, "#") {
		location = "#" + location
	}
	return fmt.Sprintf("%s: %s", location, i.Message)
}

// Validate checks a decoded content document against the page schema.
func Validate(data map[string]any) ([]ValidationIssue, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling content schema: %w", err)
	}

	var doc any = data
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		issues := collectIssues(verr)
		parts := make([]string, 0, len(issues))
		for _, issue := range issues {
			parts = append(parts, issue.String())
		}
		return issues, errors.New(strings.Join(parts, "; "))
	}
	return nil, nil
}

func collectIssues(err *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
