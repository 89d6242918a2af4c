// Package api embeds the OpenAPI document served by the BFF.
package api

import (
	"context"
	"fmt"

	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yml
var Document []byte

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(Document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// Documents reports whether the document describes method on path, with path relative to the
// server base and using {param} placeholders.
func Documents(doc *openapi3.T, method, path string) bool {
	item := doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}
