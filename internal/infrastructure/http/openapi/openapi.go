// Package openapi embeds the HTTP API description used for request validation.
package openapi

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// GetSwagger parses and validates the embedded OpenAPI document.
// Each call returns a fresh copy so callers may mutate it.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return spec, nil
}
