// Package openapi embeds the OpenAPI description of the insights API.
// The server serves it at /openapi.yaml.
package openapi

import _ "embed"

// Document holds the raw bytes of openapi.yaml.
//
//go:embed openapi.yaml
var Document []byte
