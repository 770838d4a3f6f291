// Package schemas holds the JSON Schemas describing files this tool writes besides merged pages.
package schemas

import _ "embed"

// Manifest is the JSON Schema of the run manifest.
//
//go:embed manifest.schema.json
var Manifest string
