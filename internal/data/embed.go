// Package data embeds the default build time catalog and its JSON schema.
package data

import _ "embed"

// CatalogFile is the name the embedded catalog is reported under
const CatalogFile = "buildtime.json"

// Catalog is the default catalog document
//
//go:embed buildtime.json
var Catalog []byte

// Schema validates catalog documents before they are decoded
//
//go:embed buildtime.schema.json
var Schema string
