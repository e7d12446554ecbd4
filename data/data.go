// Package data ships the sample catalog written on first run.
package data

import _ "embed"

//go:embed catalog.yaml
var SampleCatalog []byte
