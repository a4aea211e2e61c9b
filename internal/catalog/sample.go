package catalog

import _ "embed"

// Sample is a small catalog used by `quizdeck import --sample`.
//
//go:embed sample.json
var Sample []byte
