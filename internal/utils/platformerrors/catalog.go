package platformerrors

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogEntry describes how the UI should present one error type.
type CatalogEntry struct {
	Title       string   `yaml:"title"`
	Suggestions []string `yaml:"suggestions"`
	Recoverable bool     `yaml:"recoverable"`
	HelpURL     string   `yaml:"help_url"`
}

var (
	catalogOnce sync.Once
	catalog     map[string]CatalogEntry
)

// Catalog looks up the presentation entry for a type key.
func Catalog(typeKey string) (CatalogEntry, bool) {
	catalogOnce.Do(func() {
		catalog = make(map[string]CatalogEntry)
		// The embedded catalog is validated at build time by its test; a
		// parse failure here would leave lookups empty, never panic.
		_ = yaml.Unmarshal(catalogYAML, &catalog)
	})
	entry, ok := catalog[typeKey]
	return entry, ok
}
