// Package requirements resolves the input field schema for a model configuration.
package requirements

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	keySeparator = "_"
	keySuffix    = "_Requirements"
)

// Configuration identifies one (purpose, model type) pair parsed from a lookup key.
type Configuration struct {
	Purpose   string `json:"purpose"`
	ModelType string `json:"model_type"`
}

// Loader resolves requirement sets from a schema document on disk.
// Loads are cached for the lifetime of the loader until ClearCache.
type Loader struct {
	path  string
	cache *Document
}

// NewLoader creates a loader for the given schema document path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the backing document path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and parses the schema document, returning the cached copy on
// subsequent calls.
func (l *Loader) Load() (*Document, error) {
	if l.cache != nil {
		return l.cache, nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: l.path}
		}
		return nil, fmt.Errorf("read requirements document: %w", err)
	}
	var doc *Document
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".yaml", ".yml":
		doc, err = parseYAML(data)
	default:
		doc, err = parseJSON(data)
	}
	if err != nil {
		return nil, &ParseError{Path: l.path, Err: err}
	}
	l.cache = doc
	return doc, nil
}

// ClearCache drops the cached document so the next Load re-reads the file.
func (l *Loader) ClearCache() {
	l.cache = nil
}

// BuildLookupKey normalizes a purpose and model type into a schema lookup key,
// e.g. ("AIRB (Advanced Internal Ratings-Based)", "PD") -> "AIRB_PD_Requirements".
// Total over arbitrary input; a malformed input yields a key absent from the
// document rather than an error.
func BuildLookupKey(purpose, modelType string) string {
	p := normalizeToken(purpose)
	m := normalizeToken(modelType)
	if p == "IFRS" {
		p = "IFRS9"
	}
	return p + keySeparator + m + keySuffix
}

func normalizeToken(s string) string {
	s = strings.ToUpper(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Resolve returns the requirement set for the given configuration.
func (l *Loader) Resolve(purpose, modelType string) (RequirementSet, error) {
	key := BuildLookupKey(purpose, modelType)
	doc, err := l.Load()
	if err != nil {
		return RequirementSet{}, err
	}
	set, ok := doc.Set(key)
	if !ok {
		return RequirementSet{}, &ConfigNotFoundError{Key: key, Known: doc.Keys()}
	}
	return set, nil
}

// IsValid reports whether the configuration has a requirement set defined.
// It is an availability probe and never returns an error.
func (l *Loader) IsValid(purpose, modelType string) bool {
	doc, err := l.Load()
	if err != nil {
		return false
	}
	_, ok := doc.Set(BuildLookupKey(purpose, modelType))
	return ok
}

// ListConfigurations returns every configuration defined in the document,
// keyed by lookup key. Load failures yield an empty map: this is a catalog
// probe, a failing document still surfaces its error through Resolve.
func (l *Loader) ListConfigurations() map[string]Configuration {
	configs := map[string]Configuration{}
	doc, err := l.Load()
	if err != nil {
		return configs
	}
	for _, key := range doc.Keys() {
		if !strings.HasSuffix(key, keySuffix) {
			continue
		}
		parts := strings.Split(strings.TrimSuffix(key, keySuffix), keySeparator)
		if len(parts) < 2 {
			continue
		}
		configs[key] = Configuration{
			Purpose:   parts[0],
			ModelType: strings.TrimRight(strings.Join(parts[1:], keySeparator), keySeparator),
		}
	}
	return configs
}
