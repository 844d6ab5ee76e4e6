package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// FAQEntry is one keyword → answer pair used by the advice helper.
type FAQEntry struct {
	Keyword string `yaml:"keyword"`
	Answer  string `yaml:"answer"`
}

// Catalog holds the editorial lists shown to users: brand filter options and advice answers.
type Catalog struct {
	Brands []string   `yaml:"brands"`
	FAQ    []FAQEntry `yaml:"faq"`
}

// DefaultCatalog returns the built-in brand list and FAQ.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Brands: []string{
			"All", "Carhartt", "Nike", "Adidas", "Supreme", "Vans", "Levi's", "Zara",
			"Patagonia", "The North Face", "Moncler", "Chanel",
		},
		FAQ: []FAQEntry{
			{Keyword: "niche", Answer: "Look for small streetwear pieces and accessories. Watch limited editions."},
			{Keyword: "start", Answer: "Start with t-shirts and caps, resell at x1.6-x2."},
			{Keyword: "price", Answer: "Aim for a 1.6-2.0 margin when possible."},
		},
	}
}

// LoadCatalog reads a YAML catalog from path. A missing file yields the defaults;
// sections left empty in the file keep their default values.
func LoadCatalog(path string) (*Catalog, error) {
	cat := DefaultCatalog()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cat, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}

	var fromFile Catalog
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("catalog: decode %q: %w", path, err)
	}
	if len(fromFile.Brands) > 0 {
		cat.Brands = fromFile.Brands
	}
	if len(fromFile.FAQ) > 0 {
		cat.FAQ = fromFile.FAQ
	}
	return cat, nil
}
