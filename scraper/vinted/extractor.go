package vinted

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"market-scout/models"
	"market-scout/utils"
)

// SelectorStrategy locates listing containers on a catalog page.
type SelectorStrategy struct {
	Name      string
	Container string
}

// Match returns the container nodes this strategy finds in doc.
func (s SelectorStrategy) Match(doc *goquery.Document) *goquery.Selection {
	return doc.Find(s.Container)
}

// Container strategies are tried in order; the first one matching any node wins.
var DefaultStrategies = []SelectorStrategy{
	{Name: "feed-grid", Container: ".feed-grid__item"},
	{Name: "catalog-item", Container: ".catalog-item"},
	{Name: "item", Container: ".item"},
}

var (
	DefaultTitleSelectors = []string{".feed-grid__item-title", "h3", ".title"}
	DefaultPriceSelectors = []string{".feed-grid__item-price", ".price", "span[data-testid='price']"}
)

const linkSelector = "a[href]"

// Extractor turns one catalog page into listings.
type Extractor struct {
	base           *url.URL
	strategies     []SelectorStrategy
	titleSelectors []string
	priceSelectors []string
	logger         *utils.Logger
}

// NewExtractor creates an Extractor that resolves links against baseURL and uses the
// default selector lists.
func NewExtractor(baseURL string, logger *utils.Logger) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("vinted: parse base url %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("vinted: base url %q is not absolute", baseURL)
	}
	return &Extractor{
		base:           base,
		strategies:     DefaultStrategies,
		titleSelectors: DefaultTitleSelectors,
		priceSelectors: DefaultPriceSelectors,
		logger:         logger,
	}, nil
}

// Extract parses page markup and returns listings in document order.
// Nodes missing a title, price or link, or with an unusable price, are skipped.
func (e *Extractor) Extract(page []byte) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("vinted: parse page: %w", err)
	}

	containers, strategy := e.locate(doc)
	if containers == nil {
		e.logger.Debug("[extractor] No container strategy matched")
		return nil, nil
	}
	e.logger.Debug("[extractor] Strategy %q matched %d nodes", strategy, containers.Length())

	listings := make([]models.Listing, 0, containers.Length())
	containers.Each(func(_ int, node *goquery.Selection) {
		listing, ok := e.extractOne(node)
		if ok {
			listings = append(listings, listing)
		}
	})
	return listings, nil
}

func (e *Extractor) locate(doc *goquery.Document) (*goquery.Selection, string) {
	for _, s := range e.strategies {
		if sel := s.Match(doc); sel.Length() > 0 {
			return sel, s.Name
		}
	}
	return nil, ""
}

func (e *Extractor) extractOne(node *goquery.Selection) (models.Listing, bool) {
	titleNode := firstMatch(node, e.titleSelectors)
	priceNode := firstMatch(node, e.priceSelectors)
	linkNode := node.Find(linkSelector).First()
	if titleNode == nil || priceNode == nil || linkNode.Length() == 0 {
		e.logger.Debug("[extractor] Node missing title, price or link — skipped")
		return models.Listing{}, false
	}

	rawPrice := priceNode.Text()
	price, ok := NormalizePrice(rawPrice)
	if !ok {
		e.logger.Debug("[extractor] Unparseable price %q — skipped", rawPrice)
		return models.Listing{}, false
	}

	href, _ := linkNode.Attr("href")
	link, err := e.resolve(href)
	if err != nil {
		e.logger.Debug("[extractor] Bad link %q: %v", href, err)
		return models.Listing{}, false
	}

	return models.Listing{
		Title: normaliseText(titleNode.Text()),
		Price: price,
		Link:  link,
	}, true
}

func (e *Extractor) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return e.base.ResolveReference(ref).String(), nil
}

// firstMatch returns the first node matched by the first selector that finds anything.
func firstMatch(node *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := node.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}
