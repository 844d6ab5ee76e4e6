package services

import (
	"strings"

	"market-scout/config"
)

const (
	buyAnswer     = "Start with small popular pieces (caps, t-shirts): low entry cost."
	genericAnswer = "Good question. Be more specific, e.g. 'what to buy for 100€'."
)

// Advisor answers beginner reseller questions from a keyword FAQ.
type Advisor struct {
	faq []config.FAQEntry
}

func NewAdvisor(faq []config.FAQEntry) *Advisor {
	return &Advisor{faq: faq}
}

// Answer returns the first FAQ answer whose keyword appears in prompt, then falls back to
// buying advice, then to a hint on how to ask.
func (a *Advisor) Answer(prompt string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(prompt))
	if p == "" {
		return "", ErrEmptyPrompt
	}
	for _, entry := range a.faq {
		if kw := strings.ToLower(entry.Keyword); kw != "" && strings.Contains(p, kw) {
			return entry.Answer, nil
		}
	}
	if strings.Contains(p, "buy") {
		return buyAnswer, nil
	}
	return genericAnswer, nil
}
