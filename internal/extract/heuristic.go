package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

var (
	reMoney    = regexp.MustCompile(`(?:C\$|US\$|[$€£])?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	reTotal    = regexp.MustCompile(`(?i)\b(grand\s+total|total\s+due|amount\s+due|balance\s+due|invoice\s+total|total)\b`)
	reCurrency = regexp.MustCompile(`\b(CAD|USD|EUR|GBP|JPY|MXN|CNY|AUD|CHF)\b`)
	reHSCode   = regexp.MustCompile(`\b(\d{4}\.\d{2}(?:\.\d{2})?)\b`)
)

// Heuristic is a regex-based field extractor. It finds the invoice total,
// currency, and HS code without any external dependency.
type Heuristic struct{}

// NewHeuristic creates a Heuristic field extractor.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Extract implements FieldExtractor.
func (h *Heuristic) Extract(_ context.Context, text string) (*model.ExtractionResult, error) {
	result := &model.ExtractionResult{RawText: text}
	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	if amount, ok := findTotal(text); ok {
		result.ExtractedAmount = &amount
	}
	result.ExtractedCurrency = findCurrency(text)
	if m := reHSCode.FindStringSubmatch(text); m != nil {
		result.ExtractedHSCode = m[1]
	}

	return result, nil
}

// findTotal prefers money amounts on lines labeled as a total; failing that
// it falls back to the largest amount anywhere in the document.
func findTotal(text string) (float64, bool) {
	var best float64
	var found bool

	for _, line := range strings.Split(text, "\n") {
		if !reTotal.MatchString(line) {
			continue
		}
		for _, m := range reMoney.FindAllStringSubmatch(line, -1) {
			if v, ok := ParseMoney(m[1]); ok && v > best {
				best = v
				found = true
			}
		}
	}
	if found {
		return best, true
	}

	for _, m := range reMoney.FindAllStringSubmatch(text, -1) {
		if v, ok := ParseMoney(m[1]); ok && v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// findCurrency returns the first ISO currency code in the text, or infers
// one from a currency symbol. Empty means "not found".
func findCurrency(text string) string {
	if m := reCurrency.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	switch {
	case strings.Contains(text, "C$"):
		return "CAD"
	case strings.Contains(text, "US$"):
		return "USD"
	case strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(text, "£"):
		return "GBP"
	}
	return ""
}

// ParseMoney parses a tolerant money string: currency symbols, thousands
// separators, and surrounding whitespace are stripped. Returns false for
// anything that is not a non-negative number.
func ParseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"C$", "US$", "$", "€", "£", "CAD", "USD"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
