// Package analyzer consumes the engine's record collection: it maps
// descriptions to spending categories and computes aggregate views. It never
// mutates the records it is given.
package analyzer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one entry of the ordered category table.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// categoriesFile is the YAML shape for user-supplied category tables.
type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

// DefaultCategory is returned when no keyword matches.
const DefaultCategory = "Other"

// Categorizer maps a transaction description to a category by a
// first-match-wins scan over an ordered category → keyword table. The table
// is data, not behavior: it can be replaced wholesale from a YAML file.
type Categorizer struct {
	table []Category
}

// NewCategorizer returns a categorizer with the built-in table tuned for
// Indian UPI merchants.
func NewCategorizer() *Categorizer {
	return &Categorizer{table: defaultCategories()}
}

// NewCategorizerWithTable builds a categorizer over a caller-supplied table.
func NewCategorizerWithTable(table []Category) *Categorizer {
	return &Categorizer{table: table}
}

// LoadCategorizer reads an ordered category table from a YAML file of the
// shape {categories: [{name, keywords: [...]}, ...]}.
func LoadCategorizer(path string) (*Categorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	var cfg categoriesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse categories file: %w", err)
	}
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("categories file %q defines no categories", path)
	}
	return &Categorizer{table: cfg.Categories}, nil
}

// Categorize returns the first category whose keyword list matches the
// lower-cased description, or DefaultCategory.
func (c *Categorizer) Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, cat := range c.table {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Name
			}
		}
	}
	return DefaultCategory
}

func defaultCategories() []Category {
	return []Category{
		{Name: "Food & Dining", Keywords: []string{
			"swiggy", "zomato", "uber eats", "food", "restaurant", "cafe",
			"pizza", "burger", "dominos", "mcdonald", "kfc", "starbucks",
			"coffee", "tea", "bakery", "grocery", "bigbasket", "grofers",
			"dunzo", "zepto",
		}},
		{Name: "Transport", Keywords: []string{
			"uber", "ola", "rapido", "metro", "bus", "train", "railway",
			"flight", "airline", "taxi", "cab", "fuel", "petrol", "diesel",
			"parking", "toll",
		}},
		{Name: "Shopping", Keywords: []string{
			"amazon", "flipkart", "myntra", "nykaa", "shopping", "store",
			"mall", "fashion", "clothes", "apparel", "electronics", "phone",
			"mobile",
		}},
		{Name: "Entertainment", Keywords: []string{
			"netflix", "prime", "spotify", "youtube", "movie", "cinema",
			"theatre", "game", "gaming", "playstation", "xbox", "book",
			"music",
		}},
		{Name: "Bills & Utilities", Keywords: []string{
			"electricity", "water", "gas", "internet", "wifi", "broadband",
			"mobile bill", "postpaid", "prepaid", "jio", "airtel",
			"vodafone", "utility", "bill payment",
		}},
		{Name: "Healthcare", Keywords: []string{
			"hospital", "clinic", "pharmacy", "medicine", "medical",
			"doctor", "apollo", "medplus", "1mg", "practo", "health",
			"insurance",
		}},
		{Name: "Education", Keywords: []string{
			"school", "college", "university", "tuition", "course",
			"education", "stationery", "exam", "fee",
		}},
		{Name: "Banking & Finance", Keywords: []string{
			"bank", "atm", "withdrawal", "deposit", "loan", "emi",
			"credit card", "interest", "charges", "transfer", "upi",
		}},
		{Name: "Travel", Keywords: []string{
			"hotel", "booking", "travel", "trip", "vacation", "tour",
			"tourism", "make my trip", "goibibo", "oyo", "airbnb",
		}},
		{Name: "Recharge & DTH", Keywords: []string{
			"recharge", "dth", "cable", "dish", "tata sky",
			"airtel digital", "vodafone idea",
		}},
		{Name: "Investments", Keywords: []string{
			"mutual fund", "sip", "stocks", "equity", "investment", "fd",
			"rd", "gold", "crypto", "bitcoin",
		}},
	}
}
