package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// RulesFile is the rules location relative to the data root.
const RulesFile = "rules/categorization-rules.yaml"

// Rule assigns Category when Match appears in a bank description.
type Rule struct {
	Match    string        `yaml:"match"`
	Category string        `yaml:"category"`
	Type     model.TxnType `yaml:"type,omitempty"` // empty matches both
}

// Rules is the categorization rule set. The first matching rule wins.
type Rules struct {
	Rules          []Rule `yaml:"rules"`
	DefaultIncome  string `yaml:"default_income"`
	DefaultExpense string `yaml:"default_expense"`
}

// DefaultRules returns the starter rule set written by init.
func DefaultRules() Rules {
	return Rules{
		Rules: []Rule{
			{Match: "SALARY", Category: "Salary", Type: model.TxnIncome},
			{Match: "INTEREST", Category: "Investment", Type: model.TxnIncome},
			{Match: "DIVIDEND", Category: "Investment", Type: model.TxnIncome},
			{Match: "SWIGGY", Category: "Food & Dining"},
			{Match: "ZOMATO", Category: "Food & Dining"},
			{Match: "BIGBASKET", Category: "Food & Dining"},
			{Match: "UBER", Category: "Transportation"},
			{Match: "OLA", Category: "Transportation"},
			{Match: "IRCTC", Category: "Transportation"},
			{Match: "AMAZON", Category: "Shopping"},
			{Match: "FLIPKART", Category: "Shopping"},
			{Match: "NETFLIX", Category: "Entertainment"},
			{Match: "BOOKMYSHOW", Category: "Entertainment"},
			{Match: "ELECTRICITY", Category: "Bills & Utilities"},
			{Match: "AIRTEL", Category: "Bills & Utilities"},
			{Match: "JIO", Category: "Bills & Utilities"},
			{Match: "RENT", Category: "Bills & Utilities", Type: model.TxnExpense},
			{Match: "APOLLO", Category: "Healthcare"},
			{Match: "PHARMA", Category: "Healthcare"},
		},
		DefaultIncome:  "Other Income",
		DefaultExpense: "Other",
	}
}

// Validate checks that every rule names a pattern and category.
func (r Rules) Validate() error {
	var errs []error
	for i, rule := range r.Rules {
		if strings.TrimSpace(rule.Match) == "" {
			errs = append(errs, fmt.Errorf("rule %d: empty match", i+1))
		}
		if strings.TrimSpace(rule.Category) == "" {
			errs = append(errs, fmt.Errorf("rule %d: empty category", i+1))
		}
		if rule.Type != "" && !rule.Type.Valid() {
			errs = append(errs, fmt.Errorf("rule %d: unknown type %q", i+1, rule.Type))
		}
	}
	if r.DefaultIncome == "" || r.DefaultExpense == "" {
		errs = append(errs, errors.New("default_income and default_expense are required"))
	}
	return errors.Join(errs...)
}

// Categorize returns the category for a description. matched is false
// when the type's default was used.
func (r Rules) Categorize(desc string, typ model.TxnType) (category string, matched bool) {
	upper := strings.ToUpper(desc)
	for _, rule := range r.Rules {
		if rule.Type != "" && rule.Type != typ {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(rule.Match)) {
			return rule.Category, true
		}
	}
	if typ == model.TxnIncome {
		return r.DefaultIncome, false
	}
	return r.DefaultExpense, false
}

// LoadRules reads the rule file under root. A missing file yields the
// default rules.
func LoadRules(root string) (Rules, error) {
	data, err := os.ReadFile(filepath.Join(root, RulesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultRules(), nil
	}
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules: %w", err)
	}

	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return r, nil
}

// SaveRules writes the rule file under root.
func SaveRules(root string, r Rules) error {
	path := filepath.Join(root, RulesFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
