package billing

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultTrialDays is the trial length checkout bills with.
const DefaultTrialDays = 5

// Plan is a purchasable subscription tier.
type Plan struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	PriceID   string `json:"-"`
	TrialDays int    `json:"trial_days"`
	Interval  string `json:"interval"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// Catalog is the set of plans offered.
type Catalog struct {
	plans []Plan
}

type planFile struct {
	Plans []struct {
		ID        string `yaml:"id"`
		Name      string `yaml:"name"`
		Tier      string `yaml:"tier"`
		PriceID   string `yaml:"price_id"`
		TrialDays *int   `yaml:"trial_days"`
		Interval  string `yaml:"interval"`
		Amount    int64  `yaml:"amount"`
		Currency  string `yaml:"currency"`
	} `yaml:"plans"`
}

// NewCatalog validates plans. IDs must be unique and every plan needs a
// price id.
func NewCatalog(plans ...Plan) (*Catalog, error) {
	seen := make(map[string]struct{}, len(plans))
	for i, p := range plans {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: plan %d has no id", ErrInvalidPlanCatalog, i)
		}
		if p.PriceID == "" {
			return nil, fmt.Errorf("%w: plan %q has no price id", ErrInvalidPlanCatalog, p.ID)
		}
		if p.TrialDays < 0 {
			return nil, fmt.Errorf("%w: plan %q has negative trial", ErrInvalidPlanCatalog, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate plan %q", ErrInvalidPlanCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return &Catalog{plans: slices.Clone(plans)}, nil
}

// ParseCatalog reads a YAML plan list. A plan without trial_days gets
// DefaultTrialDays; trial_days: 0 disables the trial.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrInvalidPlanCatalog, err)
	}

	plans := make([]Plan, 0, len(f.Plans))
	for _, p := range f.Plans {
		trial := DefaultTrialDays
		if p.TrialDays != nil {
			trial = *p.TrialDays
		}
		plans = append(plans, Plan{
			ID:        p.ID,
			Name:      p.Name,
			Tier:      p.Tier,
			PriceID:   p.PriceID,
			TrialDays: trial,
			Interval:  p.Interval,
			Amount:    p.Amount,
			Currency:  p.Currency,
		})
	}
	return NewCatalog(plans...)
}

// LoadCatalog reads a YAML plan file from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidPlanCatalog, err)
	}
	return ParseCatalog(data)
}

// Plan returns the plan with id.
func (c *Catalog) Plan(id string) (Plan, error) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, ErrPlanNotFound
}

// Plans returns all plans in catalog order.
func (c *Catalog) Plans() []Plan {
	return slices.Clone(c.plans)
}
