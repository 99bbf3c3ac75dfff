package billing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlfalc/glutenworld-sub001/pkg/billing"
)

const catalogYAML = `
plans:
  - id: premium-monthly
    name: Premium
    tier: premium
    price_id: price_monthly
    interval: month
    amount: 499
    currency: usd
  - id: premium-yearly
    name: Premium (yearly)
    tier: premium
    price_id: price_yearly
    trial_days: 0
    interval: year
    amount: 4999
    currency: usd
`

func TestParseCatalog(t *testing.T) {
	t.Parallel()
	c, err := billing.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	monthly, err := c.Plan("premium-monthly")
	require.NoError(t, err)
	assert.Equal(t, billing.DefaultTrialDays, monthly.TrialDays)
	assert.Equal(t, "price_monthly", monthly.PriceID)

	yearly, err := c.Plan("premium-yearly")
	require.NoError(t, err)
	assert.Equal(t, 0, yearly.TrialDays)

	_, err = c.Plan("missing")
	assert.ErrorIs(t, err, billing.ErrPlanNotFound)
	assert.Len(t, c.Plans(), 2)
}

func TestDefaultTrialIsFiveDays(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5, billing.DefaultTrialDays)
}

func TestNewCatalog_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		plans []billing.Plan
	}{
		{"missing id", []billing.Plan{{PriceID: "p"}}},
		{"missing price", []billing.Plan{{ID: "a"}}},
		{"negative trial", []billing.Plan{{ID: "a", PriceID: "p", TrialDays: -1}}},
		{"duplicate", []billing.Plan{{ID: "a", PriceID: "p"}, {ID: "a", PriceID: "q"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := billing.NewCatalog(tt.plans...)
			assert.ErrorIs(t, err, billing.ErrInvalidPlanCatalog)
		})
	}

	_, err := billing.ParseCatalog([]byte("plans: [unterminated"))
	assert.ErrorIs(t, err, billing.ErrInvalidPlanCatalog)
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	c, err := billing.LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Plans(), 2)

	_, err = billing.LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, billing.ErrInvalidPlanCatalog)
}
