package service

import (
	"sort"
	"strings"

	"voxcredit/internal/models"
)

// DefaultPlans is the credit pack catalog sold through the gateway.
func DefaultPlans() []models.Plan {
	return []models.Plan{
		{ID: "starter", Name: "Starter", Credits: 10000, Price: 299},
		{ID: "creator", Name: "Creator", Credits: 20000, Price: 399},
		{ID: "pro", Name: "Pro", Credits: 30000, Price: 499},
	}
}

// AmountMinor converts a plan price to the gateway's minor unit (paise).
func AmountMinor(p models.Plan) int {
	return p.Price * 100
}

type PlanCatalog struct {
	byID    map[string]models.Plan
	ordered []models.Plan
}

// NewPlanCatalog indexes plans by id; with no arguments it serves DefaultPlans.
func NewPlanCatalog(plans ...models.Plan) *PlanCatalog {
	if len(plans) == 0 {
		plans = DefaultPlans()
	}
	c := &PlanCatalog{byID: make(map[string]models.Plan, len(plans))}
	for _, p := range plans {
		c.byID[p.ID] = p
		c.ordered = append(c.ordered, p)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		return c.ordered[i].Price < c.ordered[j].Price
	})
	return c
}

// Get looks a plan up by id. Ids are case-sensitive.
func (c *PlanCatalog) Get(id string) (models.Plan, bool) {
	p, ok := c.byID[strings.TrimSpace(id)]
	return p, ok
}

// List returns the plans ordered by price, cheapest first.
func (c *PlanCatalog) List() []models.Plan {
	out := make([]models.Plan, len(c.ordered))
	copy(out, c.ordered)
	return out
}
