// Package plans is the static subscription plan registry. Definitions are
// fixed at compile time; there are no mutation operations.
package plans

const (
	PlanBasic  = "basic"
	PlanPro    = "pro"
	PlanProMax = "pro_max"
)

// UnlimitedDrafts marks a plan with no draft quota.
const UnlimitedDrafts = -1

type Definition struct {
	Name       string   `json:"name"`
	DraftLimit int      `json:"draftLimit"`
	Features   []string `json:"features"`
}

// Unlimited reports whether the plan has no draft quota.
func (d Definition) Unlimited() bool {
	return d.DraftLimit == UnlimitedDrafts
}

var definitions = map[string]Definition{
	PlanBasic: {
		Name:       PlanBasic,
		DraftLimit: 3,
		Features:   []string{"3 saved drafts", "standard decorations", "share links"},
	},
	PlanPro: {
		Name:       PlanPro,
		DraftLimit: 25,
		Features:   []string{"25 saved drafts", "premium decorations", "share links", "priority support"},
	},
	PlanProMax: {
		Name:       PlanProMax,
		DraftLimit: UnlimitedDrafts,
		Features:   []string{"unlimited drafts", "premium decorations", "share links", "priority support"},
	},
}

// rank orders plans for upgrade validation: basic < pro < pro_max.
var rank = map[string]int{
	PlanBasic:  0,
	PlanPro:    1,
	PlanProMax: 2,
}

// Lookup resolves a plan identifier to its definition. Unknown or empty
// identifiers resolve to the basic definition so a corrupted plan field can
// never grant more than the entry tier.
func Lookup(plan string) Definition {
	if def, ok := definitions[plan]; ok {
		return def
	}
	return definitions[PlanBasic]
}

// IsValid reports whether plan is one of the three known identifiers.
func IsValid(plan string) bool {
	_, ok := definitions[plan]
	return ok
}

// Rank returns the plan's position in the upgrade ordering. Unknown plans
// rank as basic, matching Lookup's fallback.
func Rank(plan string) int {
	if r, ok := rank[plan]; ok {
		return r
	}
	return rank[PlanBasic]
}

// IsUpgrade reports whether moving from one plan to target is a strict
// step up the ordering.
func IsUpgrade(from, target string) bool {
	return Rank(target) > Rank(from)
}

// UpgradeTargets lists the plans a user may request. basic is never a
// request target.
func UpgradeTargets() []string {
	return []string{PlanPro, PlanProMax}
}

// All returns every definition in ascending tier order, for the public
// plan listing.
func All() []Definition {
	return []Definition{
		definitions[PlanBasic],
		definitions[PlanPro],
		definitions[PlanProMax],
	}
}
