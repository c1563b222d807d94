package policy

import (
	"time"

	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// Aggregate is one user's complete filtering policy: the three settings
// groups plus the two explicit domain sets.
type Aggregate struct {
	General  models.GeneralSettings
	Privacy  models.PrivacySettings
	Parental models.ParentalSettings
	Allow    []string
	Deny     []string
}

// CategorySignals supplies the delegated membership tests for privacy and
// security categories. The dashboard only knows which categories are enabled;
// whether a concrete domain is in a category's blocklist is the external
// resolver's knowledge.
type CategorySignals interface {
	InCategory(category, domain string) bool
}

// Resolver evaluates policy aggregates. Evaluation is pure: no shared mutable
// state, safe for concurrent use.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a resolver backed by the given application catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Decide combines the aggregate with a queried domain and timestamp into a
// decision. The first matching rule wins:
//
//  1. allow list (overrides everything, including security categories)
//  2. deny list
//  3. parental blocked-app schedule
//  4. enabled privacy categories
//  5. enabled general security categories
//  6. default allow
//
// signals may be nil, in which case the delegated category steps cannot
// match.
func (r *Resolver) Decide(agg Aggregate, domain string, now time.Time, signals CategorySignals) types.Decision {
	if MatchesAny(domain, agg.Allow) {
		return types.Decision{Outcome: types.OutcomeAllow, Reason: types.ReasonExplicitAllow}
	}

	if MatchesAny(domain, agg.Deny) {
		return types.Decision{Outcome: types.OutcomeBlock, Reason: types.ReasonExplicitDeny}
	}

	if app, ok := r.catalog.OwnerOf(domain); ok && agg.Parental.BlockedApps[app] {
		day := models.Weekday(now.Weekday())
		if agg.Parental.RecreationSchedule.Window(day).Contains(now) {
			return types.Decision{Outcome: types.OutcomeAllow, Reason: types.ReasonRecreationWindow}
		}
		return types.Decision{Outcome: types.OutcomeBlock, Reason: types.ReasonParentalSchedule}
	}

	if signals != nil {
		for _, category := range agg.Privacy.EnabledCategories() {
			if signals.InCategory(category, domain) {
				return types.Decision{Outcome: types.OutcomeBlock, Reason: types.PrivacyCategoryReason(category)}
			}
		}
		for _, category := range agg.General.EnabledCategories() {
			if signals.InCategory(category, domain) {
				return types.Decision{Outcome: types.OutcomeBlock, Reason: types.SecurityCategoryReason(category)}
			}
		}
	}

	return types.Decision{Outcome: types.OutcomeAllow, Reason: types.ReasonDefault}
}
