package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// staticSignals answers category membership from a fixed category-to-domains
// table.
type staticSignals map[string][]string

func (s staticSignals) InCategory(category, domain string) bool {
	for _, d := range s[category] {
		if d == domain {
			return true
		}
	}
	return false
}

// mondayAt returns a time on Monday 2026-03-09 at the given wall clock.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 0, 0, time.UTC)
}

func baseAggregate() Aggregate {
	return Aggregate{
		General:  models.DefaultGeneralSettings("user-1"),
		Privacy:  models.DefaultPrivacySettings("user-1"),
		Parental: DefaultParentalSettings("user-1", DefaultCatalog()),
	}
}

func TestDecideDefaultAllow(t *testing.T) {
	r := NewResolver(DefaultCatalog())

	d := r.Decide(baseAggregate(), "example.com", mondayAt(13, 0), nil)

	assert.Equal(t, types.OutcomeAllow, d.Outcome)
	assert.Equal(t, types.ReasonDefault, d.Reason)
}

func TestDecideAllowListWinsOverDenyList(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.Allow = []string{"example.com"}
	agg.Deny = []string{"example.com"}

	d := r.Decide(agg, "www.example.com", mondayAt(13, 0), nil)

	assert.Equal(t, types.OutcomeAllow, d.Outcome)
	assert.Equal(t, types.ReasonExplicitAllow, d.Reason)
}

func TestDecideAllowListWinsOverSecurityCategory(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.Allow = []string{"flagged.example"}
	agg.General.ThreatIntelligence = true
	signals := staticSignals{"threatIntelligence": {"flagged.example"}}

	d := r.Decide(agg, "flagged.example", mondayAt(13, 0), signals)

	assert.Equal(t, types.OutcomeAllow, d.Outcome)
	assert.Equal(t, types.ReasonExplicitAllow, d.Reason)
}

func TestDecideDenyListWinsOverParentalWindow(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.Deny = []string{"tiktok.com"}
	agg.Parental.BlockedApps["TikTok"] = true

	// Inside the recreation window the schedule would allow this, but the
	// deny list is consulted first.
	d := r.Decide(agg, "www.tiktok.com", mondayAt(13, 0), nil)

	assert.Equal(t, types.OutcomeBlock, d.Outcome)
	assert.Equal(t, types.ReasonExplicitDeny, d.Reason)
}

func TestDecideParentalScheduleBoundaries(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.Parental.BlockedApps["TikTok"] = true

	tests := []struct {
		name    string
		at      time.Time
		outcome types.Outcome
		reason  types.Reason
	}{
		{"just before window opens", mondayAt(11, 59), types.OutcomeBlock, types.ReasonParentalSchedule},
		{"window start is inclusive", mondayAt(12, 0), types.OutcomeAllow, types.ReasonRecreationWindow},
		{"inside window", mondayAt(15, 30), types.OutcomeAllow, types.ReasonRecreationWindow},
		{"window end is inclusive", mondayAt(18, 30), types.OutcomeAllow, types.ReasonRecreationWindow},
		{"just after window closes", mondayAt(18, 31), types.OutcomeBlock, types.ReasonParentalSchedule},
		{"early morning", mondayAt(3, 0), types.OutcomeBlock, types.ReasonParentalSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Decide(agg, "tiktok.com", tt.at, nil)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestDecideWeekendWindowIsLonger(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.Parental.BlockedApps["Fortnite"] = true

	// Saturday 2026-03-14, 20:00 is outside the weekday window but inside
	// the weekend one.
	saturday := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	d := r.Decide(agg, "epicgames.com", saturday, nil)

	assert.Equal(t, types.OutcomeAllow, d.Outcome)
	assert.Equal(t, types.ReasonRecreationWindow, d.Reason)
}

func TestDecideUnrestrictedAppIgnoresSchedule(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()

	// TikTok is in the catalog but not restricted, so the schedule never
	// applies and the query falls through to the default.
	d := r.Decide(agg, "tiktok.com", mondayAt(3, 0), nil)

	assert.Equal(t, types.OutcomeAllow, d.Outcome)
	assert.Equal(t, types.ReasonDefault, d.Reason)
}

func TestDecidePrivacyCategoryBlocks(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.Privacy.AdAway = true
	signals := staticSignals{"adAway": {"ads.example.net"}}

	d := r.Decide(agg, "ads.example.net", mondayAt(13, 0), signals)

	assert.Equal(t, types.OutcomeBlock, d.Outcome)
	assert.Equal(t, types.Reason("privacy-category:adAway"), d.Reason)
}

func TestDecidePrivacyConsultedBeforeSecurity(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.Privacy.HageziMultiPro = true
	agg.General.GoogleSafeBrowsing = true
	signals := staticSignals{
		"hageziMultiPro":     {"tracker.example"},
		"googleSafeBrowsing": {"tracker.example"},
	}

	d := r.Decide(agg, "tracker.example", mondayAt(13, 0), signals)

	assert.Equal(t, types.OutcomeBlock, d.Outcome)
	assert.Equal(t, types.Reason("privacy-category:hageziMultiPro"), d.Reason)
}

func TestDecideSecurityCategoryBlocks(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.General.BlockNewDomains = true
	signals := staticSignals{"blockNewDomains": {"fresh.example"}}

	d := r.Decide(agg, "fresh.example", mondayAt(13, 0), signals)

	assert.Equal(t, types.OutcomeBlock, d.Outcome)
	assert.Equal(t, types.Reason("security-category:blockNewDomains"), d.Reason)
}

func TestDecideDisabledCategoryNeverConsulted(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	signals := staticSignals{"adAway": {"ads.example.net"}}

	// The category would match, but it is not enabled.
	d := r.Decide(agg, "ads.example.net", mondayAt(13, 0), signals)

	assert.Equal(t, types.OutcomeAllow, d.Outcome)
	assert.Equal(t, types.ReasonDefault, d.Reason)
}

func TestDecideNilSignalsSkipsCategories(t *testing.T) {
	r := NewResolver(DefaultCatalog())
	agg := baseAggregate()
	agg.General.ThreatIntelligence = true
	agg.Privacy.AdAway = true

	d := r.Decide(agg, "anything.example", mondayAt(13, 0), nil)

	assert.Equal(t, types.OutcomeAllow, d.Outcome)
	assert.Equal(t, types.ReasonDefault, d.Reason)
}
