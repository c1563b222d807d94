package models

// GeneralSettings is the seven-flag security settings group. Every update
// transmits the full flag set; there is no partial-field contract.
type GeneralSettings struct {
	UserID                  string `json:"userId"`
	ThreatIntelligence      bool   `json:"threatIntelligence"`
	GoogleSafeBrowsing      bool   `json:"googleSafeBrowsing"`
	HomographProtection     bool   `json:"homographProtection"`
	TyposquattingProtection bool   `json:"typosquattingProtection"`
	BlockNewDomains         bool   `json:"blockNewDomains"`
	BlockDynamicDNS         bool   `json:"blockDynamicDNS"`
	BlockCSAM               bool   `json:"blockCSAM"`
	Version                 int64  `json:"version"`
}

// DefaultGeneralSettings returns the all-false defaults served before a user
// has stored anything.
func DefaultGeneralSettings(userID string) GeneralSettings {
	return GeneralSettings{UserID: userID}
}

// EnabledCategories returns the identifiers of the enabled security
// categories. Membership tests against these categories are delegated to the
// external resolver.
func (s GeneralSettings) EnabledCategories() []string {
	var out []string
	for _, c := range []struct {
		name    string
		enabled bool
	}{
		{"threatIntelligence", s.ThreatIntelligence},
		{"googleSafeBrowsing", s.GoogleSafeBrowsing},
		{"homographProtection", s.HomographProtection},
		{"typosquattingProtection", s.TyposquattingProtection},
		{"blockNewDomains", s.BlockNewDomains},
		{"blockDynamicDNS", s.BlockDynamicDNS},
		{"blockCSAM", s.BlockCSAM},
	} {
		if c.enabled {
			out = append(out, c.name)
		}
	}
	return out
}

// PrivacySettings is the six-flag group where each flag names one third-party
// blocklist category.
type PrivacySettings struct {
	UserID                 string `json:"userId"`
	AdGuardMobileAdsFilter bool   `json:"adGuardMobileAdsFilter"`
	AdAway                 bool   `json:"adAway"`
	HageziMultiPro         bool   `json:"hageziMultiPro"`
	GoodbyeAds             bool   `json:"goodbyeAds"`
	HostsVN                bool   `json:"hostsVN"`
	NextDNSAdsTrackers     bool   `json:"nextDNSAdsTrackers"`
	Version                int64  `json:"version"`
}

// DefaultPrivacySettings returns the all-false defaults.
func DefaultPrivacySettings(userID string) PrivacySettings {
	return PrivacySettings{UserID: userID}
}

// EnabledCategories returns the identifiers of the enabled blocklist
// categories.
func (s PrivacySettings) EnabledCategories() []string {
	var out []string
	for _, c := range []struct {
		name    string
		enabled bool
	}{
		{"adGuardMobileAdsFilter", s.AdGuardMobileAdsFilter},
		{"adAway", s.AdAway},
		{"hageziMultiPro", s.HageziMultiPro},
		{"goodbyeAds", s.GoodbyeAds},
		{"hostsVN", s.HostsVN},
		{"nextDNSAdsTrackers", s.NextDNSAdsTrackers},
	} {
		if c.enabled {
			out = append(out, c.name)
		}
	}
	return out
}

// ParentalSettings holds the restricted-application map and the weekly
// recreation schedule.
type ParentalSettings struct {
	UserID             string          `json:"userId"`
	BlockedApps        map[string]bool `json:"blockedApps"`
	RecreationSchedule Schedule        `json:"recreationSchedule"`
	Version            int64           `json:"version"`
}
