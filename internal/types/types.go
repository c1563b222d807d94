// Package types provides common type definitions for the dashboard service.
package types

// Outcome represents the result of a policy decision for a queried domain.
type Outcome string

const (
	// OutcomeAllow means the domain should be resolved normally
	OutcomeAllow Outcome = "allow"
	// OutcomeBlock means the resolver should refuse the query
	OutcomeBlock Outcome = "block"
)

// Reason identifies which policy rule produced a decision.
type Reason string

const (
	// ReasonExplicitAllow means the domain matched the user's allow list
	ReasonExplicitAllow Reason = "explicit-allow"
	// ReasonExplicitDeny means the domain matched the user's deny list
	ReasonExplicitDeny Reason = "explicit-deny"
	// ReasonRecreationWindow means a parental-restricted app was queried inside the recreation window
	ReasonRecreationWindow Reason = "parental-recreation-window"
	// ReasonParentalSchedule means a parental-restricted app was queried outside the recreation window
	ReasonParentalSchedule Reason = "parental-schedule"
	// ReasonDefault means no rule matched and the domain is allowed
	ReasonDefault Reason = "default"
)

// PrivacyCategoryReason builds the reason for a block caused by an enabled
// privacy blocklist category, e.g. "privacy-category:adAway".
func PrivacyCategoryReason(category string) Reason {
	return Reason("privacy-category:" + category)
}

// SecurityCategoryReason builds the reason for a block caused by an enabled
// general security category, e.g. "security-category:threatIntelligence".
func SecurityCategoryReason(category string) Reason {
	return Reason("security-category:" + category)
}

// QueryStatus represents how the resolver handled a logged query.
type QueryStatus string

const (
	// StatusAllowed represents a query that was resolved
	StatusAllowed QueryStatus = "allowed"
	// StatusBlocked represents a query that was refused
	StatusBlocked QueryStatus = "blocked"
)

// ListKind identifies one of the two user-authored domain sets.
type ListKind string

const (
	// ListAllow is the explicit allow list
	ListAllow ListKind = "allow"
	// ListDeny is the explicit deny list
	ListDeny ListKind = "deny"
)

// SettingsGroup identifies one independently-versioned settings document.
type SettingsGroup string

const (
	// GroupGeneral is the seven-flag security settings group
	GroupGeneral SettingsGroup = "general"
	// GroupPrivacy is the six-flag blocklist-category settings group
	GroupPrivacy SettingsGroup = "privacy"
	// GroupParental is the blocked-apps and recreation-schedule group
	GroupParental SettingsGroup = "parental"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Decision is the outcome of evaluating a user's policy aggregate for one
// queried domain at one instant.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Reason  Reason  `json:"reason"`
}
