// Package model defines the entities flowing through the lead pipeline.
package model

import (
	"strings"
	"time"
)

// State is one of the covered states. Records from elsewhere keep StateUnknown
// and still flow through scoring; they just never geocode.
type State string

const (
	StateMaharashtra   State = "Maharashtra"
	StateMadhyaPradesh State = "Madhya Pradesh"
	StateUttarPradesh  State = "Uttar Pradesh"
	StateWestBengal    State = "West Bengal"
	StateHaryana       State = "Haryana"
	StateUnknown       State = "Unknown"
)

// ParseState normalizes free-text state names to the covered-state enum.
func ParseState(s string) State {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "maharashtra":
		return StateMaharashtra
	case "madhya pradesh", "madhya_pradesh":
		return StateMadhyaPradesh
	case "uttar pradesh", "uttar_pradesh":
		return StateUttarPradesh
	case "west bengal", "west_bengal":
		return StateWestBengal
	case "haryana":
		return StateHaryana
	}
	return StateUnknown
}

// Sector is the broad industry bucket of the underlying project.
type Sector string

const (
	SectorMining         Sector = "Mining"
	SectorInfrastructure Sector = "Infrastructure"
	SectorIndustrial     Sector = "Industrial"
	SectorThermal        Sector = "Thermal"
	SectorTransport      Sector = "Transport"
	SectorOther          Sector = "Other"
)

// Category is the regulatory project-scale class.
type Category string

const (
	CategoryA       Category = "A"
	CategoryB1      Category = "B1"
	CategoryB2      Category = "B2"
	CategoryUnknown Category = "Unknown"
)

// ParseCategory maps a raw category field to the enum.
func ParseCategory(s string) Category {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return CategoryA
	case "B1":
		return CategoryB1
	case "B2":
		return CategoryB2
	}
	return CategoryUnknown
}

// ProposalStatus is the regulatory stage of the underlying proposal.
type ProposalStatus string

const (
	StatusUnderVerification ProposalStatus = "Under Verification"
	StatusUnderExamination  ProposalStatus = "Under Examination"
	StatusReferredToSEAC    ProposalStatus = "Referred to SEAC"
	StatusReferredToSEIAA   ProposalStatus = "Referred to SEIAA"
	StatusApproved          ProposalStatus = "Approved"
	StatusOtherActive       ProposalStatus = "Other"
)

// statusPatterns maps status enum values to the substrings that identify them
// in raw portal text. Order matters: the first match wins.
var statusPatterns = []struct {
	status  ProposalStatus
	pattern string
}{
	{StatusUnderVerification, "under verification"},
	{StatusUnderExamination, "under examination"},
	{StatusReferredToSEAC, "referred to seac"},
	{StatusReferredToSEAC, "referred to eac"},
	{StatusReferredToSEIAA, "referred to seiaa"},
	{StatusApproved, "approved"},
	{StatusApproved, "granted"},
}

// ParseProposalStatus maps raw portal status text to the enum by substring
// match, falling back to Other for unrecognized active statuses.
func ParseProposalStatus(s string) ProposalStatus {
	lower := strings.ToLower(s)
	for _, sp := range statusPatterns {
		if strings.Contains(lower, sp.pattern) {
			return sp.status
		}
	}
	return StatusOtherActive
}

// IsActivePreApproval reports whether the status is an active pre-approval
// stage. Tier 1 eligibility is gated on this: pre-approval timing matters
// more than raw score for top priority.
func (p ProposalStatus) IsActivePreApproval() bool {
	switch p {
	case StatusUnderVerification, StatusUnderExamination, StatusReferredToSEAC, StatusReferredToSEIAA:
		return true
	}
	return false
}

// SignalType categorizes the event that generated a lead.
type SignalType string

const (
	SignalEnvironmentalClearance SignalType = "Environmental Clearance"
	SignalGovernmentTender       SignalType = "Government Tender"
	SignalPSUProcurement         SignalType = "PSU Procurement"
	SignalRoadProject            SignalType = "Road Project"
	SignalCapacityExpansion      SignalType = "Capacity Expansion"
	SignalFinancialAnnouncement  SignalType = "Financial Announcement"
	SignalNewRegistration        SignalType = "New Company Registration"
	SignalOther                  SignalType = "Other"
)

// PriorityTier is the coarse triage bucket derived from score and status.
type PriorityTier string

const (
	Tier1 PriorityTier = "Tier 1"
	Tier2 PriorityTier = "Tier 2"
	Tier3 PriorityTier = "Tier 3"
)

// LeadStatus is the sales workflow state. It is owned by the dashboard after
// the initial run; the pipeline never overwrites a non-NEW status.
type LeadStatus string

const (
	LeadNew       LeadStatus = "NEW"
	LeadContacted LeadStatus = "CONTACTED"
	LeadQualified LeadStatus = "QUALIFIED"
	LeadConverted LeadStatus = "CONVERTED"
	LeadRejected  LeadStatus = "REJECTED"
)

// ValidLeadStatus reports whether s is a recognized workflow status.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadRejected:
		return true
	}
	return false
}

// OfficerAssignment carries the contact details of the nearest field officer.
// Nil on a Lead until the proximity router runs, and left nil when the lead's
// location cannot be geocoded.
type OfficerAssignment struct {
	Name       string  `json:"officer_name"`
	Phone      string  `json:"officer_phone"`
	Email      string  `json:"officer_email"`
	Address    string  `json:"officer_address"`
	Role       string  `json:"officer_role"`
	DistanceKM float64 `json:"officer_distance_km"`
}

// Lead is the unified record flowing through the pipeline.
type Lead struct {
	ID             string         `json:"id"`
	SourceSystem   SourceSystem   `json:"source_system"`
	CompanyName    string         `json:"company_name"`
	ProjectName    string         `json:"project_name"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	State          State          `json:"state"`
	Sector         Sector         `json:"sector"`
	Category       Category       `json:"category"`
	ProposalStatus ProposalStatus `json:"proposal_status"`
	SubmissionDate *time.Time     `json:"submission_date,omitempty"`
	SourceURL      string         `json:"source_url,omitempty"`

	// Populated by the classifier.
	SignalType      SignalType          `json:"signal_type,omitempty"`
	ProductMatch    []string            `json:"product_match,omitempty"`
	KeywordsMatched map[string][]string `json:"keywords_matched,omitempty"`

	// Populated by the scorer.
	Score        float64      `json:"score"`
	PriorityTier PriorityTier `json:"priority_tier,omitempty"`

	// Populated by the proximity router.
	Territory string             `json:"territory,omitempty"`
	Officer   *OfficerAssignment `json:"officer,omitempty"`

	Status    LeadStatus        `json:"status"`
	RawData   map[string]string `json:"raw_data,omitempty"`
	ScrapedAt time.Time         `json:"scraped_at"`
}

// HighValue reports whether the lead clears the high-value bar used by the
// dashboard urgency flag.
func (l *Lead) HighValue() bool {
	return l.Score >= 70
}

// MatchedKeywordCount returns the total number of keyword hits across
// categories, for the audit trail summary.
func (l *Lead) MatchedKeywordCount() int {
	var n int
	for _, kws := range l.KeywordsMatched {
		n += len(kws)
	}
	return n
}
