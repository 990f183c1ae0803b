package normalize

import (
	"regexp"
	"time"

	"github.com/furnacex/intel-cli/internal/model"
)

// Canonical lead attribute names used as mapping targets.
const (
	attrCompanyName    = "company_name"
	attrProjectName    = "project_name"
	attrDescription    = "description"
	attrLocation       = "location"
	attrState          = "state"
	attrSector         = "sector"
	attrCategory       = "category"
	attrProposalStatus = "proposal_status"
	attrSubmissionDate = "submission_date"
	attrSourceURL      = "source_url"
	attrOtherDetails   = "other_details"
)

// sourceSchema maps source-specific payload field names to canonical lead
// attributes. Fields absent from a payload default to empty / Unknown.
type sourceSchema struct {
	// Fields maps source field name to canonical attribute.
	Fields map[string]string
	// NativeID reports whether the source carries a trustworthy native
	// identifier (e.g. a Proposal No.) usable verbatim as the lead id.
	NativeID bool
}

// sourceSchemas is the per-source field mapping table. Adding a source means
// adding an entry here and a constant in the model package, nothing else.
var sourceSchemas = map[model.SourceSystem]sourceSchema{
	model.SourceParivesh: {
		NativeID: true,
		Fields: map[string]string{
			"Project Proponent":   attrCompanyName,
			"Project Name":        attrProjectName,
			"Project_Description": attrDescription,
			"Location":            attrLocation,
			"State":               attrState,
			"Category":            attrCategory,
			"Proposal Status":     attrProposalStatus,
			"Submission Date":     attrSubmissionDate,
			"Other Details":       attrOtherDetails,
		},
	},
	model.SourceCPPP: {
		Fields: map[string]string{
			"organisation":   attrCompanyName,
			"title":          attrProjectName,
			"description":    attrDescription,
			"location":       attrLocation,
			"state":          attrState,
			"published_date": attrSubmissionDate,
			"tender_url":     attrSourceURL,
		},
	},
	model.SourceGeM: {
		Fields: map[string]string{
			"buyer":       attrCompanyName,
			"bid_title":   attrProjectName,
			"description": attrDescription,
			"consignee":   attrLocation,
			"state":       attrState,
			"start_date":  attrSubmissionDate,
			"bid_url":     attrSourceURL,
		},
	},
	model.SourceNHAI: {
		Fields: map[string]string{
			"contractor":   attrCompanyName,
			"project":      attrProjectName,
			"scope":        attrDescription,
			"stretch":      attrLocation,
			"state":        attrState,
			"award_date":   attrSubmissionDate,
			"project_url":  attrSourceURL,
			"status":       attrProposalStatus,
		},
	},
	model.SourceBSE: {
		Fields: map[string]string{
			"company":      attrCompanyName,
			"subject":      attrProjectName,
			"announcement": attrDescription,
			"state":        attrState,
			"filing_date":  attrSubmissionDate,
			"filing_url":   attrSourceURL,
		},
	},
	model.SourceMCA: {
		Fields: map[string]string{
			"company_name":       attrCompanyName,
			"activity":           attrDescription,
			"registered_office":  attrLocation,
			"state":              attrState,
			"incorporation_date": attrSubmissionDate,
		},
	},
}

// sectorPattern extracts a sector hint from parivesh "Other Details" blobs,
// e.g. "Sector: Mining".
var sectorPattern = regexp.MustCompile(`Sector:\s*([A-Za-z0-9\-]+)`)

// dateFormats lists the submission date layouts seen across sources, tried
// in order.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02 Jan 2006",
	time.RFC3339,
}

// parseDate tries each known layout; unparseable or empty dates yield nil,
// which the scorer treats as zero recency.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
