package model

import "time"

// SourceSystem identifies a disclosure source a record was scraped from.
type SourceSystem string

const (
	SourceParivesh SourceSystem = "parivesh" // PARIVESH environmental clearance portal
	SourceCPPP     SourceSystem = "cppp"     // Central Public Procurement Portal
	SourceGeM      SourceSystem = "gem"      // Government e-Marketplace
	SourceNHAI     SourceSystem = "nhai"     // NHAI project status pages
	SourceBSE      SourceSystem = "bse"      // BSE corporate filings
	SourceMCA      SourceSystem = "mca"      // MCA company registrations
)

// KnownSources lists every source the normalizer has a schema for, in the
// order synthesized IDs are sequenced per source.
var KnownSources = []SourceSystem{
	SourceParivesh, SourceCPPP, SourceGeM, SourceNHAI, SourceBSE, SourceMCA,
}

// IsKnown reports whether the source has a registered schema.
func (s SourceSystem) IsKnown() bool {
	for _, k := range KnownSources {
		if s == k {
			return true
		}
	}
	return false
}

// RawRecord is one row scraped from one source. It is immutable once written
// and consumed exactly once by the normalizer.
type RawRecord struct {
	SourceSystem SourceSystem      `json:"source_system"`
	NativeID     string            `json:"native_id,omitempty"`
	Payload      map[string]string `json:"payload"`
	ScrapedAt    time.Time         `json:"scraped_at"`
}
