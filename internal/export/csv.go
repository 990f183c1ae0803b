// Package export writes lead datasets as stage artifacts (CSV) and
// agent-facing worklists (XLSX), and reads artifacts back for stage
// restarts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/model"
)

// Columns is the stable artifact column order. Downstream consumers key on
// these names; append-only.
var Columns = []string{
	"id", "source_system", "company_name", "project_name", "description",
	"location", "state", "sector", "category", "proposal_status",
	"submission_date", "source_url", "signal_type", "product_match",
	"keywords_matched", "score", "priority_tier", "territory",
	"officer_name", "officer_role", "officer_phone", "officer_email",
	"officer_address", "officer_distance_km", "status", "raw_data",
	"scraped_at",
}

const timeLayout = time.RFC3339

// WriteCSV writes the leads as a flat CSV artifact. Nested fields are
// serialized as JSON text so downstream parsers can recover structure. Any
// failure is fatal to the run: partial artifacts must never look complete.
func WriteCSV(path string, leads []*model.Lead) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, lead := range leads {
		row, err := leadToRow(lead)
		if err != nil {
			return eris.Wrapf(err, "export: serialize lead %s", lead.ID)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write lead %s", lead.ID)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}

	zap.L().Info("artifact written", zap.String("path", path), zap.Int("leads", len(leads)))
	return nil
}

// ReadCSV reads an artifact back into leads, inverting WriteCSV. Used to
// restart the pipeline from an intermediate stage.
func ReadCSV(path string) ([]*model.Lead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "export: read %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("export: %s has no header", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[name] = i
	}

	leads := make([]*model.Lead, 0, len(rows)-1)
	for _, row := range rows[1:] {
		lead, err := rowToLead(row, idx)
		if err != nil {
			return nil, eris.Wrapf(err, "export: parse row in %s", path)
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func leadToRow(l *model.Lead) ([]string, error) {
	products, err := json.Marshal(l.ProductMatch)
	if err != nil {
		return nil, err
	}
	keywords, err := json.Marshal(l.KeywordsMatched)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(l.RawData)
	if err != nil {
		return nil, err
	}

	var submitted string
	if l.SubmissionDate != nil {
		submitted = l.SubmissionDate.Format(timeLayout)
	}

	var officerName, officerRole, officerPhone, officerEmail, officerAddr, officerDist string
	if l.Officer != nil {
		officerName = l.Officer.Name
		officerRole = l.Officer.Role
		officerPhone = l.Officer.Phone
		officerEmail = l.Officer.Email
		officerAddr = l.Officer.Address
		officerDist = strconv.FormatFloat(l.Officer.DistanceKM, 'f', 6, 64)
	}

	return []string{
		l.ID, string(l.SourceSystem), l.CompanyName, l.ProjectName, l.Description,
		l.Location, string(l.State), string(l.Sector), string(l.Category), string(l.ProposalStatus),
		submitted, l.SourceURL, string(l.SignalType), string(products),
		string(keywords), strconv.FormatFloat(l.Score, 'f', 4, 64), string(l.PriorityTier), l.Territory,
		officerName, officerRole, officerPhone, officerEmail,
		officerAddr, officerDist, string(l.Status), string(raw),
		l.ScrapedAt.Format(timeLayout),
	}, nil
}

func rowToLead(row []string, idx map[string]int) (*model.Lead, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	l := &model.Lead{
		ID:             get("id"),
		SourceSystem:   model.SourceSystem(get("source_system")),
		CompanyName:    get("company_name"),
		ProjectName:    get("project_name"),
		Description:    get("description"),
		Location:       get("location"),
		State:          model.State(get("state")),
		Sector:         model.Sector(get("sector")),
		Category:       model.Category(get("category")),
		ProposalStatus: model.ProposalStatus(get("proposal_status")),
		SourceURL:      get("source_url"),
		SignalType:     model.SignalType(get("signal_type")),
		PriorityTier:   model.PriorityTier(get("priority_tier")),
		Territory:      get("territory"),
		Status:         model.LeadStatus(get("status")),
	}

	if s := get("submission_date"); s != "" {
		t, err := time.Parse(timeLayout, s)
		if err != nil {
			return nil, eris.Wrap(err, "submission_date")
		}
		l.SubmissionDate = &t
	}
	if s := get("scraped_at"); s != "" {
		t, err := time.Parse(timeLayout, s)
		if err != nil {
			return nil, eris.Wrap(err, "scraped_at")
		}
		l.ScrapedAt = t
	}
	if s := get("score"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, eris.Wrap(err, "score")
		}
		l.Score = v
	}
	if s := get("product_match"); s != "" {
		if err := json.Unmarshal([]byte(s), &l.ProductMatch); err != nil {
			return nil, eris.Wrap(err, "product_match")
		}
	}
	if s := get("keywords_matched"); s != "" {
		if err := json.Unmarshal([]byte(s), &l.KeywordsMatched); err != nil {
			return nil, eris.Wrap(err, "keywords_matched")
		}
	}
	if s := get("raw_data"); s != "" {
		if err := json.Unmarshal([]byte(s), &l.RawData); err != nil {
			return nil, eris.Wrap(err, "raw_data")
		}
	}

	if name := get("officer_name"); name != "" {
		dist, err := strconv.ParseFloat(get("officer_distance_km"), 64)
		if err != nil {
			return nil, eris.Wrap(err, "officer_distance_km")
		}
		l.Officer = &model.OfficerAssignment{
			Name:       name,
			Role:       get("officer_role"),
			Phone:      get("officer_phone"),
			Email:      get("officer_email"),
			Address:    get("officer_address"),
			DistanceKM: dist,
		}
	}

	return l, nil
}
