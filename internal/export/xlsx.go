package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/model"
)

// worklistColumns is the trimmed column set field agents actually work
// from. The full dataset stays in the CSV artifact.
var worklistColumns = []string{
	"Priority", "Score", "Company", "Project", "Products", "Sector",
	"State", "Territory", "Status", "Officer", "Officer Phone",
	"Officer Email", "Distance (km)", "Lead ID",
}

// WriteXLSX writes the agent worklist: one sheet per priority tier, ordered
// Tier 1 first, rows sorted as given (callers pass score-descending leads).
func WriteXLSX(path string, leads []*model.Lead) error {
	f := xlsx.NewFile()

	tiers := []model.PriorityTier{model.Tier1, model.Tier2, model.Tier3}
	for _, tier := range tiers {
		sheet, err := f.AddSheet(string(tier))
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", tier)
		}

		header := sheet.AddRow()
		for _, col := range worklistColumns {
			header.AddCell().SetString(col)
		}

		for _, lead := range leads {
			if lead.PriorityTier != tier {
				continue
			}
			writeWorklistRow(sheet.AddRow(), lead)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	zap.L().Info("worklist written", zap.String("path", path), zap.Int("leads", len(leads)))
	return nil
}

func writeWorklistRow(row *xlsx.Row, lead *model.Lead) {
	row.AddCell().SetString(string(lead.PriorityTier))
	row.AddCell().SetFloatWithFormat(lead.Score, "0.0")
	row.AddCell().SetString(lead.CompanyName)
	row.AddCell().SetString(lead.ProjectName)
	row.AddCell().SetString(strings.Join(lead.ProductMatch, ", "))
	row.AddCell().SetString(string(lead.Sector))
	row.AddCell().SetString(string(lead.State))
	row.AddCell().SetString(lead.Territory)
	row.AddCell().SetString(string(lead.Status))
	if lead.Officer != nil {
		row.AddCell().SetString(lead.Officer.Name)
		row.AddCell().SetString(lead.Officer.Phone)
		row.AddCell().SetString(lead.Officer.Email)
		row.AddCell().SetFloatWithFormat(lead.Officer.DistanceKM, "0.0")
	} else {
		row.AddCell().SetString("")
		row.AddCell().SetString("")
		row.AddCell().SetString("")
		row.AddCell().SetString("")
	}
	row.AddCell().SetString(lead.ID)
}
