package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/model"
)

// ReadRawRecords loads scraped records from a JSON array file.
func ReadRawRecords(path string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read input %s", path)
	}
	var records []model.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse input %s", path)
	}
	return records, nil
}

// ReadRawRecordsDir loads every *.json file in a directory, in name order so
// synthesized ids are stable across runs.
func ReadRawRecordsDir(dir string) ([]model.RawRecord, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: glob %s", dir)
	}
	if len(matches) == 0 {
		return nil, eris.Errorf("pipeline: no input files in %s", dir)
	}
	sort.Strings(matches)

	var records []model.RawRecord
	for _, m := range matches {
		recs, err := ReadRawRecords(m)
		if err != nil {
			return nil, err
		}
		zap.L().Debug("loaded input file", zap.String("file", m), zap.Int("records", len(recs)))
		records = append(records, recs...)
	}
	return records, nil
}
