package source

import (
	"encoding/csv"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// loadJSON reads a JSON array of records from path
func loadJSON(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read data file", goerr.V("path", path))
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, goerr.Wrap(err, "failed to parse data file", goerr.V("path", path))
	}

	return records, nil
}

// loadCSV reads a CSV file with a header row into records keyed by column
func loadCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open data file", goerr.V("path", path))
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse data file", goerr.V("path", path))
	}

	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}
