package extract

import (
	"bytes"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
)

// extractSheet flattens a spreadsheet per sheet: a sheet-title marker
// line followed by tab-joined rows. Empty cells render as empty
// strings.
func extractSheet(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", goerr.Wrap(err, "failed to open spreadsheet")
	}
	defer func() {
		_ = f.Close()
	}()

	var sections []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			// a broken sheet contributes its marker only
			sections = append(sections, "## "+sheet)
			continue
		}

		lines := make([]string, 0, len(rows)+1)
		lines = append(lines, "## "+sheet)
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n"), nil
}
