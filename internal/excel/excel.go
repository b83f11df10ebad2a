package excel

import (
	"bytes"
	"strings"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaxUploadBytes bounds an imported workbook
const MaxUploadBytes = 5 << 20

// Row is one data row keyed by its normalized header
type Row map[string]string

// Get returns the first non-empty value among keys
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// Sniff rejects anything that is not an xlsx workbook, whatever its name says
func Sniff(data []byte) error {
	if len(data) == 0 {
		return ierr.NewError("empty upload").
			WithHint("The uploaded file is empty").
			Mark(ierr.ErrValidation)
	}
	if len(data) > MaxUploadBytes {
		return ierr.NewError("upload too large").
			WithHint("The uploaded file must be at most 5 MB").
			WithReportableDetails(map[string]any{"size": len(data)}).
			Mark(ierr.ErrValidation)
	}
	// some writers order zip entries so that only the zip signature is detected;
	// excelize rejects those that are not workbooks when opening them
	kind, _ := filetype.Match(data)
	if kind != matchers.TypeXlsx && kind != matchers.TypeZip {
		return ierr.NewError("unsupported upload type").
			WithHint("Please upload an .xlsx spreadsheet").
			WithReportableDetails(map[string]any{"detected": kind.MIME.Value}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReadRows parses the first sheet. The first row is the header; headers are
// lower cased with spaces turned into underscores. Blank rows are skipped.
func ReadRows(data []byte) ([]Row, error) {
	if err := Sniff(data); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The spreadsheet could not be read").
			Mark(ierr.ErrValidation)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ierr.NewError("workbook has no sheets").
			WithHint("The spreadsheet has no sheets").
			Mark(ierr.ErrValidation)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The spreadsheet could not be read").
			Mark(ierr.ErrValidation)
	}
	if len(rows) == 0 {
		return []Row{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
	}

	out := make([]Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(Row, len(headers))
		blank := true
		for i, h := range headers {
			if h == "" || i >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[i])
			if v != "" {
				blank = false
			}
			row[h] = v
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out, nil
}

func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

// Write renders one sheet with a header row
func Write(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate spreadsheet").
			Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}
