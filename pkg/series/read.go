package series

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/wordstream/pkg/errors"
)

// ReadCSV reads a dataset from comma-separated input.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}
	return fromRows(rows)
}

// ReadXLSX reads a dataset from sheet of an Excel workbook. An empty sheet
// name selects the first sheet.
func ReadXLSX(r io.Reader, sheet string) (Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Dataset{}, errors.New(errors.ErrCodeInvalidFormat, "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read sheet %s", sheet)
	}
	return fromRows(rows)
}

// Load reads a dataset from path. Files ending in .xlsx are read as
// workbooks, everything else as CSV.
func Load(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Dataset{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return Dataset{}, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, "")
	default:
		return ReadCSV(f)
	}
}
