package bulk

import (
	"io"

	"github.com/tealeg/xlsx"

	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
)

// SheetFromXLSX reads the first worksheet of an uploaded workbook into the
// shared Sheet shape. The first row is the header.
func SheetFromXLSX(file io.ReaderAt, size int64) (Sheet, error) {
	workbook, err := xlsx.OpenReaderAt(file, size)
	if err != nil {
		return Sheet{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing workbook")
	}
	if len(workbook.Sheets) == 0 {
		return Sheet{}, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no sheets")
	}

	worksheet := workbook.Sheets[0]
	if worksheet.MaxRow < 1 {
		return Sheet{}, pkgerrors.New(pkgerrors.CodeValidation, "workbook is missing a header row")
	}

	sheet := Sheet{Header: cellValues(worksheet.Rows[0])}
	for i := 1; i < worksheet.MaxRow; i++ {
		sheet.Rows = append(sheet.Rows, cellValues(worksheet.Rows[i]))
	}
	return sheet, nil
}

func cellValues(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	values := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		values[i] = cell.String()
	}
	return values
}
