package attendance

import "errors"

var (
	ErrScanNotFound   = errors.New("scan record not found")
	ErrEmptyWorkbook  = errors.New("workbook has no scan rows")
	ErrMissingColumns = errors.New("workbook is missing the name or date column")
)
