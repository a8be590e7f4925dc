// =============================================================================
// POS Ingest - Error Suggestions
// =============================================================================

package ingest

import "strings"

// vendorTips map a vendor name found in the filename to export advice.
var vendorTips = []struct {
	needle string
	tip    string
}{
	{"square", "For Square, use the Items or Transactions CSV export from the Dashboard reports page"},
	{"toast", "For Toast, export the Item Selection Details report as CSV"},
	{"clover", "For Clover, export Orders or Payments from the Reporting section"},
	{"shopify", "For Shopify, use the Orders export with 'Plain CSV file' selected"},
}

// suggestionsFor builds advice for a failure type, optionally flavored by the
// vendor visible in the filename.
func suggestionsFor(errType, filename string) []string {
	var out []string
	switch errType {
	case ErrTypeEmptyFile:
		out = append(out,
			"The file contains no data. Re-export it from your POS system",
			"Check that the export completed before the file was downloaded",
		)
	case ErrTypeEncoding:
		out = append(out,
			"The file's character encoding could not be handled. Re-save it as UTF-8",
			"Avoid editing exports in spreadsheet software before uploading",
		)
	case ErrTypeUnsupportedStructure:
		out = append(out,
			"The file's structure could not be parsed as a table",
			"Export as plain CSV or XLSX rather than PDF or a formatted report",
		)
	}

	lower := strings.ToLower(filename)
	for _, vt := range vendorTips {
		if strings.Contains(lower, vt.needle) {
			out = append(out, vt.tip)
		}
	}
	out = append(out, "If the problem persists, export a small date range and try again")
	return out
}
