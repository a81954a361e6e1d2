// Package export renders reviewer claim listings as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"insurevis/internal/domain"
)

// BOM is the UTF-8 byte order mark, for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// columns defines the header row.
var columns = []string{
	"Claim Number",
	"Status",
	"Owner Name",
	"Owner Email",
	"Vehicle",
	"Plate Number",
	"Estimated Cost",
	"Car Company Status",
	"Insurance Company Status",
	"Documents",
	"Verified",
	"Rejected",
	"Pending",
	"Ready for Approval",
	"Created At",
	"Approved At",
	"Rejected At",
}

// Writer wraps csv.Writer for exporting claim summaries as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteClaims converts a batch of summaries to CSV rows and writes them.
func (w *Writer) WriteClaims(rows []domain.ClaimSummary) error {
	for i := range rows {
		if err := w.csv.Write(claimToRow(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Write renders rows to out in the given format.
func Write(out io.Writer, format Format, rows []domain.ClaimSummary) error {
	if format == FormatXLSX {
		return WriteXLSX(out, rows)
	}
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteClaims(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

const sheetName = "Claims"

// WriteXLSX renders rows as a single-sheet workbook.
func WriteXLSX(out io.Writer, rows []domain.ClaimSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export.WriteXLSX header: %w", err)
	}
	for i := range rows {
		cells := claimToRow(&rows[i])
		values := make([]interface{}, len(cells))
		for j, v := range cells {
			values[j] = v
		}
		// Numeric columns stay numeric so spreadsheet sums work.
		if rows[i].EstimatedCost != nil {
			values[6] = *rows[i].EstimatedCost
		}
		values[9], values[10] = rows[i].Documents.Total, rows[i].Documents.Verified
		values[11], values[12] = rows[i].Documents.Rejected, rows[i].Documents.Pending

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("export.WriteXLSX row %d: %w", i+1, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}

// claimToRow converts a single summary to a string slice matching columns.
func claimToRow(c *domain.ClaimSummary) []string {
	row := make([]string, len(columns))
	row[0] = c.DisplayNumber()
	row[1] = c.Status.Label()
	row[2] = c.OwnerName
	row[3] = c.OwnerEmail
	row[4] = strings.TrimSpace(strings.Join([]string{c.VehicleYear, c.VehicleMake, c.VehicleModel}, " "))
	row[5] = c.VehiclePlate
	if c.EstimatedCost != nil {
		row[6] = formatMoney(*c.EstimatedCost)
	}
	row[7] = roleStatusLabel(c.CarCompanyStatus)
	row[8] = roleStatusLabel(c.InsuranceCompanyStatus)
	row[9] = strconv.Itoa(c.Documents.Total)
	row[10] = strconv.Itoa(c.Documents.Verified)
	row[11] = strconv.Itoa(c.Documents.Rejected)
	row[12] = strconv.Itoa(c.Documents.Pending)
	row[13] = formatBool(c.ReadyForApproval)
	row[14] = c.CreatedAt.Format(time.RFC3339)
	row[15] = formatTime(c.ApprovedAt)
	row[16] = formatTime(c.RejectedAt)
	return row
}

func roleStatusLabel(s domain.RoleStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters other than alphanumerics, - and _
// with _, collapses runs of underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a Content-Disposition filename:
// {sanitized_prefix}_{YYYY-MM-DD}.{format}
func BuildFilename(prefix string, format Format, now time.Time) string {
	sanitized := SanitizeFilename(prefix)
	if sanitized == "" {
		sanitized = "claims"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), format)
}
