package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/backoffice/internal/encoding"
	"github.com/MrJamesThe3rd/backoffice/internal/fault"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

// Row is one parsed line. Category and payment method are still names; the
// Service resolves them against the registry.
type Row struct {
	Params        transaction.CreateParams
	Category      string
	PaymentMethod string
}

// Parse reads a CSV export, detecting its charset, delimiter and column
// profile.
func Parse(r io.Reader) (string, []Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return "", nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return "", nil, fmt.Errorf("no matching CSV format found: %w", fault.ErrValidation)
	}

	parsed, err := parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return "", nil, err
	}

	return profile.Name, parsed, nil
}

// sniffDelimiter picks ';' or ',' by counting both in the first lines.
func sniffDelimiter(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))

	semi, comma := 0, 0
	for i := 0; i < 20 && sc.Scan(); i++ {
		line := sc.Text()
		semi += strings.Count(line, ";")
		comma += strings.Count(line, ",")
	}

	if comma > semi {
		return ','
	}

	return ';'
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Row, error) {
	var out []Row

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(row, cols[p.DateCol], p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, cols[p.DescCol])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description: %w", rowNum, fault.ErrValidation)
		}

		amount, txType, err := parseAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if amount.IsZero() {
			continue
		}

		params := transaction.CreateParams{
			Amount:         amount,
			Type:           txType,
			Status:         transaction.StatusCompleted,
			Currency:       optional(row, cols, p.CurrencyCol),
			Description:    desc,
			RawDescription: desc,
			Date:           date,
		}

		if ref := optional(row, cols, p.ReferenceCol); ref != "" {
			params.ReferenceNumber = &ref
		}

		out = append(out, Row{
			Params:        params,
			Category:      optional(row, cols, p.CategoryCol),
			PaymentMethod: optional(row, cols, p.MethodCol),
		})
	}

	return out, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseAmount extracts the absolute amount and transaction type from a row.
// A zero amount means the row carries no movement and should be skipped.
func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, transaction.Type, error) {
	switch p.AmountMode {
	case amountSigned:
		return signedAmount(cellValue(row, cols[p.AmountCol]), p.Numbers)
	case amountSplit:
		return splitAmount(cellValue(row, cols[p.DebitCol]), cellValue(row, cols[p.CreditCol]), p.Numbers)
	case amountTyped:
		return typedAmount(cellValue(row, cols[p.AmountCol]), cellValue(row, cols[p.TypeCol]), p.Numbers)
	}

	return decimal.Zero, "", nil
}

func signedAmount(s string, style numberStyle) (decimal.Decimal, transaction.Type, error) {
	if s == "" {
		return decimal.Zero, "", nil
	}

	d, err := parseNumber(s, style)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("amount %q: %w", s, fault.ErrValidation)
	}

	if d.IsNegative() {
		return d.Neg(), transaction.TypeExpense, nil
	}

	return d, transaction.TypeIncome, nil
}

func splitAmount(debit, credit string, style numberStyle) (decimal.Decimal, transaction.Type, error) {
	if debit != "" {
		d, err := parseNumber(debit, style)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeExpense, nil
		}
	}

	if credit != "" {
		d, err := parseNumber(credit, style)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeIncome, nil
		}
	}

	return decimal.Zero, "", nil
}

func typedAmount(s, kind string, style numberStyle) (decimal.Decimal, transaction.Type, error) {
	txType := transaction.Type(strings.ToLower(kind))
	if !txType.Valid() {
		return decimal.Zero, "", fmt.Errorf("type %q: %w", kind, transaction.ErrUnknownType)
	}

	d, err := parseNumber(s, style)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("amount %q: %w", s, fault.ErrValidation)
	}

	if d.IsNegative() {
		return decimal.Zero, "", transaction.ErrNegativeAmount
	}

	return d, txType, nil
}

func optional(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok {
		return ""
	}

	return cellValue(row, idx)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
