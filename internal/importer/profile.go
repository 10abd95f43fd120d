package importer

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned is one signed column, negative for expenses.
	amountSigned amountMode = iota
	// amountSplit is separate debit and credit columns.
	amountSplit
	// amountTyped is an unsigned amount column next to an explicit type column.
	amountTyped
)

// numberStyle selects the decimal and thousands separators of amount cells.
type numberStyle int

const (
	// numberEuropean is "1.234,56".
	numberEuropean numberStyle = iota
	// numberPlain is "1234.56".
	numberPlain
)

// Profile describes the column layout of a CSV export.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name       string
	DateCol    string
	DateLayout string
	DescCol    string
	Numbers    numberStyle
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
	TypeCol    string

	// Optional columns, read when present in the header.
	CurrencyCol  string
	CategoryCol  string
	MethodCol    string
	ReferenceCol string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	case amountTyped:
		cols = append(cols, p.AmountCol, p.TypeCol)
	}

	return cols
}

// profiles is the ordered list of formats tried during auto-detection.
// More specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Name:         "ledger",
		DateCol:      "date",
		DateLayout:   "2006-01-02",
		DescCol:      "description",
		Numbers:      numberPlain,
		AmountMode:   amountTyped,
		AmountCol:    "amount",
		TypeCol:      "type",
		CurrencyCol:  "currency",
		CategoryCol:  "category",
		MethodCol:    "payment_method",
		ReferenceCol: "reference",
	},
	{
		Name:       "cgd-cartão",
		DateCol:    "Data",
		DateLayout: "02-01-2006",
		DescCol:    "Descrição",
		Numbers:    numberEuropean,
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
	},
	{
		Name:       "cgd-extrato",
		DateCol:    "Data mov.",
		DateLayout: "02-01-2006",
		DescCol:    "Descrição",
		Numbers:    numberEuropean,
		AmountMode: amountSigned,
		AmountCol:  "Movimento",
	},
	{
		Name:       "cgd-conta",
		DateCol:    "Data mov.",
		DateLayout: "02-01-2006",
		DescCol:    "Descrição",
		Numbers:    numberEuropean,
		AmountMode: amountSigned,
		AmountCol:  "Montante",
	},
}
