package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse_Ledger(t *testing.T) {
	csv := `date,type,amount,currency,category,payment_method,reference,description
2024-03-01,income,"1,250.00",EUR,Consulting,Bank Transfer,INV-2024-0001,Client payment
2024-03-02,expense,89.90,EUR,Software,Card,,Hosting
2024-03-03,expense,0.00,EUR,Software,Card,,Nothing
`

	format, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ledger", format)

	assert.Equal(t, date(2024, 3, 1), rows[0].Params.Date)
	assert.True(t, amount("1250").Equal(rows[0].Params.Amount))
	assert.Equal(t, transaction.TypeIncome, rows[0].Params.Type)
	assert.Equal(t, "EUR", rows[0].Params.Currency)
	assert.Equal(t, "Consulting", rows[0].Category)
	assert.Equal(t, "Bank Transfer", rows[0].PaymentMethod)
	require.NotNil(t, rows[0].Params.ReferenceNumber)
	assert.Equal(t, "INV-2024-0001", *rows[0].Params.ReferenceNumber)

	assert.Equal(t, transaction.TypeExpense, rows[1].Params.Type)
	assert.Nil(t, rows[1].Params.ReferenceNumber)
	assert.Equal(t, "Card", rows[1].PaymentMethod)
}

func TestParse_LedgerBadType(t *testing.T) {
	csv := `date,type,amount,description
2024-03-01,transfer,10.00,Moving money
`

	_, _, err := importer.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrValidation)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParse_LedgerNegativeAmount(t *testing.T) {
	csv := `date,type,amount,description
2024-03-01,expense,-10.00,Refund?
`

	_, _, err := importer.Parse(strings.NewReader(csv))
	assert.ErrorIs(t, err, transaction.ErrNegativeAmount)
}

func TestParse_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR
Saldo disponível;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	format, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "cgd-conta", format)

	assert.Equal(t, date(2026, 1, 30), rows[0].Params.Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", rows[0].Params.Description)
	assert.True(t, amount("588.74").Equal(rows[0].Params.Amount))
	assert.Equal(t, transaction.TypeExpense, rows[0].Params.Type)
	assert.Equal(t, transaction.StatusCompleted, rows[0].Params.Status)

	assert.True(t, amount("8608.52").Equal(rows[1].Params.Amount))
	assert.Equal(t, transaction.TypeIncome, rows[1].Params.Type)
}

func TestParse_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
Intervalo de ;01-02-2026 a 14-02-2026

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	format, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "cgd-extrato", format)
	assert.Equal(t, "PAGAMENTO TSU", rows[0].Params.Description)
	assert.True(t, amount("608.13").Equal(rows[0].Params.Amount))
	assert.Equal(t, transaction.TypeExpense, rows[0].Params.Type)
	assert.Equal(t, transaction.TypeIncome, rows[1].Params.Type)
}

func TestParse_CartaoCredit(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR ;64,00 ; ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	_, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, transaction.TypeExpense, rows[0].Params.Type)
	assert.True(t, amount("64").Equal(rows[0].Params.Amount))
	assert.Equal(t, transaction.TypeIncome, rows[1].Params.Type)
	assert.True(t, amount("25").Equal(rows[1].Params.Amount))
}

func TestParse_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	_, rows, err := importer.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "CAFÉ CENTRAL", rows[0].Params.RawDescription)
}

func TestParse_EmptyFile(t *testing.T) {
	_, _, err := importer.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestParse_MissingDescription(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;;-10,00
`

	_, _, err := importer.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParse_SkipsFooterRows(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;BIG TRANSFER;-1.234.567,89
Totais;;;;
`

	_, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, amount("1234567.89").Equal(rows[0].Params.Amount))
}
