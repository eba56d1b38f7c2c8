package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>INR
<BANKACCTFROM>
<BANKID>HDFC0000123
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>50000.00
<FITID>2024011501
<NAME>NEFT FLIPKART INTERNET PVT LTD
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-25000.00
<FITID>2024011001
<NAME>AWS EMEA SARL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>100000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>INR
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-4599.00
<FITID>CC2024011001
<NAME>AMAZON WEB SERVICES
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-1500.00
<FITID>CC2024011501
<NAME>GOOGLE WORKSPACE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-6099.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	ctx := context.Background()
	parser := NewParser()

	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		accountID     string
	}{
		{"bank statement", sampleBankOFX, 3, "1234567890"},
		{"credit card statement", sampleCreditCardOFX, 2, "4111111111111111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, err := parser.ParseFile(ctx, strings.NewReader(tt.ofxData))
			require.NoError(t, err)
			require.Len(t, txns, tt.expectedCount)
			for _, txn := range txns {
				assert.Equal(t, tt.accountID, txn.AccountID)
				assert.Positive(t, txn.Amount)
				assert.NotEmpty(t, txn.Hash)
			}
		})
	}
}

func TestParseFileDirections(t *testing.T) {
	ctx := context.Background()
	parser := NewParser()

	txns, err := parser.ParseFile(ctx, strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	byID := make(map[string]model.BankTransaction)
	for _, txn := range txns {
		byID[txn.ID] = txn
	}

	credit := byID["2024011501"]
	assert.Equal(t, model.TypeCredit, credit.Type)
	assert.InDelta(t, 50000.0, credit.Amount, 0.001)
	assert.Equal(t, "FLIPKART INTERNET PVT LTD", credit.Description)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), credit.Date.UTC())

	debit := byID["2024011001"]
	assert.Equal(t, model.TypeDebit, debit.Type)
	assert.InDelta(t, 25000.0, debit.Amount, 0.001)

	check := byID["2024012501"]
	assert.Equal(t, "1234", check.ReferenceNumber)
}

func TestParseFileInvalid(t *testing.T) {
	ctx := context.Background()
	parser := NewParser()

	_, err := parser.ParseFile(ctx, strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}

func TestPreprocessOFX(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fixes mixed-case severity",
			input:    "<SEVERITY>Info</SEVERITY>",
			expected: "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:     "adds missing closing bracket",
			input:    "<STMTTRN",
			expected: "<STMTTRN>",
		},
		{
			name:     "trims leading whitespace",
			input:    "\n\n  OFXHEADER:100",
			expected: "OFXHEADER:100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.preprocessOFX(tt.input))
		})
	}
}

func TestGetAccounts(t *testing.T) {
	ctx := context.Background()
	parser := NewParser()

	accounts, err := parser.GetAccounts(ctx, strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)
}
