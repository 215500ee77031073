package voucherparser

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func wrapEnvelope(vouchers string) string {
	return fmt.Sprintf(`<ENVELOPE><BODY><DATA><TALLYMESSAGE>%s</TALLYMESSAGE></DATA></BODY></ENVELOPE>`, vouchers)
}

// S1: sales invoice with inventory + bill allocation.
func TestParse_S1_SalesWithInventoryAndBillAlloc(t *testing.T) {
	xmlText := wrapEnvelope(`
		<VOUCHER VCHTYPE="Sales" VCHNUMBER="S-101" GUID="abcd-1234">
			<DATE>20251011</DATE>
			<PARTYLEDGERNAME>Acme Distributors</PARTYLEDGERNAME>
			<ALLINVENTORYENTRIES.LIST>
				<AMOUNT>100000.00</AMOUNT>
			</ALLINVENTORYENTRIES.LIST>
			<BILLALLOCATIONS.LIST>
				<NAME>BILL-1</NAME>
				<AMOUNT>-118000.00</AMOUNT>
				<BILLTYPE>New Ref</BILLTYPE>
			</BILLALLOCATIONS.LIST>
			<LEDGERENTRIES.LIST>
				<LEDGERNAME>Acme Distributors</LEDGERNAME>
				<AMOUNT>118000.00</AMOUNT>
			</LEDGERENTRIES.LIST>
		</VOUCHER>`)

	result, err := Parse(xmlText, logrus.New())
	require.NoError(t, err)
	require.Len(t, result.Vouchers, 1)

	v := result.Vouchers[0]
	require.Equal(t, "Sales", v.VoucherType)
	require.Equal(t, "abcd-1234", v.VoucherKey)
	require.True(t, v.Subtotal.Equal(mustDecimal("100000.00")))
	require.True(t, v.Total.Equal(mustDecimal("118000.00")))
	require.True(t, v.Tax.Equal(mustDecimal("18000.00")))
	require.Equal(t, byte('A'), byte(v.AmountResolutionCase))
}

// S2: credit note with positive source values must be negated.
func TestParse_S2_CreditNoteSignFlip(t *testing.T) {
	xmlText := wrapEnvelope(`
		<VOUCHER VCHTYPE="Credit Note" GUID="cn-1">
			<DATE>20251011</DATE>
			<PARTYLEDGERNAME>Acme Distributors</PARTYLEDGERNAME>
			<ALLINVENTORYENTRIES.LIST>
				<AMOUNT>1000.00</AMOUNT>
			</ALLINVENTORYENTRIES.LIST>
			<LEDGERENTRIES.LIST>
				<LEDGERNAME>Acme Distributors</LEDGERNAME>
				<AMOUNT>1180.00</AMOUNT>
			</LEDGERENTRIES.LIST>
		</VOUCHER>`)

	result, err := Parse(xmlText, logrus.New())
	require.NoError(t, err)
	require.Len(t, result.Vouchers, 1)

	v := result.Vouchers[0]
	require.True(t, v.Subtotal.Equal(mustDecimal("-1000.00")))
	require.True(t, v.Total.Equal(mustDecimal("-1180.00")))
	require.True(t, v.Tax.Equal(mustDecimal("-180.00")))
}

// S3: invoice missing bill allocation entirely (variant XML).
func TestParse_S3_MissingBillAllocation(t *testing.T) {
	xmlText := wrapEnvelope(`
		<VOUCHER VCHTYPE="Sales" GUID="s3-1">
			<DATE>20251011</DATE>
			<PARTYLEDGERNAME>Acme Distributors</PARTYLEDGERNAME>
			<ALLINVENTORYENTRIES.LIST>
				<AMOUNT>78559.29</AMOUNT>
			</ALLINVENTORYENTRIES.LIST>
			<LEDGERENTRIES.LIST>
				<LEDGERNAME>Acme Distributors</LEDGERNAME>
				<AMOUNT>-92700.00</AMOUNT>
			</LEDGERENTRIES.LIST>
		</VOUCHER>`)

	result, err := Parse(xmlText, logrus.New())
	require.NoError(t, err)
	require.Len(t, result.Vouchers, 1)

	v := result.Vouchers[0]
	require.True(t, v.Subtotal.Equal(mustDecimal("78559.29")))
	require.True(t, v.Total.Equal(mustDecimal("92700.00")))
	require.True(t, v.Tax.Equal(mustDecimal("14140.71")))
}

// S4 / P9: two invoices, same date/party, no GUID/VCHNUMBER, distinct
// REMOTEID, must yield distinct voucher keys.
func TestParse_S4_RemoteIDPromotionKeepsDistinctKeys(t *testing.T) {
	xmlText := wrapEnvelope(`
		<VOUCHER VCHTYPE="Sales" REMOTEID="remote-a">
			<DATE>20251011</DATE>
			<PARTYLEDGERNAME>Acme Distributors</PARTYLEDGERNAME>
			<LEDGERENTRIES.LIST>
				<LEDGERNAME>Acme Distributors</LEDGERNAME>
				<AMOUNT>1000.00</AMOUNT>
			</LEDGERENTRIES.LIST>
		</VOUCHER>
		<VOUCHER VCHTYPE="Sales" REMOTEID="remote-b">
			<DATE>20251011</DATE>
			<PARTYLEDGERNAME>Acme Distributors</PARTYLEDGERNAME>
			<LEDGERENTRIES.LIST>
				<LEDGERNAME>Acme Distributors</LEDGERNAME>
				<AMOUNT>1000.00</AMOUNT>
			</LEDGERENTRIES.LIST>
		</VOUCHER>`)

	result, err := Parse(xmlText, logrus.New())
	require.NoError(t, err)
	require.Len(t, result.Vouchers, 2)
	require.NotEqual(t, result.Vouchers[0].VoucherKey, result.Vouchers[1].VoucherKey)
	require.Equal(t, "remote-a", result.Vouchers[0].VoucherKey)
	require.Equal(t, "remote-b", result.Vouchers[1].VoucherKey)
}

// P4: a voucher type outside the tax-bearing set collapses tax to zero and
// subtotal to total.
func TestParse_P4_NonTaxBearingType(t *testing.T) {
	xmlText := wrapEnvelope(`
		<VOUCHER VCHTYPE="Receipt" GUID="rcpt-1">
			<DATE>20251011</DATE>
			<PARTYLEDGERNAME>Acme Distributors</PARTYLEDGERNAME>
			<ALLLEDGERENTRIES.LIST>
				<LEDGERNAME>Acme Distributors</LEDGERNAME>
				<AMOUNT>5000.00</AMOUNT>
			</ALLLEDGERENTRIES.LIST>
		</VOUCHER>`)

	result, err := Parse(xmlText, logrus.New())
	require.NoError(t, err)
	require.Len(t, result.Vouchers, 1)

	v := result.Vouchers[0]
	require.True(t, v.Tax.IsZero())
	require.True(t, v.Subtotal.Equal(v.Total))
}

// A voucher missing VCHTYPE entirely is skipped, not fatal to the window.
func TestParse_MalformedVoucherSkipped(t *testing.T) {
	xmlText := wrapEnvelope(`
		<VOUCHER>
			<DATE>20251011</DATE>
		</VOUCHER>
		<VOUCHER VCHTYPE="Sales" GUID="ok-1">
			<DATE>20251011</DATE>
			<PARTYLEDGERNAME>Acme</PARTYLEDGERNAME>
			<LEDGERENTRIES.LIST>
				<LEDGERNAME>Acme</LEDGERNAME>
				<AMOUNT>100.00</AMOUNT>
			</LEDGERENTRIES.LIST>
		</VOUCHER>`)

	result, err := Parse(xmlText, logrus.New())
	require.NoError(t, err)
	require.Len(t, result.Vouchers, 1)
	require.Equal(t, 1, result.RowsErrored)
	require.Equal(t, "ok-1", result.Vouchers[0].VoucherKey)
}
