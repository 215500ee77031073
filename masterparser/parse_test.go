package masterparser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseLedgerGroups(t *testing.T) {
	xmlText := `<ENVELOPE><BODY><DATA><TALLYMESSAGE>
		<GROUP NAME="Sundry Debtors" GUID="grp-1">
			<PARENT>Current Assets</PARENT>
			<ALTERID>42</ALTERID>
		</GROUP>
		<LEDGER NAME="Acme Distributors">
			<PARENT>Sundry Debtors</PARENT>
			<BILLALLOCATIONS.LIST>
				<NAME>BILL-1</NAME>
				<OPENINGBALANCE>-50000.00</OPENINGBALANCE>
				<BILLDATE>20250601</BILLDATE>
				<BILLCREDITPERIOD>30</BILLCREDITPERIOD>
				<ISADVANCE>No</ISADVANCE>
			</BILLALLOCATIONS.LIST>
		</LEDGER>
	</TALLYMESSAGE></DATA></BODY></ENVELOPE>`

	groups, ledgerParents, openings, err := ParseLedgerGroups(xmlText)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	require.Equal(t, "Sundry Debtors", groups[0].Name)
	require.Equal(t, "Current Assets", groups[0].ParentName)
	require.Equal(t, "grp-1", groups[0].GUID)

	require.Len(t, ledgerParents, 1)
	require.Equal(t, "Acme Distributors", ledgerParents[0].Name)
	require.Equal(t, "Sundry Debtors", ledgerParents[0].ParentGroup)

	require.Len(t, openings, 1)
	require.Equal(t, "Acme Distributors", openings[0].Ledger)
	require.Equal(t, "BILL-1", openings[0].RefName)
	require.True(t, openings[0].OpeningBalance.Equal(decimal.RequireFromString("-50000.00")))
	require.NotNil(t, openings[0].CreditPeriodDays)
	require.Equal(t, 30, *openings[0].CreditPeriodDays)
	require.False(t, openings[0].IsAdvance)
}

func TestParseStockGroups(t *testing.T) {
	xmlText := `<ENVELOPE><BODY><DATA><TALLYMESSAGE>
		<STOCKGROUP NAME="Finished Goods" GUID="sg-1">
			<PARENT></PARENT>
			<ALTERID>7</ALTERID>
		</STOCKGROUP>
	</TALLYMESSAGE></DATA></BODY></ENVELOPE>`

	groups, err := ParseStockGroups(xmlText)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, "Finished Goods", groups[0].Name)
	require.Equal(t, "sg-1", groups[0].GUID)
}

func TestParseUnits(t *testing.T) {
	xmlText := `<ENVELOPE><BODY><DATA><TALLYMESSAGE>
		<UNIT NAME="Nos">
			<GSTREPUOM>NOS</GSTREPUOM>
		</UNIT>
	</TALLYMESSAGE></DATA></BODY></ENVELOPE>`

	units, err := ParseUnits(xmlText)
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, "Nos", units[0].Name)
	require.Equal(t, "NOS", units[0].GSTRepUOM)
}

// ParseItems must prefer the latest HSNDETAILS.LIST/HSNCODE over a direct
// HSNCODE tag on the stock item itself.
func TestParseItems_PrefersLatestHSNDetail(t *testing.T) {
	xmlText := `<ENVELOPE><BODY><DATA><TALLYMESSAGE>
		<STOCKITEM NAME="Widget" GUID="si-1">
			<PARENT>Finished Goods</PARENT>
			<BASEUNITS>Nos</BASEUNITS>
			<HSNCODE>0000</HSNCODE>
			<HSNDETAILS.LIST>
				<HSNCODE>8471</HSNCODE>
			</HSNDETAILS.LIST>
			<HSNDETAILS.LIST>
				<HSNCODE>8472</HSNCODE>
			</HSNDETAILS.LIST>
		</STOCKITEM>
	</TALLYMESSAGE></DATA></BODY></ENVELOPE>`

	items, err := ParseItems(xmlText)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Widget", items[0].Name)
	require.Equal(t, "8472", items[0].HSNCode)
}

func TestParseItems_FallsBackToDirectHSNCode(t *testing.T) {
	xmlText := `<ENVELOPE><BODY><DATA><TALLYMESSAGE>
		<STOCKITEM NAME="Gadget" GUID="si-2">
			<PARENT>Finished Goods</PARENT>
			<BASEUNITS>Nos</BASEUNITS>
			<HSNCODE>8517</HSNCODE>
		</STOCKITEM>
	</TALLYMESSAGE></DATA></BODY></ENVELOPE>`

	items, err := ParseItems(xmlText)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "8517", items[0].HSNCode)
}
