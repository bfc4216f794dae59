package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultCodecs(t *testing.T) {
	cases := []struct {
		tableID uint8
		name    string
	}{
		{TableIDPAT, "PAT"},
		{TableIDCAT, "CAT"},
		{TableIDPMT, "PMT"},
		{TableIDTDT, "TDT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := LookupID(tc.tableID)
			require.True(t, ok)
			require.Equal(t, tc.tableID, c.TableID())
			require.Equal(t, tc.name, c.XMLName())

			byName, ok := LookupXMLName(tc.name)
			require.True(t, ok)
			require.Equal(t, c, byName)
		})
	}
}

func TestRegistry_CaseInsensitiveName(t *testing.T) {
	c, ok := LookupXMLName("pat")
	require.True(t, ok)
	require.Equal(t, uint8(TableIDPAT), c.TableID())

	c, ok = LookupXMLName("Pmt")
	require.True(t, ok)
	require.Equal(t, uint8(TableIDPMT), c.TableID())
}

func TestRegistry_UnknownLookups(t *testing.T) {
	_, ok := LookupID(0xEE)
	require.False(t, ok)

	_, ok = LookupXMLName("EIT")
	require.False(t, ok)
}
