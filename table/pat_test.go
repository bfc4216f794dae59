package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/xmldoc"
)

func TestPAT_SerializeWireLayout(t *testing.T) {
	pat := NewPAT()
	pat.Version = 5
	pat.TransportStreamID = 0x0001
	pat.NetworkPID = 0x0010
	pat.Programs = []PATProgram{
		{ServiceID: 0x0100, PMTPID: 0x0200},
		{ServiceID: 0x0101, PMTPID: 0x0201},
	}

	bin, err := pat.Serialize()
	require.NoError(t, err)
	require.True(t, bin.IsValid())
	require.Equal(t, uint8(TableIDPAT), bin.TableID())
	require.Equal(t, uint16(0x0001), bin.TableIDExtension())
	require.Equal(t, uint8(5), bin.Version())
	require.False(t, bin.IsPrivate())
	require.Equal(t, 1, bin.SectionCount())

	// The network PID entry comes first, as program number zero.
	require.Equal(t, []byte{
		0x00, 0x00, 0xE0, 0x10,
		0x01, 0x00, 0xE2, 0x00,
		0x01, 0x01, 0xE2, 0x01,
	}, bin.SectionAt(0).Payload())

	pat2, err := ParsePAT(bin)
	require.NoError(t, err)
	require.Equal(t, pat, pat2)
}

func TestPAT_MultiSectionSplit(t *testing.T) {
	pat := NewPAT()
	pat.Version = 7
	pat.TransportStreamID = 0x1234
	pat.NetworkPID = 0x0010

	// One more four-byte entry than a single section can hold.
	for srv := uint16(3); srv < uint16(section.MaxPSILongPayloadSize/4+16); srv++ {
		pat.Programs = append(pat.Programs, PATProgram{ServiceID: srv, PMTPID: srv + 2})
	}

	bin, err := pat.Serialize()
	require.NoError(t, err)
	require.True(t, bin.IsValid())
	require.Equal(t, 2, bin.SectionCount())

	pat2, err := ParsePAT(bin)
	require.NoError(t, err)
	require.Equal(t, pat, pat2)
}

func TestPAT_XMLForm(t *testing.T) {
	pat := NewPAT()
	pat.TransportStreamID = 0x0001
	pat.NetworkPID = 0x0010
	pat.Programs = []PATProgram{{ServiceID: 0x0100, PMTPID: 0x0200}}

	bin, err := pat.Serialize()
	require.NoError(t, err)
	bin.SetAttribute("British Broadcasting Corporation")

	_, root := xmldoc.NewDocument("siwire")
	el, err := PATCodec{}.ToXML(bin, root)
	require.NoError(t, err)
	require.Equal(t, "PAT", el.Tag)
	require.Equal(t, "0", el.SelectAttrValue("version", ""))
	require.Equal(t, "true", el.SelectAttrValue("current", ""))
	require.Equal(t, "0x0001", el.SelectAttrValue("transport_stream_id", ""))
	require.Equal(t, "0x0010", el.SelectAttrValue("network_PID", ""))

	children := el.ChildElements()
	require.Len(t, children, 2)
	require.Equal(t, "metadata", children[0].Tag)
	require.Equal(t, "British Broadcasting Corporation", children[0].SelectAttrValue("attribute", ""))
	require.Equal(t, "service", children[1].Tag)
	require.Equal(t, "0x0100", children[1].SelectAttrValue("service_id", ""))
	require.Equal(t, "0x0200", children[1].SelectAttrValue("program_map_PID", ""))

	back, err := PATCodec{}.FromXML(el)
	require.NoError(t, err)
	require.True(t, back.Equal(bin))
}

func TestPATCodec_FromXMLHandwritten(t *testing.T) {
	_, root, err := xmldoc.Parse(`
		<siwire>
		  <PAT transport_stream_id="18" network_pid="0x0010">
		    <service service_id="256" program_map_pid="512"/>
		  </PAT>
		</siwire>`)
	require.NoError(t, err)

	children := xmldoc.Children(root, "pat")
	require.Len(t, children, 1)

	bin, err := PATCodec{}.FromXML(children[0])
	require.NoError(t, err)

	pat, err := ParsePAT(bin)
	require.NoError(t, err)
	require.Equal(t, uint16(18), pat.TransportStreamID)
	require.Equal(t, uint16(0x0010), pat.NetworkPID)
	require.Equal(t, []PATProgram{{ServiceID: 256, PMTPID: 512}}, pat.Programs)
}
