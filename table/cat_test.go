package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/xmldoc"
)

// caIdentifier builds a CA_identifier_descriptor listing four consecutive
// CA system ids starting at base. Encoded size is 10 bytes.
func caIdentifier(base uint16) Descriptor {
	data := make([]byte, 0, 8)
	for i := uint16(0); i < 4; i++ {
		v := base + i
		data = append(data, byte(v>>8), byte(v))
	}

	return Descriptor{Tag: 0x53, Data: data}
}

func TestCAT_MultiSectionSplit(t *testing.T) {
	cat := NewCAT()
	cat.Version = 9

	// 300 10-byte descriptors: 3000 bytes. A 1024-byte section carries at
	// most 1012 payload bytes, so 101 descriptors per section.
	counter := uint16(0)
	for i := 0; i < 300; i++ {
		cat.Descriptors = append(cat.Descriptors, caIdentifier(counter))
		counter += 4
	}

	bin, err := cat.Serialize()
	require.NoError(t, err)
	require.True(t, bin.IsValid())
	require.False(t, bin.IsShort())
	require.Equal(t, uint8(TableIDCAT), bin.TableID())
	require.Equal(t, uint16(0xFFFF), bin.TableIDExtension())
	require.Equal(t, 3, bin.SectionCount())

	require.Equal(t, 1022, bin.SectionAt(0).Size())
	require.Equal(t, 1010, bin.SectionAt(0).PayloadSize())
	require.Equal(t, 1022, bin.SectionAt(1).Size())
	require.Equal(t, 1010, bin.SectionAt(1).PayloadSize())
	require.Equal(t, 992, bin.SectionAt(2).Size())
	require.Equal(t, 980, bin.SectionAt(2).PayloadSize())

	cat2, err := ParseCAT(bin)
	require.NoError(t, err)
	require.Equal(t, uint8(9), cat2.Version)
	require.True(t, cat2.Current)
	require.Len(t, cat2.Descriptors, 300)

	counter = 0
	for _, d := range cat2.Descriptors {
		require.Equal(t, caIdentifier(counter), d)
		counter += 4
	}
}

func TestCAT_XMLRoundTrip(t *testing.T) {
	cat := NewCAT()
	cat.Version = 3
	cat.Descriptors = []Descriptor{caIdentifier(0), caIdentifier(100)}

	bin, err := cat.Serialize()
	require.NoError(t, err)
	bin.SetAttribute("scrambled feed")

	_, root := xmldoc.NewDocument("siwire")
	el, err := CATCodec{}.ToXML(bin, root)
	require.NoError(t, err)
	require.Equal(t, "CAT", el.Tag)
	require.Equal(t, "3", el.SelectAttrValue("version", ""))
	require.Len(t, xmldoc.Children(el, genericDescriptorXMLName), 2)

	// The annotation travels as the leading metadata child.
	children := el.ChildElements()
	require.NotEmpty(t, children)
	require.Equal(t, "metadata", children[0].Tag)

	back, err := CATCodec{}.FromXML(el)
	require.NoError(t, err)
	require.True(t, back.Equal(bin))
}

func TestParseCAT_WrongTableID(t *testing.T) {
	pat := NewPAT()
	bin, err := pat.Serialize()
	require.NoError(t, err)

	_, err = ParseCAT(bin)
	require.ErrorIs(t, err, errs.ErrInvalidTable)
}
