package table

import (
	"fmt"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/xmldoc"
)

func mustGenericShortElement(t *testing.T, tableID uint8, hexPayload string) *etree.Element {
	t.Helper()

	_, root, err := xmldoc.Parse(fmt.Sprintf(
		`<siwire><generic_short_table table_id="0x%02X" private="true">%s</generic_short_table></siwire>`,
		tableID, hexPayload))
	require.NoError(t, err)

	children := xmldoc.Children(root, GenericShortXMLName)
	require.Len(t, children, 1)

	return children[0]
}

func TestGenericXML_ShortTable(t *testing.T) {
	s, err := section.New(0xAB, false, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	require.NoError(t, err)
	tab, err := FromSections([]*section.Section{s})
	require.NoError(t, err)

	doc, root := xmldoc.NewDocument("test")
	el, err := GenericToXML(tab, root)
	require.NoError(t, err)
	require.Equal(t, GenericShortXMLName, el.Tag)
	require.Equal(t, "0xAB", el.SelectAttrValue("table_id", ""))
	require.Equal(t, "false", el.SelectAttrValue("private", ""))

	text, err := xmldoc.Format(doc)
	require.NoError(t, err)
	require.Contains(t, text, `<generic_short_table table_id="0xAB" private="false">`)
	require.Contains(t, text, "01 02 03 04 05 06")

	// Element names match regardless of case when reading back.
	_, root2, err := xmldoc.Parse(text)
	require.NoError(t, err)
	children := xmldoc.Children(root2, "GENERIC_SHORT_TABLE")
	require.Len(t, children, 1)

	back, err := GenericFromXML(children[0])
	require.NoError(t, err)
	require.True(t, back.IsShort())
	require.False(t, back.IsPrivate())
	require.Equal(t, uint8(0xAB), back.TableID())
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, back.SectionAt(0).Payload())
	require.True(t, back.EqualContent(tab))
}

func TestGenericXML_LongTable(t *testing.T) {
	tab := New()
	require.NoError(t, tab.AddNewLongSection(0xCD, true, 0x1234, 7, true, 0, 1, []byte{0x01, 0x02, 0x03, 0x04, 0x05}))
	require.NoError(t, tab.AddNewLongSection(0xCD, true, 0x1234, 7, true, 1, 1, []byte{0x11, 0x12, 0x13, 0x14}))

	doc, root := xmldoc.NewDocument("test")
	el, err := GenericToXML(tab, root)
	require.NoError(t, err)
	require.Equal(t, GenericLongXMLName, el.Tag)

	text, err := xmldoc.Format(doc)
	require.NoError(t, err)
	require.Contains(t, text,
		`<generic_long_table table_id="0xCD" table_id_ext="0x1234" version="7" current="true" private="true">`)

	_, root2, err := xmldoc.Parse(text)
	require.NoError(t, err)
	children := xmldoc.Children(root2, "GENERIC_long_TABLE")
	require.Len(t, children, 1)

	back, err := GenericFromXML(children[0])
	require.NoError(t, err)
	require.True(t, back.IsLong())
	require.True(t, back.IsPrivate())
	require.Equal(t, uint8(0xCD), back.TableID())
	require.Equal(t, uint16(0x1234), back.TableIDExtension())
	require.Equal(t, uint8(7), back.Version())
	require.Equal(t, 2, back.SectionCount())
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, back.SectionAt(0).Payload())
	require.Equal(t, []byte{0x11, 0x12, 0x13, 0x14}, back.SectionAt(1).Payload())
	require.True(t, back.EqualContent(tab))
}

func TestGenericXML_AttributeMetadata(t *testing.T) {
	s, err := section.New(0xAB, true, []byte{0x01})
	require.NoError(t, err)
	tab, err := FromSections([]*section.Section{s})
	require.NoError(t, err)
	tab.SetAttribute("from mux 3")

	_, root := xmldoc.NewDocument("test")
	el, err := GenericToXML(tab, root)
	require.NoError(t, err)

	children := el.ChildElements()
	require.Len(t, children, 1)
	require.Equal(t, "metadata", children[0].Tag)
	require.Equal(t, "from mux 3", children[0].SelectAttrValue("attribute", ""))

	back, err := GenericFromXML(el)
	require.NoError(t, err)
	require.Equal(t, "from mux 3", back.Attribute())
	require.True(t, back.Equal(tab))
}

func TestGenericXML_Errors(t *testing.T) {
	t.Run("invalid table", func(t *testing.T) {
		tab := New()
		require.NoError(t, tab.AddNewLongSection(0xCD, true, 0x1234, 7, true, 0, 1, []byte{1}))

		_, root := xmldoc.NewDocument("test")
		_, err := GenericToXML(tab, root)
		require.ErrorIs(t, err, errs.ErrInvalidTable)
	})

	t.Run("unknown element", func(t *testing.T) {
		_, root, err := xmldoc.Parse(`<siwire><PAT transport_stream_id="1"/></siwire>`)
		require.NoError(t, err)

		_, err = GenericFromXML(root.ChildElements()[0])
		require.ErrorIs(t, err, errs.ErrInvalidXML)
	})

	t.Run("long form without sections", func(t *testing.T) {
		_, root, err := xmldoc.Parse(`<siwire><generic_long_table table_id="0xCD"/></siwire>`)
		require.NoError(t, err)

		_, err = GenericFromXML(root.ChildElements()[0])
		require.ErrorIs(t, err, errs.ErrInvalidXML)
	})

	t.Run("missing table id", func(t *testing.T) {
		_, root, err := xmldoc.Parse(`<siwire><generic_short_table>01</generic_short_table></siwire>`)
		require.NoError(t, err)

		_, err = GenericFromXML(root.ChildElements()[0])
		require.ErrorIs(t, err, errs.ErrInvalidXML)
	})
}
