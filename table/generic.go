package table

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/xmldoc"
)

// XML element names of the generic table forms, used for table ids without a
// registered codec and available for every table id on demand.
const (
	GenericShortXMLName = "generic_short_table"
	GenericLongXMLName  = "generic_long_table"
)

// GenericToXML converts any valid table into its generic XML form and
// appends it as a child of parent.
//
// A short table becomes one generic_short_table element with table_id and
// private attributes and the payload as hexadecimal text. A long table
// becomes one generic_long_table element carrying the full identity and one
// nested <section> element of hexadecimal text per section, in section
// number order. The generic form preserves exact wire bytes for every table,
// known or unknown.
func GenericToXML(t *BinaryTable, parent *etree.Element) (*etree.Element, error) {
	if t == nil || !t.IsValid() {
		return nil, fmt.Errorf("generic XML form: %w", errs.ErrInvalidTable)
	}

	if t.IsShort() {
		el := parent.CreateElement(GenericShortXMLName)
		attributeToXML(el, t.Attribute())
		xmldoc.SetHexAttr(el, "table_id", uint64(t.TableID()), 2)
		xmldoc.SetBoolAttr(el, "private", t.IsPrivate())
		xmldoc.SetHexText(el, t.SectionAt(0).Payload())

		return el, nil
	}

	el := parent.CreateElement(GenericLongXMLName)
	attributeToXML(el, t.Attribute())
	xmldoc.SetHexAttr(el, "table_id", uint64(t.TableID()), 2)
	xmldoc.SetHexAttr(el, "table_id_ext", uint64(t.TableIDExtension()), 4)
	xmldoc.SetIntAttr(el, "version", uint64(t.Version()))
	xmldoc.SetBoolAttr(el, "current", t.IsCurrent())
	xmldoc.SetBoolAttr(el, "private", t.IsPrivate())
	for _, s := range t.Sections() {
		xmldoc.SetHexText(el.CreateElement("section"), s.Payload())
	}

	return el, nil
}

// GenericFromXML builds a table from a generic_short_table or
// generic_long_table element.
func GenericFromXML(el *etree.Element) (*BinaryTable, error) {
	switch {
	case strings.EqualFold(el.Tag, GenericShortXMLName):
		return genericShortFromXML(el)
	case strings.EqualFold(el.Tag, GenericLongXMLName):
		return genericLongFromXML(el)
	default:
		return nil, fmt.Errorf("element <%s> is not a generic table form: %w", el.Tag, errs.ErrInvalidXML)
	}
}

func genericShortFromXML(el *etree.Element) (*BinaryTable, error) {
	tableID, err := xmldoc.RequireIntAttr(el, "table_id", 0xFF)
	if err != nil {
		return nil, err
	}
	private, err := xmldoc.BoolAttr(el, "private", true)
	if err != nil {
		return nil, err
	}
	payload, err := xmldoc.HexText(el)
	if err != nil {
		return nil, err
	}

	s, err := section.New(uint8(tableID), private, payload)
	if err != nil {
		return nil, err
	}
	t, err := FromSections([]*section.Section{s})
	if err != nil {
		return nil, err
	}
	t.SetAttribute(attributeFromXML(el))

	return t, nil
}

func genericLongFromXML(el *etree.Element) (*BinaryTable, error) {
	tableID, err := xmldoc.RequireIntAttr(el, "table_id", 0xFF)
	if err != nil {
		return nil, err
	}
	tableIDExt, err := xmldoc.IntAttr(el, "table_id_ext", 0xFFFF, 0xFFFF)
	if err != nil {
		return nil, err
	}
	version, err := xmldoc.IntAttr(el, "version", 0, section.MaxVersion)
	if err != nil {
		return nil, err
	}
	current, err := xmldoc.BoolAttr(el, "current", true)
	if err != nil {
		return nil, err
	}
	private, err := xmldoc.BoolAttr(el, "private", true)
	if err != nil {
		return nil, err
	}

	children := xmldoc.Children(el, "section")
	if len(children) == 0 {
		return nil, fmt.Errorf("element <%s>: no <section> children: %w", el.Tag, errs.ErrInvalidXML)
	}
	if len(children) > section.MaxSections {
		return nil, fmt.Errorf("element <%s>: %d sections: %w", el.Tag, len(children), errs.ErrTooManySections)
	}

	t := New()
	last := uint8(len(children) - 1)
	for i, child := range children {
		payload, err := xmldoc.HexText(child)
		if err != nil {
			return nil, err
		}
		err = t.AddNewLongSection(uint8(tableID), private, uint16(tableIDExt), uint8(version), current, uint8(i), last, payload)
		if err != nil {
			return nil, err
		}
	}
	t.SetAttribute(attributeFromXML(el))

	return t, nil
}

// attributeToXML records a non-empty table annotation as a leading
// <metadata attribute="..."/> child, mirroring attributeFromXML.
func attributeToXML(el *etree.Element, attr string) {
	if attr == "" {
		return
	}
	meta := etree.NewElement("metadata")
	meta.CreateAttr("attribute", attr)
	el.InsertChildAt(0, meta)
}

// attributeFromXML reads the annotation from a <metadata> child, if present.
func attributeFromXML(el *etree.Element) string {
	for _, meta := range xmldoc.Children(el, "metadata") {
		if attr := xmldoc.StringAttr(meta, "attribute", ""); attr != "" {
			return attr
		}
	}

	return ""
}
