package table

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/xmldoc"
)

// TableIDCAT is the table_id of the Conditional Access Table.
const TableIDCAT = 0x01

// catTableIDExt is the reserved table_id_extension of every CAT section.
const catTableIDExt = 0xFFFF

// CAT is the decoded Conditional Access Table: a flat descriptor loop. Each
// descriptor is one atomic unit when splitting into sections.
type CAT struct {
	Version     uint8
	Current     bool
	Descriptors []Descriptor
}

// NewCAT returns an empty current CAT.
func NewCAT() *CAT {
	return &CAT{Current: true}
}

// Serialize splits the CAT into sections, one descriptor at a time.
func (cat *CAT) Serialize() (*BinaryTable, error) {
	p := NewPacker(TableIDCAT, false, catTableIDExt, cat.Version, cat.Current, section.MaxPSILongPayloadSize)

	for _, d := range cat.Descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if err := p.Add(d.Bytes()); err != nil {
			return nil, err
		}
	}

	return p.Finish()
}

// ParseCAT reassembles a valid CAT binary table into its decoded form.
func ParseCAT(t *BinaryTable) (*CAT, error) {
	if t != nil && t.TableID() != TableIDCAT {
		return nil, fmt.Errorf("table id 0x%02X is not a CAT: %w", t.TableID(), errs.ErrInvalidTable)
	}

	cat := NewCAT()
	err := ForEachSection(t, 0, func(index int, _, body []byte) error {
		descs, err := ParseDescriptors(body)
		if err != nil {
			return fmt.Errorf("CAT section %d: %w", index, err)
		}
		cat.Descriptors = append(cat.Descriptors, descs...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	cat.Version = t.Version()
	cat.Current = t.IsCurrent()

	return cat, nil
}

// CATCodec is the XML codec of the Conditional Access Table.
type CATCodec struct{}

var _ Codec = CATCodec{}

func (CATCodec) TableID() uint8  { return TableIDCAT }
func (CATCodec) XMLName() string { return "CAT" }

func (CATCodec) ToXML(t *BinaryTable, parent *etree.Element) (*etree.Element, error) {
	cat, err := ParseCAT(t)
	if err != nil {
		return nil, err
	}

	el := parent.CreateElement("CAT")
	attributeToXML(el, t.Attribute())
	xmldoc.SetIntAttr(el, "version", uint64(cat.Version))
	xmldoc.SetBoolAttr(el, "current", cat.Current)
	for _, d := range cat.Descriptors {
		descriptorToXML(el, d)
	}

	return el, nil
}

func (CATCodec) FromXML(el *etree.Element) (*BinaryTable, error) {
	version, err := xmldoc.IntAttr(el, "version", 0, section.MaxVersion)
	if err != nil {
		return nil, err
	}
	current, err := xmldoc.BoolAttr(el, "current", true)
	if err != nil {
		return nil, err
	}
	descs, err := descriptorsFromXML(el)
	if err != nil {
		return nil, err
	}

	cat := &CAT{Version: uint8(version), Current: current, Descriptors: descs}

	t, err := cat.Serialize()
	if err != nil {
		return nil, err
	}
	t.SetAttribute(attributeFromXML(el))

	return t, nil
}
