package table

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/xmldoc"
)

// TableIDPMT is the table_id of the Program Map Table.
const TableIDPMT = 0x02

// pmtPrefixSize is the size of the fixed fields repeated at the start of
// every PMT section: PCR PID and program_info_length.
const pmtPrefixSize = 4

// PMT is the decoded Program Map Table of one service. Program-level
// descriptors are counted by the per-section program_info_length; each
// elementary stream entry is one atomic unit and never splits across
// sections.
type PMT struct {
	Version   uint8
	Current   bool
	ServiceID uint16
	// PCRPID is the PID carrying the program clock reference, or NullPID
	// when the program has none.
	PCRPID      uint16
	Descriptors []Descriptor
	Streams     []PMTStream
}

// PMTStream is one elementary stream entry of a PMT.
type PMTStream struct {
	Type        uint8
	PID         uint16
	Descriptors []Descriptor
}

// NewPMT returns an empty current PMT without a PCR PID.
func NewPMT(serviceID uint16) *PMT {
	return &PMT{Current: true, ServiceID: serviceID, PCRPID: NullPID}
}

// Serialize splits the PMT into sections. Every section repeats the PCR PID;
// program-level descriptors distribute across sections under each section's
// own program_info_length, then stream entries follow as indivisible units.
func (pmt *PMT) Serialize() (*BinaryTable, error) {
	p := NewPacker(TableIDPMT, false, pmt.ServiceID, pmt.Version, pmt.Current, section.MaxPSILongPayloadSize)
	p.SetPrefix(pmtPrefixSize, func(scopedLen int) []byte {
		return []byte{
			0xE0 | byte(pmt.PCRPID>>8), byte(pmt.PCRPID),
			0xF0 | byte(scopedLen>>8), byte(scopedLen),
		}
	})

	for _, d := range pmt.Descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if err := p.AddScoped(d.Bytes()); err != nil {
			return nil, err
		}
	}
	for _, st := range pmt.Streams {
		unit, err := st.bytes()
		if err != nil {
			return nil, err
		}
		if err := p.Add(unit); err != nil {
			return nil, err
		}
	}

	return p.Finish()
}

func (st PMTStream) bytes() ([]byte, error) {
	descLen := DescriptorsSize(st.Descriptors)
	if descLen > 0x0FFF {
		return nil, fmt.Errorf("PMT stream PID 0x%04X: %d descriptor bytes: %w", st.PID, descLen, errs.ErrPayloadTooLong)
	}

	unit := make([]byte, 0, 5+descLen)
	unit = append(unit,
		st.Type,
		0xE0|byte(st.PID>>8), byte(st.PID),
		0xF0|byte(descLen>>8), byte(descLen),
	)
	for _, d := range st.Descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		unit = append(unit, d.Bytes()...)
	}

	return unit, nil
}

// ParsePMT reassembles a valid PMT binary table into its decoded form. The
// PCR PID must agree across all sections.
func ParsePMT(t *BinaryTable) (*PMT, error) {
	if t != nil && t.TableID() != TableIDPMT {
		return nil, fmt.Errorf("table id 0x%02X is not a PMT: %w", t.TableID(), errs.ErrInvalidTable)
	}

	pmt := &PMT{PCRPID: NullPID}
	err := ForEachSection(t, pmtPrefixSize, func(index int, prefix, body []byte) error {
		pcrPID := uint16(prefix[0]&0x1F)<<8 | uint16(prefix[1])
		if index == 0 {
			pmt.PCRPID = pcrPID
		} else if pcrPID != pmt.PCRPID {
			return fmt.Errorf("PMT section %d: PCR PID 0x%04X, section 0 has 0x%04X: %w",
				index, pcrPID, pmt.PCRPID, errs.ErrInconsistentTable)
		}

		infoLen := int(prefix[2]&0x0F)<<8 | int(prefix[3])
		if infoLen > len(body) {
			return fmt.Errorf("PMT section %d: program_info_length %d, %d bytes left: %w",
				index, infoLen, len(body), errs.ErrTruncatedSection)
		}
		descs, err := ParseDescriptors(body[:infoLen])
		if err != nil {
			return fmt.Errorf("PMT section %d: %w", index, err)
		}
		pmt.Descriptors = append(pmt.Descriptors, descs...)

		for off := infoLen; off < len(body); {
			if off+5 > len(body) {
				return fmt.Errorf("PMT section %d: stream entry at offset %d: %w", index, off, errs.ErrTruncatedSection)
			}
			st := PMTStream{
				Type: body[off],
				PID:  uint16(body[off+1]&0x1F)<<8 | uint16(body[off+2]),
			}
			descLen := int(body[off+3]&0x0F)<<8 | int(body[off+4])
			if off+5+descLen > len(body) {
				return fmt.Errorf("PMT section %d: stream PID 0x%04X declares %d descriptor bytes: %w",
					index, st.PID, descLen, errs.ErrTruncatedSection)
			}
			st.Descriptors, err = ParseDescriptors(body[off+5 : off+5+descLen])
			if err != nil {
				return fmt.Errorf("PMT section %d stream PID 0x%04X: %w", index, st.PID, err)
			}
			pmt.Streams = append(pmt.Streams, st)
			off += 5 + descLen
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	pmt.Version = t.Version()
	pmt.Current = t.IsCurrent()
	pmt.ServiceID = t.TableIDExtension()

	return pmt, nil
}

// PMTCodec is the XML codec of the Program Map Table.
type PMTCodec struct{}

var _ Codec = PMTCodec{}

func (PMTCodec) TableID() uint8  { return TableIDPMT }
func (PMTCodec) XMLName() string { return "PMT" }

func (PMTCodec) ToXML(t *BinaryTable, parent *etree.Element) (*etree.Element, error) {
	pmt, err := ParsePMT(t)
	if err != nil {
		return nil, err
	}

	el := parent.CreateElement("PMT")
	attributeToXML(el, t.Attribute())
	xmldoc.SetIntAttr(el, "version", uint64(pmt.Version))
	xmldoc.SetBoolAttr(el, "current", pmt.Current)
	xmldoc.SetHexAttr(el, "service_id", uint64(pmt.ServiceID), 4)
	if pmt.PCRPID != NullPID {
		xmldoc.SetHexAttr(el, "PCR_PID", uint64(pmt.PCRPID), 4)
	}
	for _, d := range pmt.Descriptors {
		descriptorToXML(el, d)
	}
	for _, st := range pmt.Streams {
		comp := el.CreateElement("component")
		xmldoc.SetHexAttr(comp, "elementary_PID", uint64(st.PID), 4)
		xmldoc.SetHexAttr(comp, "stream_type", uint64(st.Type), 2)
		for _, d := range st.Descriptors {
			descriptorToXML(comp, d)
		}
	}

	return el, nil
}

func (PMTCodec) FromXML(el *etree.Element) (*BinaryTable, error) {
	version, err := xmldoc.IntAttr(el, "version", 0, section.MaxVersion)
	if err != nil {
		return nil, err
	}
	current, err := xmldoc.BoolAttr(el, "current", true)
	if err != nil {
		return nil, err
	}
	serviceID, err := xmldoc.RequireIntAttr(el, "service_id", 0xFFFF)
	if err != nil {
		return nil, err
	}
	pcrPID, err := xmldoc.IntAttr(el, "PCR_PID", NullPID, MaxPID)
	if err != nil {
		return nil, err
	}
	descs, err := descriptorsFromXML(el)
	if err != nil {
		return nil, err
	}

	pmt := &PMT{
		Version:     uint8(version),
		Current:     current,
		ServiceID:   uint16(serviceID),
		PCRPID:      uint16(pcrPID),
		Descriptors: descs,
	}
	for _, comp := range xmldoc.Children(el, "component") {
		pid, err := xmldoc.RequireIntAttr(comp, "elementary_PID", MaxPID)
		if err != nil {
			return nil, err
		}
		streamType, err := xmldoc.RequireIntAttr(comp, "stream_type", 0xFF)
		if err != nil {
			return nil, err
		}
		compDescs, err := descriptorsFromXML(comp)
		if err != nil {
			return nil, err
		}
		pmt.Streams = append(pmt.Streams, PMTStream{
			Type:        uint8(streamType),
			PID:         uint16(pid),
			Descriptors: compDescs,
		})
	}

	t, err := pmt.Serialize()
	if err != nil {
		return nil, err
	}
	t.SetAttribute(attributeFromXML(el))

	return t, nil
}
