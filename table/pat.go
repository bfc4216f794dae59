package table

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/xmldoc"
)

// PID values are 13 bits wide. NullPID is the stuffing PID; a PAT uses it to
// mean "no network PID".
const (
	MaxPID  = 0x1FFF
	NullPID = 0x1FFF
)

// TableIDPAT is the table_id of the Program Association Table.
const TableIDPAT = 0x00

// PAT is the decoded Program Association Table: the map from service id to
// PMT PID, with the optional NIT PID carried as program number zero.
type PAT struct {
	Version           uint8
	Current           bool
	TransportStreamID uint16
	// NetworkPID is the PID of the NIT, or NullPID when absent.
	NetworkPID uint16
	Programs   []PATProgram
}

// PATProgram associates one service with the PID carrying its PMT.
type PATProgram struct {
	ServiceID uint16
	PMTPID    uint16
}

// NewPAT returns an empty current PAT without a network PID.
func NewPAT() *PAT {
	return &PAT{Current: true, NetworkPID: NullPID}
}

// Serialize splits the PAT into sections. Each program association is one
// four-byte atomic unit; the network PID entry, when present, is emitted
// first as program number zero.
func (pat *PAT) Serialize() (*BinaryTable, error) {
	p := NewPacker(TableIDPAT, false, pat.TransportStreamID, pat.Version, pat.Current, section.MaxPSILongPayloadSize)

	if pat.NetworkPID != NullPID {
		if err := p.Add(patEntry(0, pat.NetworkPID)); err != nil {
			return nil, err
		}
	}
	for _, prog := range pat.Programs {
		if err := p.Add(patEntry(prog.ServiceID, prog.PMTPID)); err != nil {
			return nil, err
		}
	}

	return p.Finish()
}

func patEntry(serviceID, pid uint16) []byte {
	return []byte{
		byte(serviceID >> 8), byte(serviceID),
		0xE0 | byte(pid>>8), byte(pid),
	}
}

// ParsePAT reassembles a valid PAT binary table into its decoded form.
func ParsePAT(t *BinaryTable) (*PAT, error) {
	if t != nil && t.TableID() != TableIDPAT {
		return nil, fmt.Errorf("table id 0x%02X is not a PAT: %w", t.TableID(), errs.ErrInvalidTable)
	}

	pat := NewPAT()
	err := ForEachSection(t, 0, func(index int, _, body []byte) error {
		if len(body)%4 != 0 {
			return fmt.Errorf("PAT section %d: %d payload bytes: %w", index, len(body), errs.ErrMalformedSection)
		}
		for off := 0; off < len(body); off += 4 {
			serviceID := uint16(body[off])<<8 | uint16(body[off+1])
			pid := uint16(body[off+2]&0x1F)<<8 | uint16(body[off+3])
			if serviceID == 0 {
				pat.NetworkPID = pid
			} else {
				pat.Programs = append(pat.Programs, PATProgram{ServiceID: serviceID, PMTPID: pid})
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	pat.Version = t.Version()
	pat.Current = t.IsCurrent()
	pat.TransportStreamID = t.TableIDExtension()

	return pat, nil
}

// PATCodec is the XML codec of the Program Association Table.
type PATCodec struct{}

var _ Codec = PATCodec{}

func (PATCodec) TableID() uint8  { return TableIDPAT }
func (PATCodec) XMLName() string { return "PAT" }

func (PATCodec) ToXML(t *BinaryTable, parent *etree.Element) (*etree.Element, error) {
	pat, err := ParsePAT(t)
	if err != nil {
		return nil, err
	}

	el := parent.CreateElement("PAT")
	attributeToXML(el, t.Attribute())
	xmldoc.SetIntAttr(el, "version", uint64(pat.Version))
	xmldoc.SetBoolAttr(el, "current", pat.Current)
	xmldoc.SetHexAttr(el, "transport_stream_id", uint64(pat.TransportStreamID), 4)
	if pat.NetworkPID != NullPID {
		xmldoc.SetHexAttr(el, "network_PID", uint64(pat.NetworkPID), 4)
	}
	for _, prog := range pat.Programs {
		svc := el.CreateElement("service")
		xmldoc.SetHexAttr(svc, "service_id", uint64(prog.ServiceID), 4)
		xmldoc.SetHexAttr(svc, "program_map_PID", uint64(prog.PMTPID), 4)
	}

	return el, nil
}

func (PATCodec) FromXML(el *etree.Element) (*BinaryTable, error) {
	version, err := xmldoc.IntAttr(el, "version", 0, section.MaxVersion)
	if err != nil {
		return nil, err
	}
	current, err := xmldoc.BoolAttr(el, "current", true)
	if err != nil {
		return nil, err
	}
	tsID, err := xmldoc.RequireIntAttr(el, "transport_stream_id", 0xFFFF)
	if err != nil {
		return nil, err
	}
	networkPID, err := xmldoc.IntAttr(el, "network_PID", NullPID, MaxPID)
	if err != nil {
		return nil, err
	}

	pat := &PAT{
		Version:           uint8(version),
		Current:           current,
		TransportStreamID: uint16(tsID),
		NetworkPID:        uint16(networkPID),
	}
	for _, svc := range xmldoc.Children(el, "service") {
		serviceID, err := xmldoc.RequireIntAttr(svc, "service_id", 0xFFFF)
		if err != nil {
			return nil, err
		}
		pid, err := xmldoc.RequireIntAttr(svc, "program_map_PID", MaxPID)
		if err != nil {
			return nil, err
		}
		pat.Programs = append(pat.Programs, PATProgram{ServiceID: uint16(serviceID), PMTPID: uint16(pid)})
	}

	t, err := pat.Serialize()
	if err != nil {
		return nil, err
	}
	t.SetAttribute(attributeFromXML(el))

	return t, nil
}
