package table

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/xmldoc"
)

// TableIDTDT is the table_id of the Time and Date Table.
const TableIDTDT = 0x70

// tdtTimeLayout is the attribute spelling of the UTC time in XML form.
const tdtTimeLayout = "2006-01-02 15:04:05"

// mjdEpoch is day zero of the Modified Julian Date used in the wire encoding.
var mjdEpoch = time.Date(1858, time.November, 17, 0, 0, 0, 0, time.UTC)

// TDT is the decoded Time and Date Table: a single short section carrying
// one UTC timestamp as a 16-bit MJD day count and three BCD time bytes.
type TDT struct {
	UTCTime time.Time
}

// Serialize encodes the TDT as its single short section. Sub-second
// precision is dropped; times before the MJD epoch or past its 16-bit day
// range cannot be represented.
func (tdt *TDT) Serialize() (*BinaryTable, error) {
	u := tdt.UTCTime.UTC().Truncate(time.Second)
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	mjd := int(midnight.Sub(mjdEpoch) / (24 * time.Hour))
	if mjd < 0 || mjd > 0xFFFF {
		return nil, fmt.Errorf("TDT time %s outside MJD range: %w", u.Format(tdtTimeLayout), errs.ErrInvalidTable)
	}

	payload := []byte{
		byte(mjd >> 8), byte(mjd),
		toBCD(u.Hour()), toBCD(u.Minute()), toBCD(u.Second()),
	}
	s, err := section.New(TableIDTDT, true, payload)
	if err != nil {
		return nil, err
	}

	return FromSections([]*section.Section{s})
}

// ParseTDT decodes a valid TDT binary table.
func ParseTDT(t *BinaryTable) (*TDT, error) {
	if t == nil || !t.IsValid() {
		return nil, fmt.Errorf("parsing TDT: %w", errs.ErrInvalidTable)
	}
	if t.TableID() != TableIDTDT || !t.IsShort() {
		return nil, fmt.Errorf("table id 0x%02X is not a TDT: %w", t.TableID(), errs.ErrInvalidTable)
	}

	payload := t.SectionAt(0).Payload()
	if len(payload) != 5 {
		return nil, fmt.Errorf("TDT payload of %d bytes: %w", len(payload), errs.ErrMalformedSection)
	}

	mjd := int(payload[0])<<8 | int(payload[1])
	hour, errH := fromBCD(payload[2])
	minute, errM := fromBCD(payload[3])
	second, errS := fromBCD(payload[4])
	if errH != nil || errM != nil || errS != nil || hour > 23 || minute > 59 || second > 59 {
		return nil, fmt.Errorf("TDT time bytes % X: %w", payload[2:], errs.ErrMalformedSection)
	}

	utc := mjdEpoch.AddDate(0, 0, mjd).
		Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)

	return &TDT{UTCTime: utc}, nil
}

func toBCD(v int) byte {
	return byte(v/10)<<4 | byte(v%10)
}

func fromBCD(b byte) (int, error) {
	hi, lo := int(b>>4), int(b&0x0F)
	if hi > 9 || lo > 9 {
		return 0, errs.ErrMalformedSection
	}

	return hi*10 + lo, nil
}

// TDTCodec is the XML codec of the Time and Date Table.
type TDTCodec struct{}

var _ Codec = TDTCodec{}

func (TDTCodec) TableID() uint8  { return TableIDTDT }
func (TDTCodec) XMLName() string { return "TDT" }

func (TDTCodec) ToXML(t *BinaryTable, parent *etree.Element) (*etree.Element, error) {
	tdt, err := ParseTDT(t)
	if err != nil {
		return nil, err
	}

	el := parent.CreateElement("TDT")
	attributeToXML(el, t.Attribute())
	el.CreateAttr("UTC_time", tdt.UTCTime.Format(tdtTimeLayout))

	return el, nil
}

func (TDTCodec) FromXML(el *etree.Element) (*BinaryTable, error) {
	raw := xmldoc.StringAttr(el, "UTC_time", "")
	if raw == "" {
		return nil, fmt.Errorf("element <%s>: missing attribute UTC_time: %w", el.Tag, errs.ErrInvalidXML)
	}
	utc, err := time.ParseInLocation(tdtTimeLayout, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("element <%s>: attribute UTC_time=%q: %w", el.Tag, raw, errs.ErrInvalidXML)
	}

	tdt := &TDT{UTCTime: utc}
	t, err := tdt.Serialize()
	if err != nil {
		return nil, err
	}
	t.SetAttribute(attributeFromXML(el))

	return t, nil
}
