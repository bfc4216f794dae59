package table

import (
	"fmt"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
)

// BinaryTable is a logical table: an ordered, validated collection of one
// (short) or several (long) sections sharing an identity.
//
// Sections may be added in any order; the table keeps one slot per section
// number and reports validity only once the set 0..last_section_number is
// complete with no gaps or duplicates. Invalid tables are retained for
// diagnostics but rejected by all codecs.
type BinaryTable struct {
	// sections is indexed by section number; nil entries are missing
	// sections. A short table holds exactly one entry.
	sections  []*section.Section
	attribute string
}

// New creates an empty table. The first section added fixes its identity.
func New() *BinaryTable {
	return &BinaryTable{}
}

// FromSections creates a table from sections added in order. It fails on the
// first incompatible section.
func FromSections(secs []*section.Section) (*BinaryTable, error) {
	t := New()
	for _, s := range secs {
		if err := t.AddSection(s); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// AddSection appends a section to the table. The section must be compatible
// with the sections already present: same table_id, and for long tables the
// same table_id_extension, version and last_section_number, with a section
// number not already occupied. An incompatible section leaves the table
// unchanged and returns errs.ErrSectionMismatch.
func (t *BinaryTable) AddSection(s *section.Section) error {
	if s == nil {
		return fmt.Errorf("nil section: %w", errs.ErrSectionMismatch)
	}

	if t.isEmpty() {
		if s.IsShort() {
			t.sections = []*section.Section{s}
		} else {
			t.sections = make([]*section.Section, int(s.LastSectionNumber())+1)
			t.sections[s.SectionNumber()] = s
		}

		return nil
	}

	ref := t.first()
	if s.TableID() != ref.TableID() || s.IsLong() != ref.IsLong() {
		return fmt.Errorf("table id 0x%02X: adding section with table id 0x%02X: %w", ref.TableID(), s.TableID(), errs.ErrSectionMismatch)
	}
	if ref.IsShort() {
		// A short table holds exactly one section; every slot is taken.
		return fmt.Errorf("table id 0x%02X: short table is complete: %w", ref.TableID(), errs.ErrSectionMismatch)
	}
	if s.TableIDExtension() != ref.TableIDExtension() || s.Version() != ref.Version() ||
		int(s.LastSectionNumber())+1 != len(t.sections) {
		return fmt.Errorf("table id 0x%02X ext 0x%04X version %d: incompatible section identity: %w",
			ref.TableID(), ref.TableIDExtension(), ref.Version(), errs.ErrSectionMismatch)
	}
	if t.sections[s.SectionNumber()] != nil {
		return fmt.Errorf("table id 0x%02X: section number %d already present: %w", ref.TableID(), s.SectionNumber(), errs.ErrSectionMismatch)
	}

	t.sections[s.SectionNumber()] = s

	return nil
}

// AddNewLongSection builds a long section from field values and adds it.
// This is a convenience for codecs and tests.
func (t *BinaryTable) AddNewLongSection(tableID uint8, isPrivate bool, tableIDExt uint16, version uint8, current bool, number, lastNumber uint8, payload []byte) error {
	s, err := section.NewLong(tableID, isPrivate, tableIDExt, version, current, number, lastNumber, payload)
	if err != nil {
		return err
	}

	return t.AddSection(s)
}

// IsValid recomputes the contiguity invariant: a short table holds exactly
// one section; a long table holds every section number 0..last with no gaps.
func (t *BinaryTable) IsValid() bool {
	if t.isEmpty() {
		return false
	}
	for _, s := range t.sections {
		if s == nil {
			return false
		}
	}

	return true
}

// SectionCount returns the number of sections currently present, which for
// an incomplete long table is less than last_section_number+1.
func (t *BinaryTable) SectionCount() int {
	n := 0
	for _, s := range t.sections {
		if s != nil {
			n++
		}
	}

	return n
}

// SectionAt returns the section with the given section number, or nil if it
// is missing or out of range.
func (t *BinaryTable) SectionAt(number int) *section.Section {
	if number < 0 || number >= len(t.sections) {
		return nil
	}

	return t.sections[number]
}

// Sections returns the present sections in section number order.
func (t *BinaryTable) Sections() []*section.Section {
	out := make([]*section.Section, 0, len(t.sections))
	for _, s := range t.sections {
		if s != nil {
			out = append(out, s)
		}
	}

	return out
}

func (t *BinaryTable) TableID() uint8 {
	if s := t.first(); s != nil {
		return s.TableID()
	}

	return 0xFF
}

// TableIDExtension returns the shared table_id_extension of a long table,
// zero for short tables.
func (t *BinaryTable) TableIDExtension() uint16 {
	if s := t.first(); s != nil {
		return s.TableIDExtension()
	}

	return 0
}

// Version returns the shared version of a long table, zero for short tables.
func (t *BinaryTable) Version() uint8 {
	if s := t.first(); s != nil {
		return s.Version()
	}

	return 0
}

// IsCurrent reports the shared current/next indicator, true for short tables.
func (t *BinaryTable) IsCurrent() bool {
	if s := t.first(); s != nil {
		return s.IsShort() || s.IsCurrent()
	}

	return false
}

func (t *BinaryTable) IsShort() bool {
	s := t.first()
	return s != nil && s.IsShort()
}

func (t *BinaryTable) IsLong() bool {
	s := t.first()
	return s != nil && s.IsLong()
}

// IsPrivate reports the shared private indicator of the member sections.
func (t *BinaryTable) IsPrivate() bool {
	s := t.first()
	return s != nil && s.IsPrivate()
}

// TotalSize returns the summed wire size of the present sections.
func (t *BinaryTable) TotalSize() int {
	n := 0
	for _, s := range t.sections {
		if s != nil {
			n += s.Size()
		}
	}

	return n
}

// Attribute returns the opaque annotation attached to the table.
func (t *BinaryTable) Attribute() string { return t.attribute }

// SetAttribute attaches an opaque annotation to the table and to every
// member section. The annotation survives XML round trips but never affects
// the wire bytes.
func (t *BinaryTable) SetAttribute(attr string) {
	t.attribute = attr
	for _, s := range t.sections {
		if s != nil {
			s.SetAttribute(attr)
		}
	}
}

// EqualContent reports wire equality with o: same section set, compared
// field-for-field, ignoring attribute annotations.
func (t *BinaryTable) EqualContent(o *BinaryTable) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.sections) != len(o.sections) {
		return false
	}
	for i := range t.sections {
		a, b := t.sections[i], o.sections[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && !a.EqualContent(b) {
			return false
		}
	}

	return true
}

// Equal reports structural equality with o: wire equality plus equal
// attribute annotations. This is the equality used for XML comparison.
func (t *BinaryTable) Equal(o *BinaryTable) bool {
	return t.EqualContent(o) && (t == nil || t.attribute == o.attribute)
}

func (t *BinaryTable) isEmpty() bool {
	return t.first() == nil
}

func (t *BinaryTable) first() *section.Section {
	for _, s := range t.sections {
		if s != nil {
			return s
		}
	}

	return nil
}
