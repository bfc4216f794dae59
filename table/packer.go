package table

import (
	"fmt"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/section"
)

// Packer fragments a logical long table into sections without ever breaking
// an atomic unit (a descriptor, or a per-entry record) across a section
// boundary.
//
// The packer fills each section up to its payload capacity; when the next
// atomic unit would overflow the remaining capacity, the current section is
// closed (even if capacity remains unused) and a new one is opened. Every
// section carries the codec's repeated fixed prefix ahead of its units.
// Section numbers are assigned 0..N-1 in emission order; all sections share
// one table_id_extension, one version and one current/next flag.
type Packer struct {
	tableID    uint8
	private    bool
	tableIDExt uint16
	version    uint8
	current    bool
	capacity   int

	prefixSize int
	makePrefix func(scopedLen int) []byte

	closed [][]byte // unit bytes of closed sections
	scoped []int    // scoped byte count per closed section

	cur       []byte
	curScoped int
	started   bool // at least one unit accepted
	plainSeen bool // an unscoped unit was accepted in the current section
}

// NewPacker creates a packer for one logical long table. The capacity is the
// payload byte budget of each section; table codecs of the 1024-byte section
// class pass section.MaxPSILongPayloadSize.
func NewPacker(tableID uint8, isPrivate bool, tableIDExt uint16, version uint8, current bool, capacity int) *Packer {
	if capacity <= 0 || capacity > section.MaxLongPayloadSize {
		capacity = section.MaxPSILongPayloadSize
	}

	return &Packer{
		tableID:    tableID,
		private:    isPrivate,
		tableIDExt: tableIDExt,
		version:    version,
		current:    current,
		capacity:   capacity,
	}
}

// SetPrefix declares the repeated fixed fields written at the start of every
// section payload. size bytes of each section's capacity are reserved;
// make is invoked once per section when it closes, receiving the number of
// scoped unit bytes packed into that section (see AddScoped), and must
// return exactly size bytes.
func (p *Packer) SetPrefix(size int, make func(scopedLen int) []byte) {
	p.prefixSize = size
	p.makePrefix = make
}

// Add appends one atomic unit. If the unit alone exceeds the per-section
// capacity the table cannot be represented and errs.ErrOversizeUnit is
// returned.
func (p *Packer) Add(unit []byte) error {
	return p.add(unit, false)
}

// AddScoped appends one atomic unit counted by the prefix's length field
// (e.g. a PMT program-level descriptor counted by program_info_length).
// Scoped units must be added before any plain unit; they are packed directly
// after each section's prefix.
func (p *Packer) AddScoped(unit []byte) error {
	if p.plainSeen {
		return fmt.Errorf("table id 0x%02X: scoped unit after plain unit: %w", p.tableID, errs.ErrInconsistentTable)
	}

	return p.add(unit, true)
}

func (p *Packer) add(unit []byte, scoped bool) error {
	if p.prefixSize+len(unit) > p.capacity {
		return fmt.Errorf("table id 0x%02X: unit of %d bytes exceeds capacity %d: %w",
			p.tableID, len(unit), p.capacity-p.prefixSize, errs.ErrOversizeUnit)
	}

	if p.prefixSize+len(p.cur)+len(unit) > p.capacity {
		p.closeSection()
	}

	p.cur = append(p.cur, unit...)
	if scoped {
		p.curScoped += len(unit)
	} else {
		p.plainSeen = true
	}
	p.started = true

	return nil
}

func (p *Packer) closeSection() {
	p.closed = append(p.closed, p.cur)
	p.scoped = append(p.scoped, p.curScoped)
	p.cur = nil
	p.curScoped = 0
	p.plainSeen = false
}

// Finish closes the last section and assembles the BinaryTable. A table with
// no units still emits one section holding only the fixed prefix.
func (p *Packer) Finish() (*BinaryTable, error) {
	p.closeSection()

	count := len(p.closed)
	if count > section.MaxSections {
		return nil, fmt.Errorf("table id 0x%02X: %d sections: %w", p.tableID, count, errs.ErrTooManySections)
	}
	last := uint8(count - 1)

	t := New()
	for i, units := range p.closed {
		payload := make([]byte, 0, p.prefixSize+len(units))
		if p.prefixSize > 0 {
			prefix := p.makePrefix(p.scoped[i])
			if len(prefix) != p.prefixSize {
				return nil, fmt.Errorf("table id 0x%02X: prefix of %d bytes, declared %d: %w",
					p.tableID, len(prefix), p.prefixSize, errs.ErrInconsistentTable)
			}
			payload = append(payload, prefix...)
		}
		payload = append(payload, units...)

		if err := t.AddNewLongSection(p.tableID, p.private, p.tableIDExt, p.version, p.current, uint8(i), last, payload); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// ForEachSection iterates a valid long table in section number order,
// handing each section's payload split into its repeated fixed prefix and
// the unit bytes after it. This is the shared reassembly walk used by every
// long-table codec; unit boundaries within body are codec-specific.
//
// Returns errs.ErrInvalidTable for incomplete or short tables and
// errs.ErrInconsistentTable when a section is too small to carry the prefix.
func ForEachSection(t *BinaryTable, prefixSize int, fn func(index int, prefix, body []byte) error) error {
	if t == nil || !t.IsValid() {
		return fmt.Errorf("reassembling: %w", errs.ErrInvalidTable)
	}
	if t.IsShort() {
		return fmt.Errorf("table id 0x%02X: reassembling a short table: %w", t.TableID(), errs.ErrInvalidTable)
	}

	for i, s := range t.Sections() {
		payload := s.Payload()
		if len(payload) < prefixSize {
			return fmt.Errorf("table id 0x%02X section %d: %d payload bytes, prefix needs %d: %w",
				t.TableID(), i, len(payload), prefixSize, errs.ErrInconsistentTable)
		}
		if err := fn(i, payload[:prefixSize], payload[prefixSize:]); err != nil {
			return err
		}
	}

	return nil
}
