package sectionfile

import (
	"fmt"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/format"
	"github.com/siwire/siwire/internal/hash"
	"github.com/siwire/siwire/report"
	"github.com/siwire/siwire/section"
	"github.com/siwire/siwire/table"
)

// File is an in-memory section file: complete tables in arrival order, plus
// orphan long sections waiting for their siblings.
type File struct {
	tables  []*table.BinaryTable
	orphans []*section.Section

	crcMode      format.CRCMode
	compression  format.CompressionType
	reporter     report.Reporter
	forceGeneric bool
}

// New creates an empty section file.
func New(opts ...Option) *File {
	f := &File{
		crcMode:     format.CRCCheck,
		compression: format.CompressionNone,
		reporter:    report.Null(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Add adds one section. A short section immediately becomes a complete
// table. A long section joins the orphans and folds, together with any
// waiting siblings, into a new table as soon as the set 0..last is complete.
// A sibling with a section number already waiting replaces the old orphan.
// Complete tables are never modified; their duplicate sections accumulate as
// orphans of the next table generation.
func (f *File) Add(s *section.Section) error {
	if s == nil {
		return fmt.Errorf("adding nil section: %w", errs.ErrMalformedSection)
	}

	if s.IsShort() {
		t, err := table.FromSections([]*section.Section{s})
		if err != nil {
			return err
		}
		f.tables = append(f.tables, t)

		return nil
	}

	key := longSectionKey(s)
	replaced := false
	for i, o := range f.orphans {
		if longSectionKey(o) == key && o.SectionNumber() == s.SectionNumber() {
			f.orphans[i] = s
			replaced = true

			break
		}
	}
	if !replaced {
		f.orphans = append(f.orphans, s)
	}

	f.foldOrphans(key, s.LastSectionNumber())

	return nil
}

// AddTable adds a complete table. Invalid tables are rejected.
func (f *File) AddTable(t *table.BinaryTable) error {
	if t == nil || !t.IsValid() {
		return fmt.Errorf("adding table: %w", errs.ErrInvalidTable)
	}
	f.tables = append(f.tables, t)

	return nil
}

// foldOrphans assembles a new table from the orphans sharing key when every
// section number 0..last is waiting.
func (f *File) foldOrphans(key uint64, last uint8) {
	group := make([]*section.Section, int(last)+1)
	count := 0
	for _, o := range f.orphans {
		if longSectionKey(o) == key && o.LastSectionNumber() == last && group[o.SectionNumber()] == nil {
			group[o.SectionNumber()] = o
			count++
		}
	}
	if count != len(group) {
		return
	}

	t, err := table.FromSections(group)
	if err != nil {
		// Same identity hash but incompatible sections; leave them waiting.
		f.reporter.Warning("sections with colliding identity for table id 0x%02X: %v", group[0].TableID(), err)

		return
	}

	remaining := f.orphans[:0]
	for _, o := range f.orphans {
		if longSectionKey(o) != key || o.LastSectionNumber() != last {
			remaining = append(remaining, o)
		}
	}
	f.orphans = remaining
	f.tables = append(f.tables, t)
}

func longSectionKey(s *section.Section) uint64 {
	return hash.TableKey(s.TableID(), s.TableIDExtension(), s.Version())
}

// Tables returns the complete tables in arrival order.
func (f *File) Tables() []*table.BinaryTable {
	return f.tables
}

// OrphanSections returns the long sections not yet part of a complete table.
func (f *File) OrphanSections() []*section.Section {
	return f.orphans
}

// AllSections returns every section: the sections of each table in order,
// then the orphans.
func (f *File) AllSections() []*section.Section {
	var out []*section.Section
	for _, t := range f.tables {
		out = append(out, t.Sections()...)
	}

	return append(out, f.orphans...)
}

// TableCount returns the number of complete tables.
func (f *File) TableCount() int {
	return len(f.tables)
}

// SectionCount returns the total number of sections, orphans included.
func (f *File) SectionCount() int {
	n := len(f.orphans)
	for _, t := range f.tables {
		n += t.SectionCount()
	}

	return n
}

// BinarySize returns the size of the file in uncompressed binary form.
func (f *File) BinarySize() int {
	n := 0
	for _, s := range f.AllSections() {
		n += s.Size()
	}

	return n
}

// Clear removes all tables and orphan sections.
func (f *File) Clear() {
	f.tables = nil
	f.orphans = nil
}
