// Package sectionfile implements files of PSI/SI sections in their two
// interchangeable representations: raw binary (concatenated sections, with
// an optional compressed archive framing) and XML (structured table forms
// with a generic hex fallback).
//
// A File holds complete logical tables plus orphan sections that do not yet
// form a complete table. Sections added one by one fold into tables as soon
// as a contiguous set 0..last_section_number accumulates; complete tables
// are never modified by later additions.
package sectionfile
