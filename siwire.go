// Package siwire implements MPEG PSI/SI sections, logical tables, and
// section files in their binary and XML forms.
//
// A section is the unit of the wire format: a short 3-byte header or a long
// 8-byte header with a CRC-32/MPEG-2 trailer. A BinaryTable collects the
// sections of one logical table; codecs convert tables to structured field
// sets and XML. A section file holds many tables and moves between the
// binary and XML representations losslessly.
//
// # Basic Usage
//
// Loading a binary section file and saving it as XML:
//
//	import "github.com/siwire/siwire"
//
//	file, err := siwire.LoadFile("tables.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d tables, %d sections\n", file.TableCount(), file.SectionCount())
//	if err := file.SaveXML("tables.xml"); err != nil {
//	    log.Fatal(err)
//	}
//
// Building a table programmatically:
//
//	pat := table.NewPAT()
//	pat.TransportStreamID = 0x0001
//	pat.NetworkPID = 0x0010
//	pat.Programs = append(pat.Programs, table.PATProgram{ServiceID: 0x0100, PMTPID: 0x0200})
//	bin, err := pat.Serialize()
//
// This package provides convenience wrappers around the sectionfile package;
// for fine-grained control use sectionfile, table and section directly.
package siwire

import (
	"path/filepath"
	"strings"

	"github.com/siwire/siwire/sectionfile"
)

// LoadBinary reads a binary section file, plain or compressed.
func LoadBinary(path string, opts ...sectionfile.Option) (*sectionfile.File, error) {
	f := sectionfile.New(opts...)
	if err := f.LoadBinary(path); err != nil {
		return nil, err
	}

	return f, nil
}

// LoadXML reads an XML section file.
func LoadXML(path string, opts ...sectionfile.Option) (*sectionfile.File, error) {
	f := sectionfile.New(opts...)
	if err := f.LoadXML(path); err != nil {
		return nil, err
	}

	return f, nil
}

// LoadFile reads a section file, choosing the representation by extension:
// .xml loads as XML, anything else as binary.
func LoadFile(path string, opts ...sectionfile.Option) (*sectionfile.File, error) {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return LoadXML(path, opts...)
	}

	return LoadBinary(path, opts...)
}

// ParseBinary builds a section file from an in-memory binary image.
func ParseBinary(data []byte, opts ...sectionfile.Option) (*sectionfile.File, error) {
	f := sectionfile.New(opts...)
	if err := f.LoadBuffer(data); err != nil {
		return nil, err
	}

	return f, nil
}

// ParseXML builds a section file from an XML document.
func ParseXML(text string, opts ...sectionfile.Option) (*sectionfile.File, error) {
	f := sectionfile.New(opts...)
	if err := f.ParseXML(text); err != nil {
		return nil, err
	}

	return f, nil
}
