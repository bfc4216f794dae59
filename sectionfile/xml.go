package sectionfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/table"
	"github.com/siwire/siwire/xmldoc"
)

// XMLRootName is the root element of XML section files.
const XMLRootName = "siwire"

// ToXMLText serializes the tables of the file as an XML document. Tables
// with a registered codec use their structured form, falling back to the
// generic hex form when the payload does not decode; the rest use the
// generic form directly. Orphan sections have no XML representation and are
// skipped with a warning.
func (f *File) ToXMLText() (string, error) {
	doc, root := xmldoc.NewDocument(XMLRootName)

	for i, t := range f.tables {
		if err := f.tableToXML(t, root); err != nil {
			return "", fmt.Errorf("table %d (id 0x%02X): %w", i, t.TableID(), err)
		}
	}
	if len(f.orphans) > 0 {
		f.reporter.Warning("%d orphan sections have no XML form and were skipped", len(f.orphans))
	}

	return xmldoc.Format(doc)
}

func (f *File) tableToXML(t *table.BinaryTable, root *etree.Element) error {
	if !f.forceGeneric {
		if codec, ok := table.LookupID(t.TableID()); ok {
			_, err := codec.ToXML(t, root)
			if err == nil {
				return nil
			}
			f.reporter.Warning("table id 0x%02X does not decode as %s, using generic form: %v",
				t.TableID(), codec.XMLName(), err)
		}
	}

	_, err := table.GenericToXML(t, root)

	return err
}

// SaveXML writes the XML form to a file, replacing any existing content.
func (f *File) SaveXML(path string) error {
	text, err := f.ToXMLText()
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	f.reporter.Debug("saved %d tables to %s", f.TableCount(), path)

	return nil
}

// ParseXML adds every table of an XML document to the file. Elements are
// matched to codecs by name, ignoring case; generic_short_table and
// generic_long_table elements load through the generic codec. An element
// with no matching codec fails the load.
func (f *File) ParseXML(text string) error {
	_, root, err := xmldoc.Parse(text)
	if err != nil {
		return err
	}

	for _, el := range root.ChildElements() {
		t, err := f.tableFromXML(el)
		if err != nil {
			return err
		}
		if err := f.AddTable(t); err != nil {
			return fmt.Errorf("element <%s>: %w", el.Tag, err)
		}
	}

	return nil
}

func (f *File) tableFromXML(el *etree.Element) (*table.BinaryTable, error) {
	if strings.EqualFold(el.Tag, table.GenericShortXMLName) || strings.EqualFold(el.Tag, table.GenericLongXMLName) {
		return table.GenericFromXML(el)
	}
	if codec, ok := table.LookupXMLName(el.Tag); ok {
		return codec.FromXML(el)
	}

	return nil, fmt.Errorf("element <%s> matches no table form: %w", el.Tag, errs.ErrUnknownTableID)
}

// LoadXML reads tables from an XML file.
func (f *File) LoadXML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if err := f.ParseXML(string(data)); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	f.reporter.Debug("loaded %d tables from %s", f.TableCount(), path)

	return nil
}
