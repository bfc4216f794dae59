// Package xmldoc provides the generic element-tree helpers shared by the
// table codecs and the section file XML I/O: document creation with the
// standard declaration, hexadecimal text payloads, and attribute conversion
// with PSI-style hexadecimal spellings.
//
// It is a thin layer over github.com/beevik/etree; codecs receive and return
// *etree.Element values directly.
package xmldoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
)

// Indent is the number of spaces per nesting level in generated documents.
const Indent = 2

// NewDocument creates a document with the standard XML declaration and a
// root element of the given name.
func NewDocument(root string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	return doc, doc.CreateElement(root)
}

// Format serializes the document with the standard indentation.
func Format(doc *etree.Document) (string, error) {
	doc.Indent(Indent)

	text, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serializing XML document: %w", err)
	}

	return text, nil
}

// Parse reads an XML document from text and returns its root element.
func Parse(text string) (*etree.Document, *etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, nil, fmt.Errorf("parsing XML document: %w: %v", errs.ErrInvalidXML, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("document has no root element: %w", errs.ErrInvalidXML)
	}

	return doc, root, nil
}

// Children returns the child elements of el whose name matches name,
// ignoring case. Element names in hand-written section files appear in
// arbitrary case.
func Children(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if strings.EqualFold(child.Tag, name) {
			out = append(out, child)
		}
	}

	return out
}

// SetHexText stores data as the element's text in the conventional hex dump
// form: two uppercase hex digits per byte, space separated, 16 bytes
// per line.
func SetHexText(el *etree.Element, data []byte) {
	if len(data) == 0 {
		return
	}

	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			if i%16 == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	el.SetText(sb.String())
}

// HexText decodes the element's text as a hex dump: whitespace of any kind
// separates (or joins) hex digits, which are consumed two at a time.
func HexText(el *etree.Element) ([]byte, error) {
	var digits strings.Builder
	for _, r := range el.Text() {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			continue
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
			digits.WriteRune(r)
		default:
			return nil, fmt.Errorf("element <%s>: invalid hex character %q: %w", el.Tag, r, errs.ErrInvalidXML)
		}
	}
	s := digits.String()
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("element <%s>: odd hex digit count: %w", el.Tag, errs.ErrInvalidXML)
	}

	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("element <%s>: %w", el.Tag, errs.ErrInvalidXML)
		}
		out[i] = byte(v)
	}

	return out, nil
}

// SetHexAttr sets a numeric attribute in 0x-prefixed uppercase hexadecimal
// with the given digit width (2 for bytes, 4 for 16-bit fields).
func SetHexAttr(el *etree.Element, name string, value uint64, digits int) {
	el.CreateAttr(name, fmt.Sprintf("0x%0*X", digits, value))
}

// SetIntAttr sets a numeric attribute in decimal.
func SetIntAttr(el *etree.Element, name string, value uint64) {
	el.CreateAttr(name, strconv.FormatUint(value, 10))
}

// SetBoolAttr sets a boolean attribute as "true" or "false".
func SetBoolAttr(el *etree.Element, name string, value bool) {
	el.CreateAttr(name, strconv.FormatBool(value))
}

// attr returns the value of the named attribute, ignoring case.
func attr(el *etree.Element, name string) (string, bool) {
	for _, a := range el.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Value, true
		}
	}

	return "", false
}

// IntAttr reads a numeric attribute accepting decimal or 0x-prefixed
// hexadecimal spellings. When the attribute is absent, def is returned.
// Values above max are rejected.
func IntAttr(el *etree.Element, name string, def uint64, max uint64) (uint64, error) {
	raw, ok := attr(el, name)
	if !ok {
		return def, nil
	}

	v, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("element <%s>: attribute %s=%q: %w", el.Tag, name, raw, errs.ErrInvalidXML)
	}
	if v > max {
		return 0, fmt.Errorf("element <%s>: attribute %s=%q exceeds %d: %w", el.Tag, name, raw, max, errs.ErrInvalidXML)
	}

	return v, nil
}

// RequireIntAttr reads a numeric attribute that must be present.
func RequireIntAttr(el *etree.Element, name string, max uint64) (uint64, error) {
	if _, ok := attr(el, name); !ok {
		return 0, fmt.Errorf("element <%s>: missing attribute %s: %w", el.Tag, name, errs.ErrInvalidXML)
	}

	return IntAttr(el, name, 0, max)
}

// BoolAttr reads a boolean attribute, returning def when absent.
func BoolAttr(el *etree.Element, name string, def bool) (bool, error) {
	raw, ok := attr(el, name)
	if !ok {
		return def, nil
	}

	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("element <%s>: attribute %s=%q: %w", el.Tag, name, raw, errs.ErrInvalidXML)
	}

	return v, nil
}

// StringAttr reads a string attribute, returning def when absent.
func StringAttr(el *etree.Element, name string, def string) string {
	if raw, ok := attr(el, name); ok {
		return raw
	}

	return def
}
