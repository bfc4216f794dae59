package table

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/xmldoc"
)

// Descriptor is one tagged descriptor: the smallest atomic unit of long
// table payloads. Descriptor semantics beyond tag and raw data belong to
// higher layers; the codec framework treats the data as opaque.
type Descriptor struct {
	Tag  uint8
	Data []byte
}

// Size returns the encoded size of the descriptor: tag, length, data.
func (d Descriptor) Size() int {
	return 2 + len(d.Data)
}

// Bytes returns the wire encoding of the descriptor. Data longer than 255
// bytes cannot be represented; use Validate before encoding untrusted input.
func (d Descriptor) Bytes() []byte {
	out := make([]byte, 0, d.Size())
	out = append(out, d.Tag, byte(len(d.Data)))

	return append(out, d.Data...)
}

// Validate reports whether the descriptor data fits its 8-bit length field.
func (d Descriptor) Validate() error {
	if len(d.Data) > 255 {
		return fmt.Errorf("descriptor tag 0x%02X: data %d bytes: %w", d.Tag, len(d.Data), errs.ErrPayloadTooLong)
	}

	return nil
}

// ParseDescriptors reads a descriptor loop covering exactly b.
func ParseDescriptors(b []byte) ([]Descriptor, error) {
	var out []Descriptor
	for off := 0; off < len(b); {
		if off+2 > len(b) {
			return nil, fmt.Errorf("descriptor loop at offset %d: %w", off, errs.ErrMalformedSection)
		}
		tag := b[off]
		length := int(b[off+1])
		if off+2+length > len(b) {
			return nil, fmt.Errorf("descriptor tag 0x%02X at offset %d: declared %d bytes: %w", tag, off, length, errs.ErrTruncatedSection)
		}
		out = append(out, Descriptor{Tag: tag, Data: append([]byte(nil), b[off+2:off+2+length]...)})
		off += 2 + length
	}

	return out, nil
}

// DescriptorsSize returns the summed encoded size of a descriptor loop.
func DescriptorsSize(descs []Descriptor) int {
	n := 0
	for _, d := range descs {
		n += d.Size()
	}

	return n
}

// genericDescriptorXMLName is the element name of the tag-plus-hex-payload
// descriptor representation used when no descriptor-specific form exists.
const genericDescriptorXMLName = "generic_descriptor"

// descriptorToXML appends the generic XML form of d to parent:
// <generic_descriptor tag="0xNN"> hex dump </generic_descriptor>.
func descriptorToXML(parent *etree.Element, d Descriptor) *etree.Element {
	el := parent.CreateElement(genericDescriptorXMLName)
	xmldoc.SetHexAttr(el, "tag", uint64(d.Tag), 2)
	xmldoc.SetHexText(el, d.Data)

	return el
}

// descriptorsFromXML collects every generic_descriptor child of el, in
// document order.
func descriptorsFromXML(el *etree.Element) ([]Descriptor, error) {
	var out []Descriptor
	for _, child := range xmldoc.Children(el, genericDescriptorXMLName) {
		tag, err := xmldoc.RequireIntAttr(child, "tag", 0xFF)
		if err != nil {
			return nil, err
		}
		data, err := xmldoc.HexText(child)
		if err != nil {
			return nil, err
		}
		out = append(out, Descriptor{Tag: uint8(tag), Data: data})
	}

	return out, nil
}
