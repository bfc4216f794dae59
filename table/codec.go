package table

import (
	"strings"
	"sync"

	"github.com/beevik/etree"
)

// Codec is a bidirectional mapping between a BinaryTable and its structured
// XML element form for one table_id. Concrete codecs define their own
// atomic-unit boundaries and fixed-field repetition policy; the section-size
// arithmetic is shared (see Packer and ForEachSection).
//
// A codec must reject invalid tables and must round-trip: for any valid
// table t of its table_id, FromXML(ToXML(t)) equals t in wire content.
type Codec interface {
	// TableID returns the table_id the codec is registered for.
	TableID() uint8

	// XMLName returns the element name produced and consumed by the codec.
	XMLName() string

	// ToXML converts a valid BinaryTable into a new child element of parent.
	ToXML(t *BinaryTable, parent *etree.Element) (*etree.Element, error)

	// FromXML builds a valid BinaryTable from an element.
	FromXML(el *etree.Element) (*BinaryTable, error)
}

// The registry maps table_id and XML element name to the codec handling
// them. Table ids without a specific codec fall back to the generic codec.
var (
	registryMu   sync.RWMutex
	codecsByID   = map[uint8]Codec{}
	codecsByName = map[string]Codec{}
)

// Register installs a codec for its table_id and XML name, replacing any
// previous registration. The PSI worked-example codecs (PAT, CAT, PMT, TDT)
// are registered by default.
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()

	codecsByID[c.TableID()] = c
	codecsByName[strings.ToLower(c.XMLName())] = c
}

// LookupID returns the codec registered for a table_id.
func LookupID(tableID uint8) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	c, ok := codecsByID[tableID]

	return c, ok
}

// LookupXMLName returns the codec registered for an element name, ignoring
// case.
func LookupXMLName(name string) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	c, ok := codecsByName[strings.ToLower(name)]

	return c, ok
}

func init() {
	Register(PATCodec{})
	Register(CATCodec{})
	Register(PMTCodec{})
	Register(TDTCodec{})
}
