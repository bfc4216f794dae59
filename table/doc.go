// Package table implements the logical PSI/SI table layer: the BinaryTable
// collection of sections, the shared splitting and reassembly machinery used
// by every long-table codec, the table_id-keyed codec registry, the generic
// fallback codec, and the worked-example codecs (PAT, CAT, PMT, TDT).
//
// A BinaryTable owns one section (short tables) or the contiguous set
// 0..last_section_number of sibling sections sharing table_id,
// table_id_extension and version (long tables). Codecs convert between a
// BinaryTable and structured field sets or XML elements.
package table
