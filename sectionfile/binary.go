package sectionfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/siwire/siwire/compress"
	"github.com/siwire/siwire/format"
	"github.com/siwire/siwire/internal/pool"
	"github.com/siwire/siwire/section"
)

// Compressed archives start with a four-byte magic followed by one byte
// naming the compression type. 0xFF is the stuffing table_id and never
// starts a valid plain section file.
var archiveMagic = [4]byte{0xFF, 'S', 'I', 'W'}

// archiveHeaderSize is the magic plus the compression byte.
const archiveHeaderSize = 5

// WriteBinary writes the file in binary form: every section's wire bytes,
// tables first and orphans last. With a compression other than None the
// stream is wrapped in the compressed archive framing.
func (f *File) WriteBinary(w io.Writer) error {
	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	for _, s := range f.AllSections() {
		if _, err := buf.Write(s.Bytes()); err != nil {
			return fmt.Errorf("buffering section bytes: %w", err)
		}
	}

	if f.compression == format.CompressionNone {
		if _, err := buf.WriteTo(w); err != nil {
			return fmt.Errorf("writing section data: %w", err)
		}

		return nil
	}

	codec, err := compress.CreateCodec(f.compression, "section archive")
	if err != nil {
		return err
	}
	compressed, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("compressing section archive: %w", err)
	}

	header := append(archiveMagic[:], byte(f.compression))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing archive header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("writing archive data: %w", err)
	}

	return nil
}

// SaveBinary writes the binary form to a file, replacing any existing
// content.
func (f *File) SaveBinary(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := f.WriteBinary(out); err != nil {
		out.Close()

		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	f.reporter.Debug("saved %d sections (%d tables) to %s", f.SectionCount(), f.TableCount(), path)

	return nil
}

// ReadBinary reads binary section data, plain or compressed, and adds every
// section to the file. A truncated final section fails the whole load, as
// does a bad checksum under the CRCCheck mode.
func (f *File) ReadBinary(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading section data: %w", err)
	}

	return f.LoadBuffer(data)
}

// LoadBinary reads binary section data from a file.
func (f *File) LoadBinary(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	if err := f.ReadBinary(in); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	f.reporter.Debug("loaded %d sections (%d tables) from %s", f.SectionCount(), f.TableCount(), path)

	return nil
}

// LoadBuffer adds every section of an in-memory binary image to the file.
func (f *File) LoadBuffer(data []byte) error {
	if len(data) >= archiveHeaderSize && bytes.Equal(data[:4], archiveMagic[:]) {
		compression := format.CompressionType(data[4])
		codec, err := compress.CreateCodec(compression, "section archive")
		if err != nil {
			return err
		}
		data, err = codec.Decompress(data[archiveHeaderSize:])
		if err != nil {
			return fmt.Errorf("decompressing %s section archive: %w", compression, err)
		}
		f.reporter.Debug("decompressed %s archive to %d bytes", compression, len(data))
	}

	offset := 0
	for offset < len(data) {
		s, next, err := section.Parse(data, offset, f.crcMode)
		if err != nil {
			f.reporter.Error("section at offset %d: %v", offset, err)

			return fmt.Errorf("section at offset %d: %w", offset, err)
		}
		if err := f.Add(s); err != nil {
			return fmt.Errorf("section at offset %d: %w", offset, err)
		}
		offset = next
	}

	return nil
}

// SaveBuffer returns the binary form of the file as a byte slice.
func (f *File) SaveBuffer() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.WriteBinary(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
