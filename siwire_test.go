package siwire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/siwire/siwire/format"
	"github.com/siwire/siwire/sectionfile"
	"github.com/siwire/siwire/table"
)

func sampleFile(t *testing.T) *sectionfile.File {
	t.Helper()

	pat := table.NewPAT()
	pat.TransportStreamID = 0x0001
	pat.NetworkPID = 0x0010
	pat.Programs = []table.PATProgram{{ServiceID: 0x0100, PMTPID: 0x0200}}
	patBin, err := pat.Serialize()
	require.NoError(t, err)

	tdt := &table.TDT{UTCTime: time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)}
	tdtBin, err := tdt.Serialize()
	require.NoError(t, err)

	f := sectionfile.New()
	require.NoError(t, f.AddTable(patBin))
	require.NoError(t, f.AddTable(tdtBin))

	return f
}

func TestLoadFile_PicksRepresentationByExtension(t *testing.T) {
	f := sampleFile(t)
	dir := t.TempDir()

	binPath := dir + "/tables.bin"
	xmlPath := dir + "/tables.xml"
	require.NoError(t, f.SaveBinary(binPath))
	require.NoError(t, f.SaveXML(xmlPath))

	fromBin, err := LoadFile(binPath)
	require.NoError(t, err)
	require.Equal(t, 2, fromBin.TableCount())

	fromXML, err := LoadFile(xmlPath)
	require.NoError(t, err)
	require.Equal(t, 2, fromXML.TableCount())

	for i := range fromBin.Tables() {
		require.True(t, fromBin.Tables()[i].EqualContent(fromXML.Tables()[i]))
	}
}

func TestParseBinaryAndParseXML(t *testing.T) {
	f := sampleFile(t)

	data, err := f.SaveBuffer()
	require.NoError(t, err)
	fromBin, err := ParseBinary(data)
	require.NoError(t, err)
	require.Equal(t, 2, fromBin.TableCount())

	text, err := f.ToXMLText()
	require.NoError(t, err)
	fromXML, err := ParseXML(text)
	require.NoError(t, err)
	require.Equal(t, 2, fromXML.TableCount())
}

func TestLoadBinary_CompressedFile(t *testing.T) {
	f := sampleFile(t)
	compressed := sectionfile.New(sectionfile.WithCompression(format.CompressionZstd))
	for _, tab := range f.Tables() {
		require.NoError(t, compressed.AddTable(tab))
	}

	path := t.TempDir() + "/tables.siw"
	require.NoError(t, compressed.SaveBinary(path))

	loaded, err := LoadBinary(path)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.TableCount())
}
