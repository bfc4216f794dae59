package report

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFromLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	r := FromLogger(logger, "sectionfile")
	r.Debug("parsed %d sections", 3)
	r.Info("loaded %s", "tables.bin")
	r.Warning("orphan section %d", 7)
	r.Error("bad checksum at offset %d", 1024)

	out := buf.String()
	require.Contains(t, out, "parsed 3 sections")
	require.Contains(t, out, "loaded tables.bin")
	require.Contains(t, out, "orphan section 7")
	require.Contains(t, out, "bad checksum at offset 1024")
	require.Contains(t, out, "component=sectionfile")
}

func TestNull(t *testing.T) {
	r := Null()

	// Must be callable without side effects.
	r.Debug("x")
	r.Info("x")
	r.Warning("x")
	r.Error("x")
}
