package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

func newRunID() string {
	return xid.New().String()
}

// hashFile returns the sha256 and size of path.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

func buildManifest(runID string, o Options, format string, table *cycles.Table, s cycles.Summary) (Manifest, error) {
	sha, size, err := hashFile(o.InputPath)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{
		FormatVersion:   ManifestFormatVersion,
		RunID:           runID,
		GeneratedAt:     time.Now().UTC(),
		SourceFile:      o.InputPath,
		SourceFileName:  filepath.Base(o.InputPath),
		SourceSHA256:    sha,
		SourceSizeBytes: size,
		SkipRows:        o.SkipRows,
		Lenient:         o.Lenient,
		RecordCount:     table.Len(),
		CycleCount:      s.Len(),
		DroppedRows:     s.DroppedRows,
		PaddedRows:      table.Padded,
		BlankLines:      table.BlankLines,
		SummaryFormat:   format,
	}, nil
}
