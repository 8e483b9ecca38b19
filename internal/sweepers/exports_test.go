package sweepers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSweepRemovesOnlyAgedWorkbooks(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.Nop()

	old := filepath.Join(dir, "Cotacao_1_20250101_120000.xlsx")
	recent := filepath.Join(dir, "Cotacao_2_20260828_120000.xlsx")
	other := filepath.Join(dir, "notas.txt")
	for _, p := range []string{old, recent, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	aged := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, aged, aged))
	require.NoError(t, os.Chtimes(other, aged, aged))

	s := NewExportSweeper(dir, 30, time.Hour, &logger)
	require.NoError(t, s.Sweep())

	_, err := os.Stat(old)
	require.True(t, os.IsNotExist(err), "aged workbook is removed")
	_, err = os.Stat(recent)
	require.NoError(t, err, "recent workbook survives")
	_, err = os.Stat(other)
	require.NoError(t, err, "non-xlsx files are never touched")
}

func TestSweepMissingDirectoryIsNoop(t *testing.T) {
	logger := zerolog.Nop()
	s := NewExportSweeper(filepath.Join(t.TempDir(), "nunca"), 30, time.Hour, &logger)
	require.NoError(t, s.Sweep())
}
