package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func writePriceFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// -----------------------------------------------------------------------------

func TestReadPricesOnePerLine(t *testing.T) {
	prices, err := ReadPricesFromFile(writePriceFile(t, "100.5\n80\n60.25\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{100.5, 80, 60.25}, prices)
}

// -----------------------------------------------------------------------------

func TestReadPricesSeparatedValues(t *testing.T) {
	prices, err := ReadPricesFromFile(writePriceFile(t, "100, 80,60\n70\t75;85\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 80, 60, 70, 75, 85}, prices)
}

// -----------------------------------------------------------------------------

func TestReadPricesSkipsHeadersAndJunk(t *testing.T) {
	content := "close\n100\nn/a\n-5\n0\n80.5\n\n"
	prices, err := ReadPricesFromFile(writePriceFile(t, content))
	require.NoError(t, err)

	// Header, blank line and non-positive values pass through harmlessly
	assert.Equal(t, []float64{100, 80.5}, prices)
}

// -----------------------------------------------------------------------------

func TestReadPricesNoValidPrices(t *testing.T) {
	_, err := ReadPricesFromFile(writePriceFile(t, "date,symbol\nfoo,bar\n"))
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestReadPricesMissingFile(t *testing.T) {
	_, err := ReadPricesFromFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
