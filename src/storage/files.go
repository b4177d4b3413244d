package storage

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"stock-analyzer/src/helpers"
)

// -----------------------------------------------------------------------------
// Price file loading
//
// Accepted format: one price per line or comma/tab/space separated values.
// Tokens that do not parse as a positive number are skipped, so headers and
// blank lines pass through harmlessly.
// -----------------------------------------------------------------------------

// ReadPricesFromFile loads a price series from a CSV/TSV file.
func ReadPricesFromFile(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open price file %q: %w", path, err)
	}
	defer file.Close()

	var prices []float64

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		for _, token := range strings.FieldsFunc(scanner.Text(), isSeparator) {
			price, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
			if err != nil || price <= 0 {
				continue
			}
			prices = append(prices, price)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(prices) == 0 {
		return nil, helpers.NewValidationError("no valid prices found in %s", path)
	}

	return prices, nil
}

// -----------------------------------------------------------------------------

func isSeparator(r rune) bool {
	return r == ',' || r == '\t' || r == ' ' || r == ';'
}
