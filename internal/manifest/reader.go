// Package manifest turns an externally sourced tabular file into the
// ProductInput records the lifecycle engine imports. Column headers are
// matched fuzzily (case, spacing and a handful of vendor aliases), because
// manifests arrive from shippers who never agree on a header row.
package manifest

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"warescan-service/internal/engine"
	"warescan-service/internal/model"
)

// ErrNoBarcodeColumn is returned when no header could be matched to a
// barcode column; without it no row is usable.
var ErrNoBarcodeColumn = errors.New("manifest has no recognizable barcode column")

// Column aliases seen across shipper manifests, already normalized.
var (
	barcodeAliases     = []string{"barcode", "barcodes", "trackingnumber", "tracking", "trackingno"}
	destinationAliases = []string{"destination", "dest", "island", "location"}
	customerAliases    = []string{"customername", "customer", "consignee", "recipient", "name"}
	priceAliases       = []string{"price", "amount", "value", "cost"}
	commentAliases     = []string{"comment", "comments", "description", "remarks"}
)

type columnMap struct {
	barcode     int
	destination int
	customer    int
	price       int
	comment     int
}

// Read parses a comma- or semicolon-separated manifest and returns one
// ProductInput per data row. Rows whose destination cannot be recognized are
// passed through with the raw value so the engine counts them as invalid
// rather than silently vanishing from the batch.
func Read(r io.Reader) ([]engine.ProductInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoBarcodeColumn
	}

	cols, ok := mapColumns(records[0])
	if !ok {
		return nil, ErrNoBarcodeColumn
	}

	var inputs []engine.ProductInput
	for _, row := range records[1:] {
		if emptyRow(row) {
			continue
		}
		in := engine.ProductInput{
			Barcode:      cell(row, cols.barcode),
			Destination:  parseDestination(cell(row, cols.destination)),
			CustomerName: cell(row, cols.customer),
			Comment:      cell(row, cols.comment),
		}
		if raw := cell(row, cols.price); raw != "" {
			if price, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64); err == nil {
				in.Price = price
			}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func mapColumns(header []string) (columnMap, bool) {
	cols := columnMap{barcode: -1, destination: -1, customer: -1, price: -1, comment: -1}
	for i, h := range header {
		switch {
		case cols.barcode < 0 && matchesAny(h, barcodeAliases):
			cols.barcode = i
		case cols.destination < 0 && matchesAny(h, destinationAliases):
			cols.destination = i
		case cols.customer < 0 && matchesAny(h, customerAliases):
			cols.customer = i
		case cols.price < 0 && matchesAny(h, priceAliases):
			cols.price = i
		case cols.comment < 0 && matchesAny(h, commentAliases):
			cols.comment = i
		}
	}
	return cols, cols.barcode >= 0
}

func matchesAny(header string, aliases []string) bool {
	normalized := normalize(header)
	for _, a := range aliases {
		if normalized == a {
			return true
		}
	}
	return false
}

// normalize strips spaces, underscores, dashes and the BOM, then lowercases.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '_', '-', '.', '#':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// parseDestination accepts common spellings of the two islands. Anything
// unrecognized comes back as-is so the engine rejects the row as invalid.
func parseDestination(raw string) model.Destination {
	switch normalize(raw) {
	case "saintkitts", "stkitts", "skb", "basseterre":
		return model.DestinationSaintKitts
	case "nevis", "nev", "charlestown":
		return model.DestinationNevis
	default:
		return model.Destination(strings.TrimSpace(raw))
	}
}

func detectDelimiter(data string) rune {
	line := data
	if i := strings.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
