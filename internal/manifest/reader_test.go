package manifest

import (
	"errors"
	"strings"
	"testing"

	"warescan-service/internal/model"
)

func TestReadCanonicalHeaders(t *testing.T) {
	csv := "barcode,destination,customer_name,price,comment\n" +
		"B-1,Saint Kitts,Ann,12.50,fragile\n" +
		"B-2,Nevis,Beth,,\n"

	inputs, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d rows, want 2", len(inputs))
	}

	first := inputs[0]
	if first.Barcode != "B-1" || first.Destination != model.DestinationSaintKitts {
		t.Errorf("row 1 = %+v", first)
	}
	if first.CustomerName != "Ann" || first.Price != 12.50 || first.Comment != "fragile" {
		t.Errorf("row 1 metadata = %+v", first)
	}
	if inputs[1].Destination != model.DestinationNevis {
		t.Errorf("row 2 destination = %q", inputs[1].Destination)
	}
}

func TestReadFuzzyHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"spaced and capitalized", "Tracking Number,Island,Consignee,Amount,Remarks"},
		{"underscored", "tracking_no,dest,recipient,cost,comments"},
		{"mixed case", "BARCODE,Destination,Customer,PRICE,Description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := tt.header + "\nZ-9,nevis,Carl,5,ok\n"
			inputs, err := Read(strings.NewReader(csv))
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if len(inputs) != 1 {
				t.Fatalf("got %d rows, want 1", len(inputs))
			}
			in := inputs[0]
			if in.Barcode != "Z-9" || in.Destination != model.DestinationNevis ||
				in.CustomerName != "Carl" || in.Price != 5 || in.Comment != "ok" {
				t.Errorf("parsed row = %+v", in)
			}
		})
	}
}

func TestReadDestinationSpellings(t *testing.T) {
	csv := "barcode,destination\n" +
		"A,st kitts\n" +
		"B,NEVIS\n" +
		"C,Basseterre\n" +
		"D,Atlantis\n"

	inputs, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []model.Destination{
		model.DestinationSaintKitts,
		model.DestinationNevis,
		model.DestinationSaintKitts,
		model.Destination("Atlantis"), // passed through for the engine to reject
	}
	for i, in := range inputs {
		if in.Destination != want[i] {
			t.Errorf("row %d destination = %q, want %q", i, in.Destination, want[i])
		}
	}
}

func TestReadSemicolonDelimited(t *testing.T) {
	csv := "barcode;destination;price\nS-1;Nevis;9.99\n"

	inputs, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(inputs) != 1 || inputs[0].Barcode != "S-1" || inputs[0].Price != 9.99 {
		t.Errorf("parsed = %+v", inputs)
	}
}

func TestReadSkipsBlankRowsKeepsBadOnes(t *testing.T) {
	csv := "barcode,destination\n" +
		"\n" +
		",,\n" +
		",Nevis\n" + // barcode missing: kept so the engine counts it invalid
		"OK-1,Nevis\n"

	inputs, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d rows, want 2 (empty barcode row retained)", len(inputs))
	}
	if inputs[0].Barcode != "" {
		t.Errorf("row 0 barcode = %q, want empty", inputs[0].Barcode)
	}
	if inputs[1].Barcode != "OK-1" {
		t.Errorf("row 1 barcode = %q", inputs[1].Barcode)
	}
}

func TestReadDollarPrice(t *testing.T) {
	csv := "barcode,destination,price\nP-1,Nevis,$15.75\n"

	inputs, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if inputs[0].Price != 15.75 {
		t.Errorf("price = %v, want 15.75", inputs[0].Price)
	}
}

func TestReadBOMHeader(t *testing.T) {
	csv := "\ufeffbarcode,destination\nB-1,Nevis\n"

	inputs, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(inputs) != 1 || inputs[0].Barcode != "B-1" {
		t.Errorf("parsed = %+v", inputs)
	}
}

func TestReadNoBarcodeColumn(t *testing.T) {
	tests := []string{
		"",
		"name,price\nAnn,5\n",
	}
	for _, csv := range tests {
		if _, err := Read(strings.NewReader(csv)); !errors.Is(err, ErrNoBarcodeColumn) {
			t.Errorf("Read(%q) err = %v, want ErrNoBarcodeColumn", csv, err)
		}
	}
}
