package export

import (
	"bytes"
	"testing"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/render"
)

func TestWriteToEmptyScene(t *testing.T) {
	p := NewPDF("")
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("n = %d, buffer has %d bytes", n, buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestWriteToScene(t *testing.T) {
	g := render.NewGenerator()
	g.Roughness = 1
	f := element.NewFactory(g)

	p := NewPDF("Letter")
	p.Draw([]element.Element{
		f.Create(0, 0, 0, 200, 100, element.KindLine),
		f.Create(1, 50, 50, 10, 10, element.KindRectangle),
		{ID: 2, Kind: element.KindLine},
	})

	var empty, full bytes.Buffer
	if _, err := NewPDF("Letter").WriteTo(&empty); err != nil {
		t.Fatal(err)
	}
	if _, err := p.WriteTo(&full); err != nil {
		t.Fatal(err)
	}
	if full.Len() <= empty.Len() {
		t.Errorf("scene PDF (%d bytes) should be larger than empty PDF (%d bytes)", full.Len(), empty.Len())
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#ff8000", 255, 128, 0},
		{"000000", 0, 0, 0},
		{"red", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := parseHexColor(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseHexColor(%q) = %d,%d,%d", tt.in, r, g, b)
		}
	}
}
