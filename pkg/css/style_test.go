package css

import "testing"

func TestParseInlineStyle_SingleProperty(t *testing.T) {
	style := ParseInlineStyle("transform: rotate(45deg)")
	value, ok := style.Get("transform")
	if !ok || value != "rotate(45deg)" {
		t.Errorf("expected transform='rotate(45deg)', got %q", value)
	}
}

func TestParseInlineStyle_MultipleProperties(t *testing.T) {
	style := ParseInlineStyle("Width: 100px; height:50px ;; position: absolute !important")
	width, _ := style.Get("width")
	height, _ := style.Get("height")
	if width != "100px" || height != "50px" {
		t.Errorf("expected both properties to parse, got %v", style.Properties)
	}
	if style.GetPosition() != PositionAbsolute {
		t.Errorf("expected !important to be stripped, got %v", style.GetPosition())
	}
}

func TestGetLength_PixelValue(t *testing.T) {
	style := ParseInlineStyle("width: 100px; height: 2em; left: auto")
	if width, ok := style.GetLength("width"); !ok || width != 100 {
		t.Errorf("expected width=100, got %v", width)
	}
	if height, ok := style.GetLength("height"); !ok || height != 32 {
		t.Errorf("expected height=32, got %v", height)
	}
	if _, ok := style.GetLength("left"); ok {
		t.Error("auto should not parse as a length")
	}
}

func TestGetLengthRef_Percentage(t *testing.T) {
	style := ParseInlineStyle("width: 25%")
	if w, ok := style.GetLengthRef("width", 400); !ok || w != 100 {
		t.Errorf("expected 25%% of 400 = 100, got %v", w)
	}
}

func TestParseInlineStyle_MarginShorthand(t *testing.T) {
	tests := []struct {
		value string
		want  BoxEdge
	}{
		{"10px", BoxEdge{10, 10, 10, 10}},
		{"10px 20px", BoxEdge{10, 20, 10, 20}},
		{"10px 20px 30px", BoxEdge{10, 20, 30, 20}},
		{"1px 2px 3px 4px", BoxEdge{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		got := ParseInlineStyle("margin: " + tt.value).GetMargin(0)
		if got != tt.want {
			t.Errorf("margin: %s: expected %+v, got %+v", tt.value, tt.want, got)
		}
	}
}

func TestGetPadding_Percentage(t *testing.T) {
	got := ParseInlineStyle("padding: 10%").GetPadding(200)
	if got.Horizontal() != 40 || got.Vertical() != 40 {
		t.Errorf("expected 20px on every side, got %+v", got)
	}
}

func TestGetBorderWidth(t *testing.T) {
	got := ParseInlineStyle("border: 2px solid red").GetBorderWidth()
	if got != (BoxEdge{2, 2, 2, 2}) {
		t.Errorf("expected 2px borders, got %+v", got)
	}

	none := ParseInlineStyle("border-width: 5px; border-style: none").GetBorderWidth()
	if none != (BoxEdge{}) {
		t.Errorf("border-style none should zero the width, got %+v", none)
	}
}

func TestGetPosition(t *testing.T) {
	tests := map[string]PositionType{
		"":                   PositionStatic,
		"position: relative": PositionRelative,
		"position: absolute": PositionAbsolute,
		"position: fixed":    PositionFixed,
		"position: sticky":   PositionSticky,
		"position: bogus":    PositionStatic,
	}
	for decl, want := range tests {
		if got := ParseInlineStyle(decl).GetPosition(); got != want {
			t.Errorf("%q: expected %v, got %v", decl, want, got)
		}
	}
}

func TestGetPositionOffset(t *testing.T) {
	o := ParseInlineStyle("top: 10%; left: 30px").GetPositionOffset(300, 200)
	if !o.HasTop || o.Top != 20 {
		t.Errorf("expected top=20, got %+v", o)
	}
	if !o.HasLeft || o.Left != 30 {
		t.Errorf("expected left=30, got %+v", o)
	}
	if o.HasRight || o.HasBottom {
		t.Errorf("right and bottom should be auto, got %+v", o)
	}
}
