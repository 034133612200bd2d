package css

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"domxform/pkg/html"
)

func TestParseStylesheet_SelectorLists(t *testing.T) {
	sheet, err := ParseStylesheet(`
		/* cards */
		.card, #stage > div { transform: rotate(10deg); }
		@media print { .card { display: none; } }
		p { margin: 4px }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raws []string
	for _, r := range sheet.Rules {
		raws = append(raws, r.Selector.Raw)
	}
	want := []string{".card", "#stage > div", "p"}
	if diff := cmp.Diff(want, raws); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
	if got := sheet.Rules[2].Declarations["margin-left"]; got != "4px" {
		t.Errorf("expected margin shorthand to expand, got %q", got)
	}
	for i, r := range sheet.Rules {
		if r.Order != i {
			t.Errorf("rule %d has order %d", i, r.Order)
		}
	}
}

func TestParseStylesheet_Unbalanced(t *testing.T) {
	sheet, err := ParseStylesheet(`div { color: red } span { color: blue`)
	if err == nil {
		t.Fatal("expected an error for an unterminated block")
	}
	if len(sheet.Rules) != 1 {
		t.Errorf("expected the complete rule to survive, got %d rules", len(sheet.Rules))
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in          string
		ok          bool
		parts       int
		specificity int
	}{
		{"div", true, 1, 1},
		{".a.b", true, 1, 20},
		{"#x", true, 1, 100},
		{"div#x.a", true, 1, 111},
		{"body > .card span", true, 3, 12},
		{"*", true, 1, 0},
		{"a:hover", false, 0, 0},
		{"[type=text]", false, 0, 0},
		{"> div", false, 0, 0},
		{"div >", false, 0, 0},
		{"#a#b", false, 0, 0},
	}
	for _, tt := range tests {
		sel, ok := ParseSelector(tt.in)
		if ok != tt.ok {
			t.Errorf("%q: expected ok=%v", tt.in, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if len(sel.Parts) != tt.parts || sel.Specificity != tt.specificity {
			t.Errorf("%q: expected %d parts specificity %d, got %d parts specificity %d",
				tt.in, tt.parts, tt.specificity, len(sel.Parts), sel.Specificity)
		}
	}
}

func buildTree(t *testing.T) *html.Document {
	t.Helper()
	doc, err := html.Parse(`<html><body>
		<div id="stage" class="scene">
			<div class="card flip"><span id="label">x</span></div>
		</div>
	</body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestMatchesSelector(t *testing.T) {
	doc := buildTree(t)
	label := doc.GetElementByID("label")
	card := label.Parent

	tests := []struct {
		selector string
		node     *html.Node
		want     bool
	}{
		{"span", label, true},
		{"div", label, false},
		{".card", card, true},
		{".card.flip", card, true},
		{".card.other", card, false},
		{"#stage span", label, true},
		{"#stage > span", label, false},
		{".card > #label", label, true},
		{"body .scene > div > span", label, true},
		{"html > div", card, false},
		{"*", card, true},
	}
	for _, tt := range tests {
		sel, ok := ParseSelector(tt.selector)
		if !ok {
			t.Fatalf("%q did not parse", tt.selector)
		}
		if got := MatchesSelector(tt.node, sel); got != tt.want {
			t.Errorf("%q on <%s>: expected %v, got %v", tt.selector, tt.node.TagName, tt.want, got)
		}
	}
}

func TestComputeStyle_Cascade(t *testing.T) {
	doc := buildTree(t)
	card := doc.GetElementByID("label").Parent
	card.SetAttribute("style", "perspective: 300px")

	sheets := ParseStylesheets([]string{
		`.card { transform: rotate(1deg); perspective: 10px }
		 div { transform: rotate(2deg); transform-origin: left top }`,
		`div.card { transform-origin: 0 0 }
		 .flip { transform: rotate(3deg) }`,
	})
	style := ComputeStyle(card, sheets)

	// .card and .flip tie on specificity, the later sheet wins.
	if got, _ := style.Get("transform"); got != "rotate(3deg)" {
		t.Errorf("expected transform from .flip, got %q", got)
	}
	if got, _ := style.Get("transform-origin"); got != "0 0" {
		t.Errorf("expected transform-origin from div.card, got %q", got)
	}
	if got, _ := style.Get("perspective"); got != "300px" {
		t.Errorf("expected inline perspective to win, got %q", got)
	}
}

func TestComputeStyle_UserAgentDefaults(t *testing.T) {
	doc := buildTree(t)
	if got := ComputeStyle(doc.Head(), nil).GetDisplay(); got != "none" {
		t.Errorf("head should not display, got %q", got)
	}
	if got := ComputeStyle(doc.GetElementByID("label"), nil).GetDisplay(); got != "inline" {
		t.Errorf("span should be inline, got %q", got)
	}
	if m := ComputeStyle(doc.Body(), nil).GetMargin(0); m != (BoxEdge{8, 8, 8, 8}) {
		t.Errorf("body should have an 8px margin, got %+v", m)
	}
}

func TestApplyStylesToDocument(t *testing.T) {
	doc, err := html.Parse(`<style>#a { transform: scale(2) }</style><div id="a"></div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	styles := ApplyStylesToDocument(doc)
	if got, _ := styles[doc.GetElementByID("a")].Get("transform"); got != "scale(2)" {
		t.Errorf("expected stylesheet transform, got %q", got)
	}
	if _, ok := styles[doc.Root]; ok {
		t.Error("the synthetic document node should not be styled")
	}
}
