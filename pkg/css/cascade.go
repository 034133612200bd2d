package css

import (
	"sort"

	"domxform/pkg/html"
)

// hiddenElements never generate boxes.
var hiddenElements = map[string]bool{
	"head":   true,
	"style":  true,
	"script": true,
	"title":  true,
	"meta":   true,
	"link":   true,
}

// inlineElements default to display:inline.
var inlineElements = map[string]bool{
	"span":   true,
	"a":      true,
	"b":      true,
	"i":      true,
	"em":     true,
	"strong": true,
	"code":   true,
	"img":    true,
}

// applyUserAgentStyles applies default browser styles based on element type
func applyUserAgentStyles(node *html.Node, style *Style) {
	switch {
	case hiddenElements[node.TagName]:
		style.Set("display", "none")
	case inlineElements[node.TagName]:
		style.Set("display", "inline")
	case node.TagName == "body":
		expandShorthand(style, "margin", "8px")
	}
}

// ComputeStyle computes the final style for a node by applying the cascade:
// user agent defaults, then matching rules by ascending specificity and
// source order, then the style attribute.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet) *Style {
	finalStyle := NewStyle()
	if node == nil || node.Type != html.ElementNode {
		return finalStyle
	}

	applyUserAgentStyles(node, finalStyle)

	type ranked struct {
		rule  Rule
		sheet int
	}
	allRules := make([]ranked, 0)
	for i, stylesheet := range stylesheets {
		for _, rule := range FindMatchingRules(node, stylesheet) {
			allRules = append(allRules, ranked{rule: rule, sheet: i})
		}
	}

	sort.SliceStable(allRules, func(i, j int) bool {
		a, b := allRules[i], allRules[j]
		if a.rule.Selector.Specificity != b.rule.Selector.Specificity {
			return a.rule.Selector.Specificity < b.rule.Selector.Specificity
		}
		if a.sheet != b.sheet {
			return a.sheet < b.sheet
		}
		return a.rule.Order < b.rule.Order
	})

	for _, r := range allRules {
		for property, value := range r.rule.Declarations {
			finalStyle.Set(property, value)
		}
	}

	// Inline styles have highest specificity
	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			finalStyle.Set(property, value)
		}
	}

	return finalStyle
}

// ParseStylesheets parses every sheet of a document. A sheet with
// unbalanced braces keeps the rules before the error.
func ParseStylesheets(sources []string) []*Stylesheet {
	sheets := make([]*Stylesheet, 0, len(sources))
	for _, src := range sources {
		sheet, _ := ParseStylesheet(src)
		sheets = append(sheets, sheet)
	}
	return sheets
}

// ApplyStylesToDocument computes the style of every element in the document.
func ApplyStylesToDocument(doc *html.Document) map[*html.Node]*Style {
	styles := make(map[*html.Node]*Style)
	sheets := ParseStylesheets(doc.Stylesheets)

	doc.Root.Walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.TagName != "document" {
			styles[n] = ComputeStyle(n, sheets)
		}
		return true
	})
	return styles
}
