package css

import (
	"fmt"
	"strings"
)

// Selector represents a complex CSS selector such as "#stage > .card div".
type Selector struct {
	Raw         string         // Original selector string
	Parts       []SelectorPart // Compound selectors, left to right
	Combinators []Combinator   // Combinators[i] joins Parts[i] and Parts[i+1]
	Specificity int            // ids*100 + classes*10 + elements
}

// SelectorPart is a compound selector: an optional element name plus any
// number of #id and .class conditions.
type SelectorPart struct {
	Element string // "" or "*" matches any element
	ID      string
	Classes []string
}

type Combinator int

const (
	DescendantCombinator Combinator = iota // A B
	ChildCombinator                        // A > B
)

// Rule represents a CSS rule (selector + declarations). Order is the rule's
// position across the stylesheet and breaks specificity ties.
type Rule struct {
	Selector     Selector
	Declarations map[string]string // property -> value
	Order        int
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS stylesheet content into rules. Comments and
// at-rules are dropped, selector lists become one rule per selector, and
// selectors this engine cannot match are skipped.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{
		Rules: make([]Rule, 0),
	}

	css = strings.TrimSpace(stripComments(css))
	if css == "" {
		return stylesheet, nil
	}

	rules, err := splitRules(css)

	for _, ruleStr := range rules {
		bracePos := strings.Index(ruleStr, "{")
		if bracePos == -1 {
			continue
		}
		prelude := strings.TrimSpace(ruleStr[:bracePos])
		if prelude == "" || strings.HasPrefix(prelude, "@") {
			continue
		}

		declarations := parseDeclarations(ruleStr[bracePos+1 : len(ruleStr)-1])
		for _, selectorStr := range strings.Split(prelude, ",") {
			selector, ok := ParseSelector(selectorStr)
			if !ok {
				continue
			}
			stylesheet.Rules = append(stylesheet.Rules, Rule{
				Selector:     selector,
				Declarations: declarations,
				Order:        len(stylesheet.Rules),
			})
		}
	}

	return stylesheet, err
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start == -1 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end == -1 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into top-level blocks, keeping nested braces of
// at-rules inside their block.
func splitRules(css string) ([]string, error) {
	rules := make([]string, 0)
	depth := 0
	start := 0

	for i, ch := range css {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return rules, fmt.Errorf("unexpected '}' at offset %d", i)
			}
			if depth == 0 {
				if ruleStr := strings.TrimSpace(css[start : i+1]); ruleStr != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return rules, fmt.Errorf("unterminated block at offset %d", start)
	}

	return rules, nil
}

// ParseSelector parses a complex selector built from type, class, id and
// universal selectors joined by descendant or child combinators.
func ParseSelector(selectorStr string) (Selector, bool) {
	raw := strings.TrimSpace(selectorStr)
	if raw == "" {
		return Selector{}, false
	}
	sel := Selector{Raw: raw}

	tokens := strings.Fields(strings.ReplaceAll(raw, ">", " > "))
	pending := DescendantCombinator
	for _, tok := range tokens {
		if tok == ">" {
			if len(sel.Parts) == 0 || pending == ChildCombinator {
				return Selector{}, false
			}
			pending = ChildCombinator
			continue
		}
		part, ok := parseSelectorPart(tok)
		if !ok {
			return Selector{}, false
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		sel.Parts = append(sel.Parts, part)
		pending = DescendantCombinator
	}
	if len(sel.Parts) == 0 || pending == ChildCombinator {
		return Selector{}, false
	}

	for _, p := range sel.Parts {
		if p.ID != "" {
			sel.Specificity += 100
		}
		sel.Specificity += 10 * len(p.Classes)
		if p.Element != "" && p.Element != "*" {
			sel.Specificity++
		}
	}
	return sel, true
}

func parseSelectorPart(tok string) (SelectorPart, bool) {
	var part SelectorPart
	i := strings.IndexAny(tok, ".#")
	if i == -1 {
		i = len(tok)
	}
	part.Element = strings.ToLower(tok[:i])
	if !validIdent(part.Element) && part.Element != "*" && part.Element != "" {
		return part, false
	}

	for rest := tok[i:]; rest != ""; {
		kind := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, ".#")
		if end == -1 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if !validIdent(name) {
			return part, false
		}
		if kind == '#' {
			if part.ID != "" {
				return part, false
			}
			part.ID = name
		} else {
			part.Classes = append(part.Classes, name)
		}
	}
	return part, true
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || r >= 0x80 ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// parseDeclarations parses CSS declarations into a map, expanding the
// shorthands the layout engine understands. !important is ignored.
func parseDeclarations(declStr string) map[string]string {
	style := NewStyle()

	for _, part := range strings.Split(declStr, ";") {
		colonPos := strings.Index(part, ":")
		if colonPos == -1 {
			continue
		}

		property := strings.ToLower(strings.TrimSpace(part[:colonPos]))
		value := strings.TrimSpace(part[colonPos+1:])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))

		if property != "" && value != "" {
			expandShorthand(style, property, value)
		}
	}

	return style.Properties
}
