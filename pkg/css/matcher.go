package css

import (
	"domxform/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node == nil || node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}

	// Start matching from the rightmost part (the target element)
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

// matchesFrom checks the part at index against node and, walking left,
// every ancestor requirement before it.
func matchesFrom(node *html.Node, selector Selector, index int) bool {
	if !matchesSelectorPart(node, selector.Parts[index]) {
		return false
	}
	if index == 0 {
		return true
	}

	switch selector.Combinators[index-1] {
	case ChildCombinator:
		parent := elementParent(node)
		return parent != nil && matchesFrom(parent, selector, index-1)
	case DescendantCombinator:
		for ancestor := elementParent(node); ancestor != nil; ancestor = elementParent(ancestor) {
			if matchesFrom(ancestor, selector, index-1) {
				return true
			}
		}
	}
	return false
}

// elementParent skips the synthetic document node.
func elementParent(node *html.Node) *html.Node {
	p := node.Parent
	if p == nil || p.Type != html.ElementNode || p.TagName == "document" {
		return nil
	}
	return p
}

// matchesSelectorPart checks if a node matches a single compound selector
func matchesSelectorPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.ID() != part.ID {
		return false
	}
	if len(part.Classes) == 0 {
		return true
	}

	have := node.Classes()
	for _, want := range part.Classes {
		found := false
		for _, c := range have {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindMatchingRules returns all rules that match the given node
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet) []Rule {
	matches := make([]Rule, 0)
	for _, rule := range stylesheet.Rules {
		if MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}
