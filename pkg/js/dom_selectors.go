package js

import (
	"strings"

	"github.com/dop251/goja"

	"domxform/pkg/css"
	"domxform/pkg/html"
)

// registerQuerySelectors adds querySelector/querySelectorAll to a document object.
func registerQuerySelectors(ctx *domContext, obj *goja.Object, root *html.Node) {
	obj.Set("querySelector", querySelectorFn(ctx, root))
	obj.Set("querySelectorAll", querySelectorAllFn(ctx, root))
}

// parseSelectorGroup parses a comma separated selector list. An invalid
// selector throws a SyntaxError, as it does in browsers.
func parseSelectorGroup(ctx *domContext, method, text string) []css.Selector {
	var out []css.Selector
	for _, part := range strings.Split(text, ",") {
		sel, ok := css.ParseSelector(part)
		if !ok {
			panic(ctx.vm.NewGoError(&selectorError{method: method, selector: text}))
		}
		out = append(out, sel)
	}
	return out
}

type selectorError struct {
	method, selector string
}

func (e *selectorError) Error() string {
	return "SyntaxError: Failed to execute '" + e.method + "': '" + e.selector + "' is not a valid selector"
}

func matchesAny(node *html.Node, selectors []css.Selector) bool {
	for _, sel := range selectors {
		if css.MatchesSelector(node, sel) {
			return true
		}
	}
	return false
}

func selectorArg(ctx *domContext, call goja.FunctionCall, method string) []css.Selector {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	return parseSelectorGroup(ctx, method, call.Arguments[0].String())
}

// querySelectorFn returns a JS function implementing querySelector.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := selectorArg(ctx, call, "querySelector")
		var result *html.Node
		root.Walk(func(n *html.Node) bool {
			if n != root && n.Type == html.ElementNode && matchesAny(n, selectors) {
				result = n
				return false
			}
			return true
		})
		return ctx.nodeOrNull(result)
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := selectorArg(ctx, call, "querySelectorAll")
		return ctx.elementArray(collect(root, func(n *html.Node) bool {
			return matchesAny(n, selectors)
		}))
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return ctx.vm.ToValue(matchesAny(node, selectorArg(ctx, call, "matches")))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := selectorArg(ctx, call, "closest")
		for current := node; current != nil; current = current.Parent {
			if current.Type != html.ElementNode || current.TagName == "document" {
				continue
			}
			if matchesAny(current, selectors) {
				return ctx.elementProxy(current)
			}
		}
		return goja.Null()
	}
}
