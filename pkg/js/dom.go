package js

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"domxform/pkg/html"
	"domxform/pkg/layout"
)

var (
	errHierarchy = errors.New("HierarchyRequestError: the new child is an ancestor of the parent")
	errNotFound  = errors.New("NotFoundError: the node is not a child of this node")
)

// domContext holds shared state for DOM bindings within a single document.
// It maintains a node-to-proxy cache so the same JS object is returned for
// the same underlying *html.Node (needed for === identity checks).
type domContext struct {
	engine *Engine
	vm     *goja.Runtime
	doc    *html.Document
	cache  map[*html.Node]goja.Value
}

// registerDocument sets up the global `document` object on the runtime.
func registerDocument(e *Engine, doc *html.Document) *domContext {
	ctx := &domContext{
		engine: e,
		vm:     e.vm,
		doc:    doc,
		cache:  make(map[*html.Node]goja.Value),
	}
	vm := ctx.vm

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.nodeOrNull(doc.GetElementByID(call.Arguments[0].String()))
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		tag := strings.ToLower(call.Arguments[0].String())
		return ctx.elementArray(collect(doc.Root, func(n *html.Node) bool {
			return n.TagName == tag || tag == "*"
		}))
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		cls := call.Arguments[0].String()
		return ctx.elementArray(collect(doc.Root, func(n *html.Node) bool {
			for _, c := range n.Classes() {
				if c == cls {
					return true
				}
			}
			return false
		}))
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(call.Arguments[0].String()))
	})
	docObj.Set("createStylesheet", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		style := html.NewStyleElement(text)
		doc.AttachStyle(style)
		e.invalidate()
		return ctx.elementProxy(style)
	})

	registerQuerySelectors(ctx, docObj, doc.Root)

	docObj.DefineAccessorProperty("body", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.nodeOrNull(doc.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	docObj.DefineAccessorProperty("head", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.nodeOrNull(doc.Head())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	docObj.DefineAccessorProperty("documentElement", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.nodeOrNull(doc.DocumentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("document", docObj)
	return ctx
}

// collect returns the elements below root accepted by keep, in document
// order.
func collect(root *html.Node, keep func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n != root && n.Type == html.ElementNode && keep(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (ctx *domContext) nodeOrNull(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	return ctx.elementProxy(node)
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	vals := make([]any, len(nodes))
	for i, n := range nodes {
		vals[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(vals...)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject
// wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode extracts the *html.Node behind an element proxy.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// box returns the layout box of node, or nil when it is not laid out.
func (ctx *domContext) box(node *html.Node) *layout.Box {
	tree := ctx.engine.Tree()
	if tree == nil {
		return nil
	}
	return tree.Node(node)
}

// elementAccessor implements goja.DynamicObject to intercept property
// access on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"nodeType", "nodeName", "tagName", "id", "className", "textContent",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "parentElement", "parentNode", "style",
	"appendChild", "removeChild",
	"querySelector", "querySelectorAll", "matches", "closest",
	"offsetWidth", "offsetHeight", "offsetLeft", "offsetTop", "offsetParent",
	"scrollLeft", "scrollTop",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm

	switch key {
	case "nodeType":
		if e.node.Type == html.TextNode {
			return vm.ToValue(3) // Node.TEXT_NODE
		}
		return vm.ToValue(1) // Node.ELEMENT_NODE
	case "nodeName":
		if e.node.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "tagName":
		if e.node.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		return vm.ToValue(e.node.ID())
	case "className":
		cls, _ := e.node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(e.node.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := e.node.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				return goja.Undefined()
			}
			e.node.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			e.ctx.engine.invalidate()
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := e.node.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 || e.node.Attributes == nil {
				return goja.Undefined()
			}
			delete(e.node.Attributes, call.Arguments[0].String())
			e.ctx.engine.invalidate()
			return goja.Undefined()
		})
	case "children":
		var elChildren []*html.Node
		for _, child := range e.node.Children {
			if child.Type == html.ElementNode {
				elChildren = append(elChildren, child)
			}
		}
		return e.ctx.elementArray(elChildren)
	case "parentElement", "parentNode":
		if p := e.node.Parent; p != nil && p.Type == html.ElementNode && p.TagName != "document" {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "style":
		return vm.NewDynamicObject(&styleAccessor{ctx: e.ctx, node: e.node})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'appendChild' on 'Node': 1 argument required"))
			}
			child := e.ctx.unwrapNode(call.Arguments[0])
			if child == nil {
				panic(vm.NewTypeError("Failed to execute 'appendChild' on 'Node': parameter 1 is not of type 'Node'"))
			}
			if child.Contains(e.node) {
				panic(vm.NewGoError(errHierarchy))
			}
			e.node.AddChild(child)
			e.ctx.engine.invalidate()
			return call.Arguments[0]
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.unwrapNode(call.Argument(0))
			if child == nil || e.node.RemoveChild(child) == nil {
				panic(vm.NewGoError(errNotFound))
			}
			e.ctx.engine.invalidate()
			return call.Arguments[0]
		})
	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, e.node))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, e.node))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, e.node))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, e.node))

	case "offsetWidth", "offsetHeight", "offsetLeft", "offsetTop", "scrollLeft", "scrollTop":
		b := e.ctx.box(e.node)
		if b == nil {
			return vm.ToValue(0)
		}
		return vm.ToValue(boxMetric(b, key))
	case "offsetParent":
		if b := e.ctx.box(e.node); b != nil && b.OffsetParentBox() != nil {
			return e.ctx.elementProxy(b.OffsetParentBox().Node)
		}
		return goja.Null()
	}
	return goja.Undefined()
}

func boxMetric(b *layout.Box, key string) float64 {
	switch key {
	case "offsetWidth":
		return b.OffsetWidth()
	case "offsetHeight":
		return b.OffsetHeight()
	case "offsetLeft":
		return b.OffsetLeft()
	case "offsetTop":
		return b.OffsetTop()
	case "scrollLeft":
		return b.ScrollLeft()
	default:
		return b.ScrollTop()
	}
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
	case "className":
		e.node.SetAttribute("class", val.String())
	case "id":
		e.node.SetAttribute("id", val.String())
	case "scrollLeft":
		e.node.SetAttribute("data-scroll-left", strconv.FormatFloat(val.ToFloat(), 'f', -1, 64))
	case "scrollTop":
		e.node.SetAttribute("data-scroll-top", strconv.FormatFloat(val.ToFloat(), 'f', -1, 64))
	default:
		return false
	}
	e.ctx.engine.invalidate()
	return true
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}

// styleAccessor maps JS camelCase property access to CSS kebab-case on the
// node's inline style attribute, keeping declaration order.
type styleAccessor struct {
	ctx  *domContext
	node *html.Node
}

type declaration struct{ prop, value string }

func (s *styleAccessor) Get(key string) goja.Value {
	if key == "cssText" {
		return s.ctx.vm.ToValue(s.attr())
	}
	prop := camelToKebab(key)
	for _, d := range parseInlineStyle(s.attr()) {
		if d.prop == prop {
			return s.ctx.vm.ToValue(d.value)
		}
	}
	return s.ctx.vm.ToValue("")
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.setAttr(val.String())
		return true
	}
	prop := camelToKebab(key)
	decls := parseInlineStyle(s.attr())
	value := strings.TrimSpace(val.String())
	out := decls[:0]
	found := false
	for _, d := range decls {
		if d.prop == prop {
			found = true
			if value == "" {
				continue
			}
			d.value = value
		}
		out = append(out, d)
	}
	if !found && value != "" {
		out = append(out, declaration{prop, value})
	}
	s.setAttr(serializeInlineStyle(out))
	return true
}

func (s *styleAccessor) Has(key string) bool {
	return true
}

func (s *styleAccessor) Delete(key string) bool {
	return s.Set(key, s.ctx.vm.ToValue(""))
}

func (s *styleAccessor) Keys() []string {
	decls := parseInlineStyle(s.attr())
	keys := make([]string, len(decls))
	for i, d := range decls {
		keys[i] = d.prop
	}
	return keys
}

func (s *styleAccessor) attr() string {
	v, _ := s.node.GetAttribute("style")
	return v
}

func (s *styleAccessor) setAttr(val string) {
	s.node.SetAttribute("style", val)
	s.ctx.engine.invalidate()
}

// parseInlineStyle splits an inline style attribute into declarations.
// A later declaration of the same property replaces the earlier one.
func parseInlineStyle(s string) []declaration {
	var out []declaration
	for _, decl := range strings.Split(s, ";") {
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl[:idx]))
		val := strings.TrimSpace(decl[idx+1:])
		if prop == "" {
			continue
		}
		replaced := false
		for i := range out {
			if out[i].prop == prop {
				out[i].value = val
				replaced = true
			}
		}
		if !replaced {
			out = append(out, declaration{prop, val})
		}
	}
	return out
}

func serializeInlineStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
// Names that already contain a dash are custom properties or kebab-case
// and pass through.
func camelToKebab(s string) string {
	if strings.Contains(s, "-") {
		return s
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
