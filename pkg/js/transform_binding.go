package js

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"domxform/pkg/geom"
	"domxform/pkg/transform"
)

// registerTransformBinding installs getTransformForElement(el), which
// returns {matrix, perspective, perspectiveOrigin} for an element. matrix
// is the column-major composite as 16 numbers; the perspective fields are
// omitted when no ancestor declares a perspective. Elements that are not
// rendered resolve to the identity.
func registerTransformBinding(ctx *domContext) {
	vm := ctx.vm
	vm.Set("getTransformForElement", func(call goja.FunctionCall) goja.Value {
		node := ctx.unwrapNode(call.Argument(0))
		if node == nil {
			panic(vm.NewTypeError("getTransformForElement: parameter 1 is not an element"))
		}

		var res transform.Result
		if b := ctx.box(node); b != nil {
			res = ctx.engine.resolver(ctx.engine.Tree()).Resolve(b)
		} else {
			res = transform.Result{Matrix: geom.Identity()}
		}
		ctx.engine.logger.Debug("getTransformForElement",
			zap.String("id", node.ID()),
			zap.Bool("perspective", res.HasPerspective()))
		return resultObject(vm, res)
	})
}

func resultObject(vm *goja.Runtime, res transform.Result) goja.Value {
	obj := vm.NewObject()
	m := make([]any, len(res.Matrix))
	for i, v := range res.Matrix {
		m[i] = v
	}
	obj.Set("matrix", vm.NewArray(m...))
	if res.Perspective != nil {
		obj.Set("perspective", *res.Perspective)
	}
	if res.PerspectiveOrigin != nil {
		o := vm.NewObject()
		o.Set("x", res.PerspectiveOrigin.X)
		o.Set("y", res.PerspectiveOrigin.Y)
		o.Set("z", res.PerspectiveOrigin.Z)
		obj.Set("perspectiveOrigin", o)
	}
	return obj
}
