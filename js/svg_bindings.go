package js

import (
	"math"
	"strconv"

	"github.com/chrisuehlinger/svgdom/svg"
	"github.com/dop251/goja"
)

// lengthUnitConstants are the SVGLength SVG_LENGTHTYPE_* constants.
var lengthUnitConstants = []struct {
	name string
	unit svg.LengthType
}{
	{"SVG_LENGTHTYPE_UNKNOWN", svg.LengthTypeUnknown},
	{"SVG_LENGTHTYPE_NUMBER", svg.LengthTypeNumber},
	{"SVG_LENGTHTYPE_PERCENTAGE", svg.LengthTypePercentage},
	{"SVG_LENGTHTYPE_EMS", svg.LengthTypeEMS},
	{"SVG_LENGTHTYPE_EXS", svg.LengthTypeEXS},
	{"SVG_LENGTHTYPE_PX", svg.LengthTypePX},
	{"SVG_LENGTHTYPE_CM", svg.LengthTypeCM},
	{"SVG_LENGTHTYPE_MM", svg.LengthTypeMM},
	{"SVG_LENGTHTYPE_IN", svg.LengthTypeIN},
	{"SVG_LENGTHTYPE_PT", svg.LengthTypePT},
	{"SVG_LENGTHTYPE_PC", svg.LengthTypePC},
}

var lengthListKeys = []string{
	"numberOfItems", "length", "clear", "initialize", "getItem",
	"insertItemBefore", "replaceItem", "removeItem", "appendItem",
}

// Binder exposes svg lengths, length lists and animated length lists to a
// Runtime. The same Go object always maps to the same script object.
//
// Bound objects are cached for the life of the Binder, including lengths
// later removed from their lists. Call ClearCache to release them once no
// script holds on to them.
type Binder struct {
	runtime *Runtime
	ctx     svg.Context

	lengths  map[*svg.Length]*goja.Object
	lists    map[*svg.LengthList]*goja.Object
	animated map[*svg.AnimatedLengthList]*goja.Object

	// Prototype objects for instanceof checks
	lengthProto       *goja.Object
	lengthListProto   *goja.Object
	animatedProto     *goja.Object
	domExceptionProto *goja.Object
}

// NewBinder creates a binder for the given runtime and installs the
// DOMException, SVGLength, SVGLengthList and SVGAnimatedLengthList globals
// along with createSVGLength().
func NewBinder(runtime *Runtime) *Binder {
	b := &Binder{
		runtime:  runtime,
		lengths:  make(map[*svg.Length]*goja.Object),
		lists:    make(map[*svg.LengthList]*goja.Object),
		animated: make(map[*svg.AnimatedLengthList]*goja.Object),
	}
	b.setupDOMException()
	b.setupPrototypes()
	return b
}

// SetContext sets the context used to resolve em, ex and percentage values
// read or written through SVGLength.value. It may be nil.
func (b *Binder) SetContext(ctx svg.Context) {
	b.ctx = ctx
}

func (b *Binder) setupPrototypes() {
	vm := b.runtime.vm

	illegal := func(call goja.ConstructorCall) *goja.Object {
		panic(vm.NewTypeError("Illegal constructor"))
	}
	define := func(name string) *goja.Object {
		proto := vm.NewObject()
		ctor := vm.ToValue(illegal).ToObject(vm)
		ctor.Set("prototype", proto)
		proto.Set("constructor", ctor)
		vm.Set(name, ctor)
		return proto
	}

	b.lengthProto = define("SVGLength")
	lengthCtor := vm.Get("SVGLength").ToObject(vm)
	for _, c := range lengthUnitConstants {
		lengthCtor.Set(c.name, int(c.unit))
		b.lengthProto.Set(c.name, int(c.unit))
	}

	b.lengthListProto = define("SVGLengthList")
	b.animatedProto = define("SVGAnimatedLengthList")

	vm.Set("createSVGLength", func(call goja.FunctionCall) goja.Value {
		return b.BindLength(svg.NewLength())
	})
}

// BindLength returns the script object for l.
func (b *Binder) BindLength(l *svg.Length) *goja.Object {
	if l == nil {
		return nil
	}
	if jsObj, ok := b.lengths[l]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsLen := vm.NewObject()
	jsLen.SetPrototype(b.lengthProto)
	jsLen.DefineDataProperty("_goLength", vm.ToValue(l), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)

	jsLen.DefineAccessorProperty("unitType", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(int(l.UnitType()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsLen.DefineAccessorProperty("value", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		v, err := l.Value(b.ctx)
		if err != nil {
			b.throwError(err)
		}
		return vm.ToValue(v)
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if err := l.SetValue(b.floatArg(call, 0), b.ctx); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsLen.DefineAccessorProperty("valueInSpecifiedUnits", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(l.ValueInSpecifiedUnits())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if err := l.SetValueInSpecifiedUnits(b.floatArg(call, 0)); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsLen.DefineAccessorProperty("valueAsString", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(l.ValueAsString())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if err := l.SetValueAsString(call.Argument(0).String()); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsLen.Set("newValueSpecifiedUnits", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "newValueSpecifiedUnits")
		unit := b.unitArg(call, 0)
		if err := l.NewValueSpecifiedUnits(unit, b.floatArg(call, 1)); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})

	jsLen.Set("convertToSpecifiedUnits", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "convertToSpecifiedUnits")
		if err := l.ConvertToSpecifiedUnits(b.unitArg(call, 0), b.ctx); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})

	b.lengths[l] = jsLen
	return jsLen
}

// BindLengthList returns the script object for list. Besides the
// SVGLengthList members it supports indexed reads, and indexed writes as
// replaceItem.
func (b *Binder) BindLengthList(list *svg.LengthList) *goja.Object {
	if list == nil {
		return nil
	}
	if jsObj, ok := b.lists[list]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsList := vm.NewObject()
	jsList.SetPrototype(b.lengthListProto)

	count := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list.NumberOfItems())
	})
	jsList.DefineAccessorProperty("numberOfItems", count, nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsList.DefineAccessorProperty("length", count, nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsList.Set("clear", func(call goja.FunctionCall) goja.Value {
		if err := list.Clear(); err != nil {
			b.throwError(err)
		}
		return goja.Undefined()
	})

	jsList.Set("initialize", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "initialize")
		item, err := list.Initialize(b.lengthArg(call.Argument(0)))
		if err != nil {
			b.throwError(err)
		}
		return b.BindLength(item)
	})

	jsList.Set("getItem", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "getItem")
		item, err := list.GetItem(b.indexArg(call, 0))
		if err != nil {
			b.throwError(err)
		}
		return b.BindLength(item)
	})

	jsList.Set("insertItemBefore", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "insertItemBefore")
		item, err := list.InsertItemBefore(b.lengthArg(call.Argument(0)), b.indexArg(call, 1))
		if err != nil {
			b.throwError(err)
		}
		return b.BindLength(item)
	})

	jsList.Set("replaceItem", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "replaceItem")
		item, err := list.ReplaceItem(b.lengthArg(call.Argument(0)), b.indexArg(call, 1))
		if err != nil {
			b.throwError(err)
		}
		return b.BindLength(item)
	})

	jsList.Set("removeItem", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "removeItem")
		item, err := list.RemoveItem(b.indexArg(call, 0))
		if err != nil {
			b.throwError(err)
		}
		return b.BindLength(item)
	})

	jsList.Set("appendItem", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "appendItem")
		item, err := list.AppendItem(b.lengthArg(call.Argument(0)))
		if err != nil {
			b.throwError(err)
		}
		return b.BindLength(item)
	})

	// Create a proxy to intercept numeric index access (e.g., list[0])
	proxy := vm.NewProxy(jsList, &goja.ProxyTrapConfig{
		GetIdx: func(target *goja.Object, property int, receiver goja.Value) goja.Value {
			item, err := list.GetItem(property)
			if err != nil {
				return goja.Undefined()
			}
			return b.BindLength(item)
		},
		SetIdx: func(target *goja.Object, property int, value goja.Value, receiver goja.Value) bool {
			if _, err := list.ReplaceItem(b.lengthArg(value), property); err != nil {
				b.throwError(err)
			}
			return true
		},
		HasIdx: func(target *goja.Object, property int) bool {
			return property >= 0 && property < list.NumberOfItems()
		},
		OwnKeys: func(target *goja.Object) *goja.Object {
			n := list.NumberOfItems()
			keys := make([]interface{}, 0, n+len(lengthListKeys))
			for i := 0; i < n; i++ {
				keys = append(keys, strconv.Itoa(i))
			}
			for _, k := range lengthListKeys {
				keys = append(keys, k)
			}
			return vm.ToValue(keys).ToObject(vm)
		},
		GetOwnPropertyDescriptorIdx: func(target *goja.Object, prop int) goja.PropertyDescriptor {
			item, err := list.GetItem(prop)
			if err != nil {
				return goja.PropertyDescriptor{}
			}
			return goja.PropertyDescriptor{
				Value:        b.BindLength(item),
				Writable:     goja.FLAG_TRUE,
				Enumerable:   goja.FLAG_TRUE,
				Configurable: goja.FLAG_TRUE,
			}
		},
	})

	proxyObj := vm.ToValue(proxy).ToObject(vm)
	b.lists[list] = proxyObj
	return proxyObj
}

// BindAnimatedLengthList returns the script object for a length-list
// attribute, with baseVal and animVal accessors.
func (b *Binder) BindAnimatedLengthList(a *svg.AnimatedLengthList) *goja.Object {
	if a == nil {
		return nil
	}
	if jsObj, ok := b.animated[a]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsAnim := vm.NewObject()
	jsAnim.SetPrototype(b.animatedProto)

	jsAnim.DefineAccessorProperty("baseVal", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindLengthList(a.BaseVal())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsAnim.DefineAccessorProperty("animVal", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindLengthList(a.AnimVal())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	b.animated[a] = jsAnim
	return jsAnim
}

// GoLength returns the Go length behind a script value, or nil if v is not
// an SVGLength created by this binder.
func (b *Binder) GoLength(v goja.Value) *svg.Length {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	inner := obj.Get("_goLength")
	if inner == nil || goja.IsUndefined(inner) {
		return nil
	}
	l, ok := inner.Export().(*svg.Length)
	if !ok || b.lengths[l] != obj {
		return nil
	}
	return l
}

// ClearCache forgets all bound objects.
func (b *Binder) ClearCache() {
	b.lengths = make(map[*svg.Length]*goja.Object)
	b.lists = make(map[*svg.LengthList]*goja.Object)
	b.animated = make(map[*svg.AnimatedLengthList]*goja.Object)
}

// lengthArg converts a script value to a length. Non-lengths become nil so
// the list reports them after its read-only and index checks.
func (b *Binder) lengthArg(v goja.Value) *svg.Length {
	return b.GoLength(v)
}

func (b *Binder) requireArgs(call goja.FunctionCall, n int, method string) {
	if len(call.Arguments) < n {
		panic(b.runtime.vm.NewTypeError("Failed to execute '%s': %d argument(s) required, but only %d present.", method, n, len(call.Arguments)))
	}
}

func (b *Binder) indexArg(call goja.FunctionCall, i int) int {
	v := call.Argument(i).ToFloat()
	if math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}

func (b *Binder) unitArg(call goja.FunctionCall, i int) svg.LengthType {
	v := call.Argument(i).ToInteger()
	if v < 0 || v > math.MaxUint16 {
		return svg.LengthTypeUnknown
	}
	return svg.LengthType(v)
}

func (b *Binder) floatArg(call goja.FunctionCall, i int) float64 {
	v := call.Argument(i).ToFloat()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(b.runtime.vm.NewTypeError("The provided float value is non-finite."))
	}
	return v
}
