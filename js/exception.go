package js

import (
	"github.com/chrisuehlinger/svgdom/svg"
	"github.com/dop251/goja"
)

// domExceptionCode returns the legacy exception code for a DOMException name.
func domExceptionCode(name string) int {
	codes := map[string]int{
		"IndexSizeError":             1,
		"HierarchyRequestError":      3,
		"WrongDocumentError":         4,
		"InvalidCharacterError":      5,
		"NoModificationAllowedError": 7,
		"NotFoundError":              8,
		"NotSupportedError":          9,
		"InvalidStateError":          11,
		"SyntaxError":                12,
		"InvalidModificationError":   13,
		"NamespaceError":             14,
		"InvalidAccessError":         15,
		"TypeMismatchError":          17,
	}
	if code, ok := codes[name]; ok {
		return code
	}
	return 0
}

// setupDOMException installs the DOMException constructor. It extends
// Error so scripts can catch it like any other error.
func (b *Binder) setupDOMException() {
	vm := b.runtime.vm

	b.domExceptionProto = vm.NewObject()
	errorProto := vm.Get("Error").ToObject(vm).Get("prototype").ToObject(vm)
	b.domExceptionProto.SetPrototype(errorProto)

	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		message := ""
		name := "Error"
		if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
			message = call.Arguments[0].String()
		}
		if len(call.Arguments) > 1 && !goja.IsUndefined(call.Arguments[1]) {
			name = call.Arguments[1].String()
		}
		exc := call.This
		exc.Set("message", message)
		exc.Set("name", name)
		exc.Set("code", domExceptionCode(name))
		return exc
	}).ToObject(vm)
	ctor.Set("prototype", b.domExceptionProto)
	b.domExceptionProto.Set("constructor", ctor)

	ctor.Set("INDEX_SIZE_ERR", 1)
	ctor.Set("NO_MODIFICATION_ALLOWED_ERR", 7)
	ctor.Set("NOT_SUPPORTED_ERR", 9)
	ctor.Set("SYNTAX_ERR", 12)
	ctor.Set("TYPE_MISMATCH_ERR", 17)

	vm.Set("DOMException", ctor)
}

// createDOMException creates a DOMException object using the global constructor.
func (b *Binder) createDOMException(name, message string) *goja.Object {
	vm := b.runtime.vm

	fallback := func() *goja.Object {
		exc := vm.NewObject()
		exc.SetPrototype(b.domExceptionProto)
		exc.Set("name", name)
		exc.Set("message", message)
		exc.Set("code", domExceptionCode(name))
		return exc
	}

	ctor, ok := goja.AssertConstructor(vm.Get("DOMException"))
	if !ok {
		return fallback()
	}
	exc, err := ctor(nil, vm.ToValue(message), vm.ToValue(name))
	if err != nil {
		return fallback()
	}
	return exc
}

// throwError throws err into the running script. A DOMError becomes a
// DOMException, except TypeMismatchError which scripts see as a TypeError.
func (b *Binder) throwError(err error) {
	vm := b.runtime.vm
	domErr, ok := err.(*svg.DOMError)
	if !ok {
		panic(vm.NewGoError(err))
	}
	if domErr.Name == svg.TypeMismatchError {
		panic(vm.NewTypeError(domErr.Message))
	}
	panic(vm.ToValue(b.createDOMException(domErr.Name, domErr.Message)))
}
