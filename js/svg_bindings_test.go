package js

import (
	"io"
	"strings"
	"testing"

	"github.com/chrisuehlinger/svgdom/svg"
	"github.com/rs/zerolog"
)

func newTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w)
}

func newBoundList(t *testing.T, value string) (*Runtime, *Binder, *svg.AnimatedLengthList) {
	t.Helper()
	r := NewRuntime()
	binder := NewBinder(r)
	attr := svg.NewAnimatedLengthList("x", svg.DirectionWidth, nil)
	if err := attr.SetValueAsString(value); err != nil {
		t.Fatalf("SetValueAsString failed: %v", err)
	}
	r.Set("attr", binder.BindAnimatedLengthList(attr))
	r.Set("list", binder.BindLengthList(attr.BaseVal()))
	return r, binder, attr
}

func execString(t *testing.T, r *Runtime, code string) string {
	t.Helper()
	result, err := r.Execute(code)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return result.String()
}

func TestBinderScenario(t *testing.T) {
	r, _, attr := newBoundList(t, "")

	got := execString(t, r, `
		function len(s) { var l = createSVGLength(); l.valueAsString = s; return l; }
		var out = [];
		list.appendItem(len("5px"));
		out.push(list.numberOfItems, list.getItem(0).valueAsString);
		list.appendItem(len("10%"));
		out.push(list.numberOfItems);
		list.insertItemBefore(len("3em"), 1);
		list.removeItem(0);
		list.replaceItem(len("1px"), 1);
		out.push(list.length);
		out.join(",");
	`)
	if got != "1,5px,2,2" {
		t.Errorf("Expected '1,5px,2,2', got '%s'", got)
	}
	if attr.ValueAsString() != "3em 1px" {
		t.Errorf("Expected '3em 1px', got '%s'", attr.ValueAsString())
	}
}

func TestBinderIdentity(t *testing.T) {
	r, _, _ := newBoundList(t, "1 2")

	got := execString(t, r, `
		[list.getItem(0) === list.getItem(0),
		 list[1] === list.getItem(1),
		 attr.baseVal === list,
		 list instanceof SVGLengthList,
		 list.getItem(0) instanceof SVGLength,
		 attr instanceof SVGAnimatedLengthList].join(",")
	`)
	if got != "true,true,true,true,true,true" {
		t.Errorf("Expected all true, got '%s'", got)
	}
}

func TestBinderIndexSizeError(t *testing.T) {
	r, _, _ := newBoundList(t, "1 2")

	for _, code := range []string{"list.getItem(2)", "list.getItem(-1)", "list.removeItem(5)", "list.replaceItem(createSVGLength(), 2)", "list.insertItemBefore(createSVGLength(), -1)"} {
		got := execString(t, r, `
			try { `+code+`; "no error" } catch (e) {
				[e instanceof DOMException, e.name, e.code].join(",")
			}
		`)
		if got != "true,IndexSizeError,1" {
			t.Errorf("%s: expected 'true,IndexSizeError,1', got '%s'", code, got)
		}
	}

	// Inserting past the end appends.
	got := execString(t, r, `list.insertItemBefore(createSVGLength(), 99); list.numberOfItems`)
	if got != "3" {
		t.Errorf("Expected 3, got '%s'", got)
	}
}

func TestBinderReadOnly(t *testing.T) {
	r, _, attr := newBoundList(t, "1px 2px")

	got := execString(t, r, `
		var anim = attr.animVal;
		var results = [];
		var ops = [
			function() { anim.clear(); },
			function() { anim.initialize(createSVGLength()); },
			function() { anim.insertItemBefore(createSVGLength(), -1); },
			function() { anim.replaceItem(createSVGLength(), 7); },
			function() { anim.removeItem(-3); },
			function() { anim.appendItem(createSVGLength()); },
			function() { anim.getItem(0).valueInSpecifiedUnits = 4; },
			function() { anim[0] = createSVGLength(); }
		];
		ops.forEach(function(op) {
			try { op(); results.push("ok"); } catch (e) { results.push(e.code); }
		});
		results.join(",") + "|" + anim.numberOfItems;
	`)
	if got != "7,7,7,7,7,7,7,7|2" {
		t.Errorf("Expected all NoModificationAllowedError, got '%s'", got)
	}
	if attr.ValueAsString() != "1px 2px" {
		t.Errorf("Expected value unchanged, got '%s'", attr.ValueAsString())
	}
}

func TestBinderTypeErrors(t *testing.T) {
	r, _, _ := newBoundList(t, "1")

	for _, code := range []string{
		`list.appendItem({})`,
		`list.appendItem("5px")`,
		`list.appendItem()`,
		`list.getItem(0).valueInSpecifiedUnits = NaN`,
		`new SVGLength()`,
	} {
		got := execString(t, r, `try { `+code+`; "no error" } catch (e) { e instanceof TypeError }`)
		if got != "true" {
			t.Errorf("%s: expected TypeError, got '%s'", code, got)
		}
	}
}

func TestBinderReparenting(t *testing.T) {
	r := NewRuntime()
	binder := NewBinder(r)
	a := svg.NewLengthList()
	b := svg.NewLengthList()
	r.Set("a", binder.BindLengthList(a))
	r.Set("b", binder.BindLengthList(b))

	got := execString(t, r, `
		var v = createSVGLength();
		a.appendItem(v);
		b.appendItem(v);
		[a.numberOfItems, b.numberOfItems, b.getItem(0) === v].join(",")
	`)
	if got != "0,1,true" {
		t.Errorf("Expected '0,1,true', got '%s'", got)
	}
}

func TestBinderLengthMembers(t *testing.T) {
	r, binder, _ := newBoundList(t, "1in 50%")
	binder.SetContext(svg.StaticContext{Font: 16, Viewport: [2]float64{400, 300}})

	got := execString(t, r, `
		var inch = list.getItem(0);
		var pct = list.getItem(1);
		var out = [inch.unitType === SVGLength.SVG_LENGTHTYPE_IN, inch.value, pct.value];
		inch.convertToSpecifiedUnits(SVGLength.SVG_LENGTHTYPE_PX);
		out.push(inch.valueAsString);
		pct.value = 100;
		out.push(pct.valueAsString);
		inch.newValueSpecifiedUnits(SVGLength.SVG_LENGTHTYPE_EMS, 2);
		out.push(inch.value);
		out.join(",");
	`)
	if got != "true,96,200,96px,25%,32" {
		t.Errorf("Expected 'true,96,200,96px,25%%,32', got '%s'", got)
	}

	got = execString(t, r, `
		try { list.getItem(0).valueAsString = "bogus"; "no error" } catch (e) { e.name }
	`)
	if got != "SyntaxError" {
		t.Errorf("Expected SyntaxError, got '%s'", got)
	}

	got = execString(t, r, `
		try { list.getItem(0).newValueSpecifiedUnits(0, 1); "no error" } catch (e) { e.name }
	`)
	if got != "NotSupportedError" {
		t.Errorf("Expected NotSupportedError, got '%s'", got)
	}
}

func TestBinderIndexedAccess(t *testing.T) {
	r, _, attr := newBoundList(t, "1 2 3")

	got := execString(t, r, `
		var l = createSVGLength();
		l.valueAsString = "9mm";
		list[1] = l;
		[list[0].valueAsString, list[1].valueAsString, list[3] === undefined, 2 in list, 3 in list, Object.keys(list).slice(0, 3).join("")].join(",")
	`)
	if got != "1,9mm,true,true,false,012" {
		t.Errorf("Expected '1,9mm,true,true,false,012', got '%s'", got)
	}
	if attr.ValueAsString() != "1 9mm 3" {
		t.Errorf("Expected '1 9mm 3', got '%s'", attr.ValueAsString())
	}
}

func TestBinderGoLength(t *testing.T) {
	r := NewRuntime()
	binder := NewBinder(r)
	l := svg.NewLength()
	r.Set("l", binder.BindLength(l))

	result, err := r.Execute("l")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if binder.GoLength(result) != l {
		t.Error("Expected GoLength to return the bound length")
	}

	result, _ = r.Execute("({_goLength: l._goLength})")
	if binder.GoLength(result) != nil {
		t.Error("Expected a copied marker not to be accepted as a length")
	}

	binder.ClearCache()
	if binder.GoLength(result) != nil {
		t.Error("Expected nil after ClearCache")
	}
}

func TestRuntimeConsoleAndErrors(t *testing.T) {
	r := NewRuntime()
	var buf strings.Builder
	r.SetLogger(newTestLogger(&buf))

	if _, err := r.Execute(`console.log("hello", 1); console.warn("careful")`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"message":"hello 1"`) {
		t.Errorf("Expected console.log output, got %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("Expected warn level, got %s", out)
	}

	var reported error
	r.SetOnError(func(err error) { reported = err })
	if err := r.ExecuteScript("throw new Error('boom')", "boom.js"); err == nil {
		t.Fatal("Expected an error")
	}
	if reported == nil {
		t.Error("Expected onError to be called")
	}
	if len(r.Errors()) != 1 {
		t.Errorf("Expected 1 recorded error, got %d", len(r.Errors()))
	}
	r.ClearErrors()
	if len(r.Errors()) != 0 {
		t.Errorf("Expected errors cleared, got %d", len(r.Errors()))
	}
}

func TestBinderClearCacheReleasesRemovedItems(t *testing.T) {
	r, binder, attr := newBoundList(t, "1 2")

	execString(t, r, `var removed = list.removeItem(0); removed.valueAsString`)
	if len(binder.lengths) != 1 {
		t.Fatalf("Expected 1 cached length, got %d", len(binder.lengths))
	}

	binder.ClearCache()
	if len(binder.lengths) != 0 || len(binder.lists) != 0 || len(binder.animated) != 0 {
		t.Error("Expected ClearCache to empty every cache")
	}

	item, _ := attr.BaseVal().GetItem(0)
	first := binder.BindLength(item)
	if binder.BindLength(item) != first {
		t.Error("Expected a rebound length to be cached again")
	}
}
