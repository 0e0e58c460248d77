package pretty

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dzjyyds666/asttab/parse/dump"
	"github.com/dzjyyds666/asttab/parse/expr"
	"github.com/smartystreets/goconvey/convey"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "testdata", name))
	if err != nil {
		t.Fatalf("read testdata %s: %v", name, err)
	}
	return strings.TrimRight(string(data), "\n")
}

func TestFormatLayout(t *testing.T) {
	convey.Convey("nested calls get one argument per line", t, func() {
		got, err := Source(`ast.Name(id='x', ctx=ast.Load())`, DefaultIndent)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "ast.Name(\n    id='x',\n    ctx=ast.Load(),\n)")
	})

	convey.Convey("empty containers and calls stay inline", t, func() {
		got, err := Source(`f([], (), {}, g())`, "  ")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "f(\n  [],\n  (),\n  {},\n  g(),\n)")
	})

	convey.Convey("single element tuples keep their comma", t, func() {
		got, err := Source(`(1,)`, DefaultIndent)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "(\n    1,\n)")
	})

	convey.Convey("mappings and spread keywords", t, func() {
		got, err := Source(`{'a': [1], 'b': rest}`, DefaultIndent)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "{\n    'a': [\n        1,\n    ],\n    'b': rest,\n}")

		got, err = Source(`f(x, **kw)`, DefaultIndent)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "f(\n    x,\n    **kw,\n)")
	})

	convey.Convey("literals use their canonical repr", t, func() {
		got, err := Source(`[+5, "it's", True]`, DefaultIndent)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "[\n    5,\n    \"it's\",\n    True,\n]")
	})
}

func TestFormatUnsupported(t *testing.T) {
	convey.Convey("unary and starred expressions are rejected", t, func() {
		_, err := Source(`f(-x)`, DefaultIndent)
		convey.So(errors.Is(err, ErrFormatting), convey.ShouldBeTrue)
		var ue *UnsupportedExpressionError
		convey.So(errors.As(err, &ue), convey.ShouldBeTrue)
		convey.So(ue.Variant, convey.ShouldEqual, "Unary")
		convey.So(ue.Pos, convey.ShouldEqual, 2)

		_, err = Source(`f(*xs)`, DefaultIndent)
		convey.So(errors.As(err, &ue), convey.ShouldBeTrue)
		convey.So(ue.Variant, convey.ShouldEqual, "Starred")
	})

	convey.Convey("a nil expression is rejected", t, func() {
		_, err := Format(nil, DefaultIndent)
		convey.So(errors.Is(err, ErrFormatting), convey.ShouldBeTrue)
	})
}

func TestFormatIdempotent(t *testing.T) {
	convey.Convey("formatting formatted output changes nothing", t, func() {
		for _, name := range []string{"assign", "match", "imports", "class", "async_yield_from"} {
			once, err := Source(readTestdata(t, name+".builder"), DefaultIndent)
			convey.So(err, convey.ShouldBeNil)
			twice, err := Source(once, DefaultIndent)
			convey.So(err, convey.ShouldBeNil)
			convey.So(twice, convey.ShouldEqual, once)
		}
	})
}

func TestFormatTestdata(t *testing.T) {
	convey.Convey("layout matches the reference pretty output", t, func() {
		for _, name := range []string{"assign", "tuple", "single_tuple", "func", "async", "listcomp", "match", "imports", "kwonly", "async_yield_from"} {
			builder, err := dump.Parse(readTestdata(t, name+".dump"))
			convey.So(err, convey.ShouldBeNil)
			e, err := expr.Parse(builder)
			convey.So(err, convey.ShouldBeNil)
			got, err := Format(e, DefaultIndent)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, readTestdata(t, name+".pretty"))
		}
	})

	convey.Convey("negative integers in f-string conversions format as literals", t, func() {
		got, err := Source(readTestdata(t, "class.builder"), DefaultIndent)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldContainSubstring, "conversion=-1,")
	})
}
