package dump

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatalf("read testdata %s: %v", name, err)
	}
	return strings.TrimRight(string(data), "\n")
}

func TestParseScenario(t *testing.T) {
	convey.Convey("assignment dump becomes a builder expression", t, func() {
		got, err := Parse(`Module(body=[Assign(targets=[Name(id='x')], value=Constant(value=1))])`)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual,
			`ast.Module(body=[ast.Assign(targets=[ast.Name(id='x')], value=ast.Constant(value=1))])`)
	})

	convey.Convey("indented dump text is whitespace-insensitive", t, func() {
		src := "Module(\n    body=[\n        Expr(\n            value=Constant(value=True))],\n    type_ignores=[])"
		got, err := Parse(src)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "ast.Module(body=[ast.Expr(value=ast.Constant(value=True))], type_ignores=[])")
	})

	convey.Convey("prefix is configurable", t, func() {
		got, err := Parse(`Name(id='x', ctx=Load())`, WithPrefix("pyast."))
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, `pyast.Name(id='x', ctx=pyast.Load())`)

		got, err = Parse(`Pass()`, WithPrefix(""))
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, `Pass()`)
	})
}

func TestParseSequences(t *testing.T) {
	convey.Convey("single element tuple keeps its trailing comma", t, func() {
		got, err := Parse("(1,)")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "(1,)")

		got, err = Parse("( 1 )")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "(1,)")
	})

	convey.Convey("empty containers stay inline", t, func() {
		got, err := Parse("[]")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "[]")

		got, err = Parse("(\n)")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "()")
	})

	convey.Convey("multi element tuples and lists are comma joined", t, func() {
		got, err := Parse("(1, 'a',None)")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "(1, 'a', None)")

		got, err = Parse("[\n    -1,\n    +2,\n    False]")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "[-1, +2, False]")
	})
}

func TestParseStrings(t *testing.T) {
	convey.Convey("strings are re-quoted without escape processing", t, func() {
		got, err := Parse(`"it's"`)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, `"it's"`)

		got, err = Parse(`'a\nb'`)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, `'a\\nb'`)
	})

	convey.Convey("string values keep their raw content", t, func() {
		v, err := ParseValue(`Constant(value='hi there')`)
		convey.So(err, convey.ShouldBeNil)
		n := v.(*Node)
		s, ok := n.Get("value")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(s.(*String).Raw, convey.ShouldEqual, "hi there")
		convey.So(s.(*String).Quote, convey.ShouldEqual, '\'')
	})
}

func TestParseValueStructure(t *testing.T) {
	convey.Convey("node fields keep source order", t, func() {
		v, err := ParseValue(`alias(name='path', asname='p')`)
		convey.So(err, convey.ShouldBeNil)
		n := v.(*Node)
		convey.So(n.Type, convey.ShouldEqual, "alias")
		convey.So(len(n.Fields), convey.ShouldEqual, 2)
		convey.So(n.Fields[0].Name, convey.ShouldEqual, "name")
		convey.So(n.Fields[1].Name, convey.ShouldEqual, "asname")
		_, ok := n.Get("missing")
		convey.So(ok, convey.ShouldBeFalse)
	})

	convey.Convey("atoms are classified", t, func() {
		v, err := ParseValue("[True, None, 42]")
		convey.So(err, convey.ShouldBeNil)
		seq := v.(*Sequence)
		convey.So(seq.Kind(), convey.ShouldEqual, KindSequence)
		convey.So(seq.Elems[0].(*Atom).Type, convey.ShouldEqual, AtomBool)
		convey.So(seq.Elems[1].(*Atom).Type, convey.ShouldEqual, AtomNone)
		convey.So(seq.Elems[2].(*Atom).Type, convey.ShouldEqual, AtomInt)
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		reason error
		pos    int
	}{
		{"unknown atom", "Constant(value=Maybe)", ErrUnknownAtom, 15},
		{"float atom", "Constant(value=1.5)", ErrUnknownAtom, 15},
		{"unterminated string", "Constant(value='abc)", ErrUnterminatedString, 15},
		{"empty input", "   ", ErrUnexpectedEOF, 3},
		{"truncated node", "Module(body=[", ErrUnexpectedEOF, 13},
		{"missing close paren", "Name(id='x'", ErrUnexpectedEOF, 11},
		{"garbage in field list", "Name(id='x' ctx=Load())", ErrExpectedToken, 12},
		{"positional value in node", "Name('x')", ErrExpectedToken, 5},
		{"unexpected delimiter", "[1, }]", ErrExpectedToken, 4},
		{"trailing text", "Pass() Pass()", ErrExpectedToken, 7},
		{"list closed by paren", "[1, 2)", ErrExpectedToken, 5},
	}

	for _, tc := range cases {
		convey.Convey(tc.name, t, func() {
			_, err := Parse(tc.input)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, ErrSyntax), convey.ShouldBeTrue)
			convey.So(errors.Is(err, tc.reason), convey.ShouldBeTrue)

			var se *SyntaxError
			convey.So(errors.As(err, &se), convey.ShouldBeTrue)
			convey.So(se.Pos, convey.ShouldEqual, tc.pos)
		})
	}

	convey.Convey("unknown atom names the lexeme", t, func() {
		_, err := Parse("Maybe")
		convey.So(err.Error(), convey.ShouldEqual, `dump:0: unknown atom "Maybe"`)
	})
}

func TestParseTestdata(t *testing.T) {
	convey.Convey("dumps of real modules produce the reference builder text", t, func() {
		for _, name := range []string{"assign", "tuple", "single_tuple", "func", "class", "async", "listcomp", "match", "imports", "kwonly", "async_yield_from"} {
			got, err := Parse(readTestdata(t, name+".dump"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, readTestdata(t, name+".builder"))
		}
	})
}
