package pyquote

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestQuote(t *testing.T) {
	convey.Convey("quote picks the python repr quote style", t, func() {
		convey.So(Quote("x"), convey.ShouldEqual, `'x'`)
		convey.So(Quote(""), convey.ShouldEqual, `''`)
		convey.So(Quote("it's"), convey.ShouldEqual, `"it's"`)
		convey.So(Quote(`say "hi"`), convey.ShouldEqual, `'say "hi"'`)
		convey.So(Quote(`it's "x"`), convey.ShouldEqual, `'it\'s "x"'`)
	})

	convey.Convey("quote escapes control and backslash characters", t, func() {
		convey.So(Quote("a\nb\tc\r"), convey.ShouldEqual, `'a\nb\tc\r'`)
		convey.So(Quote(`a\nb`), convey.ShouldEqual, `'a\\nb'`)
		convey.So(Quote("\x00\x7f"), convey.ShouldEqual, `'\x00\x7f'`)
	})

	convey.Convey("quote keeps printable unicode and escapes the rest", t, func() {
		convey.So(Quote("héllo 世界"), convey.ShouldEqual, `'héllo 世界'`)
		convey.So(Quote("\u00a0"), convey.ShouldEqual, `'\xa0'`)
		convey.So(Quote("\u2028"), convey.ShouldEqual, `'\u2028'`)
	})
}
