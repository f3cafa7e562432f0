package tags_test

import (
	"testing"

	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/tags"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given raw style columns", t, func() {
		Convey("When the column is comma separated", func() {
			So(tags.Parse("餐酒館, 精緻酒吧"), ShouldResemble, model.TagSet{"餐酒館", "精緻酒吧"})
		})

		Convey("When full-width and ideographic commas are mixed in", func() {
			So(tags.Parse("立飲酒吧，威士忌酒吧、茶酒酒吧"), ShouldResemble, model.TagSet{"立飲酒吧", "威士忌酒吧", "茶酒酒吧"})
		})

		Convey("When the column repeats a tag", func() {
			So(tags.Parse("Jazz, Jazz ,Rock"), ShouldResemble, model.TagSet{"Jazz", "Rock"})
		})

		Convey("When the column is missing", func() {
			So(tags.Parse(tags.Missing), ShouldBeEmpty)
			So(tags.Parse(""), ShouldBeEmpty)
			So(tags.Parse(" , ,"), ShouldBeEmpty)
		})
	})
}

func TestParseMusic(t *testing.T) {
	Convey("Given music columns with spelling variants", t, func() {
		Convey("Then EDM variants collapse", func() {
			So(tags.ParseMusic("edm, ＥＤＭ, EDＭ"), ShouldResemble, model.TagSet{"EDM"})
		})

		Convey("Then Lo-fi variants collapse", func() {
			So(tags.ParseMusic("LOFI, lo-fi"), ShouldResemble, model.TagSet{"Lo-fi"})
		})

		Convey("Then other genres pass through", func() {
			So(tags.ParseMusic("Jazz, Hip-Hop"), ShouldResemble, model.TagSet{"Jazz", "Hip-Hop"})
		})
	})

	Convey("Given a single tag", t, func() {
		So(tags.CanonicalMusic(" R&B "), ShouldEqual, "R&B")
		So(tags.CanonicalMusic("Electronic EDM"), ShouldEqual, "EDM")
	})
}
