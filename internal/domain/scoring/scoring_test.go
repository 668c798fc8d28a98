package scoring_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/scoring"
	"github.com/okian/palmares/internal/sample"
	"github.com/smartystreets/goconvey/convey"
)

var axes = dataset.Axes{
	{Key: "a", Label: "A"},
	{Key: "b", Label: "B"},
	{Key: "c", Label: "C"},
}

func TestUsable(t *testing.T) {
	convey.Convey("Given candidate score values", t, func() {
		convey.Convey("Then only finite values within the scale are usable", func() {
			convey.So(scoring.Usable(0), convey.ShouldBeTrue)
			convey.So(scoring.Usable(4), convey.ShouldBeTrue)
			convey.So(scoring.Usable(2.5), convey.ShouldBeTrue)
			convey.So(scoring.Usable(-0.1), convey.ShouldBeFalse)
			convey.So(scoring.Usable(4.1), convey.ShouldBeFalse)
			convey.So(scoring.Usable(math.NaN()), convey.ShouldBeFalse)
			convey.So(scoring.Usable(math.Inf(1)), convey.ShouldBeFalse)
		})
	})
}

func TestRowAverage(t *testing.T) {
	convey.Convey("Given a row's scores", t, func() {
		convey.Convey("When some values are unusable", func() {
			scores := sample.Scores(map[string]any{"a": 4, "b": "3", "c": 2})
			avg := scoring.RowAverage(scores, axes.Keys())

			convey.Convey("Then they are left out, not counted as zero", func() {
				convey.So(avg.Valid, convey.ShouldBeTrue)
				convey.So(avg.Value, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When nothing is usable", func() {
			scores := sample.Scores(map[string]any{"a": nil, "b": 9, "c": true})
			avg := scoring.RowAverage(scores, axes.Keys())

			convey.Convey("Then the average is null", func() {
				convey.So(avg.Valid, convey.ShouldBeFalse)
				convey.So(avg.String(), convey.ShouldEqual, "-")
			})
		})

		convey.Convey("When keys are not axes", func() {
			scores := sample.Scores(map[string]any{"a": 1, "extra": 4})
			avg := scoring.RowAverage(scores, axes.Keys())

			convey.Convey("Then they are ignored", func() {
				convey.So(avg.Value, convey.ShouldEqual, 1)
			})
		})
	})
}

func TestAxisAverages(t *testing.T) {
	convey.Convey("Given score sets of several rows", t, func() {
		sets := []dataset.Scores{
			sample.Scores(map[string]any{"a": 4, "b": 2}),
			sample.Scores(map[string]any{"a": 2, "b": "n/a"}),
			{},
		}
		avgs := scoring.AxisAverages(sets, axes)

		convey.Convey("Then every axis is present, in axis order", func() {
			convey.So(avgs, convey.ShouldHaveLength, 3)
			convey.So(avgs[0].Axis.Key, convey.ShouldEqual, "a")
			convey.So(avgs[2].Axis.Key, convey.ShouldEqual, "c")
		})

		convey.Convey("Then each axis averages its own usable values", func() {
			convey.So(avgs.Get("a").Value, convey.ShouldEqual, 3)
			convey.So(avgs.Get("b").Value, convey.ShouldEqual, 2)
			convey.So(avgs.Get("c").Valid, convey.ShouldBeFalse)
			convey.So(avgs.Get("zzz").Valid, convey.ShouldBeFalse)
		})

		convey.Convey("Then the global average is the mean of the scored axes", func() {
			g := scoring.GlobalAverage(avgs)
			convey.So(g.Valid, convey.ShouldBeTrue)
			convey.So(g.Value, convey.ShouldEqual, 2.5)
		})

		convey.Convey("Then the extremes are the best and weakest scored axes", func() {
			best, worst, ok := scoring.Extremes(avgs)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(best.Axis.Key, convey.ShouldEqual, "a")
			convey.So(worst.Axis.Key, convey.ShouldEqual, "b")
		})
	})

	convey.Convey("Given no rows", t, func() {
		avgs := scoring.AxisAverages(nil, axes)

		convey.Convey("Then every average is null and there are no extremes", func() {
			for _, av := range avgs {
				convey.So(av.Score.Valid, convey.ShouldBeFalse)
			}
			convey.So(scoring.GlobalAverage(avgs).Valid, convey.ShouldBeFalse)
			_, _, ok := scoring.Extremes(avgs)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given tied axes", t, func() {
		sets := []dataset.Scores{sample.Scores(map[string]any{"a": 2, "b": 2, "c": 2})}
		best, worst, _ := scoring.Extremes(scoring.AxisAverages(sets, axes))

		convey.Convey("Then ties keep axis order", func() {
			convey.So(best.Axis.Key, convey.ShouldEqual, "a")
			convey.So(worst.Axis.Key, convey.ShouldEqual, "c")
		})
	})
}

func TestScore(t *testing.T) {
	convey.Convey("Given scores", t, func() {
		convey.Convey("Then they render with one decimal", func() {
			convey.So(scoring.Of(8.0/3).String(), convey.ShouldEqual, "2.7")
			convey.So(scoring.Of(3).String(), convey.ShouldEqual, "3")
			convey.So(scoring.Of(2.25).Raw(), convey.ShouldEqual, "2.25")
			convey.So(scoring.Null.Raw(), convey.ShouldEqual, "-")
		})

		convey.Convey("Then JSON carries null for absent scores", func() {
			data, err := json.Marshal([]scoring.Score{scoring.Of(1.5), scoring.Null})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldEqual, "[1.5,null]")
		})

		convey.Convey("Then Of rejects unusable values", func() {
			convey.So(scoring.Of(7).Valid, convey.ShouldBeFalse)
		})

		convey.Convey("Then percentages cover the 0-4 scale", func() {
			convey.So(scoring.Of(2).Percent(), convey.ShouldEqual, 50)
			convey.So(scoring.Of(4).Percent(), convey.ShouldEqual, 100)
			convey.So(scoring.Null.Percent(), convey.ShouldEqual, 0)
		})

		convey.Convey("Then badges follow the thresholds", func() {
			convey.So(scoring.Badge(scoring.Of(3.2)), convey.ShouldEqual, scoring.BadgeGood)
			convey.So(scoring.Badge(scoring.Of(3.19)), convey.ShouldEqual, scoring.BadgeWarn)
			convey.So(scoring.Badge(scoring.Of(2.4)), convey.ShouldEqual, scoring.BadgeWarn)
			convey.So(scoring.Badge(scoring.Of(2.39)), convey.ShouldEqual, scoring.BadgeBad)
			convey.So(scoring.Badge(scoring.Null), convey.ShouldEqual, scoring.BadgeNone)
		})
	})
}
