package dataset_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/smartystreets/goconvey/convey"
)

const irregularDoc = `{
  "axes": {"z_last": "Zèbre", "a_first": "Alpha", "m_mid": null, "z_last": "Zeta"},
  "cohorts": {
    "2023": {"colleges": [{"id": "c1"}], "groups": []},
    "2024": {
      "label": "Rentrée 2024",
      "colleges": [
        {"id": "c1", "groupKey": "g1", "type": 3, "notes": "single note", "highlights": ["a", "", null, 2]},
        {"id": 42, "name": null, "notes": null, "highlights": {"x": 1}}
      ],
      "groups": [{"key": "g1", "label": "Groupe 1"}]
    },
    "draft": {"colleges": []}
  },
  "colleges": [{"id": "c1", "name": "Collège Un", "city": ["not", "text"]}],
  "college_scores": [
    {"college_id": "c1", "year": "2024", "scores": {"a_first": 3, "z_last": "3", "m_mid": true}},
    {"college_id": "c1", "year": 2024, "scores": {"a_first": 1}},
    {"college_id": "c1", "year": 2023, "scores": "broken", "source_ref": 12}
  ],
  "meta": {"title": "Test", "updated_at": null}
}`

func decode(doc string) (*dataset.Dataset, error) {
	return dataset.Decode(strings.NewReader(doc))
}

func TestDecode(t *testing.T) {
	convey.Convey("Given an irregular dataset document", t, func() {
		ds, err := decode(irregularDoc)

		convey.Convey("Then it decodes without error", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(ds, convey.ShouldNotBeNil)
		})

		convey.Convey("Then axes keep document order and the last label of a repeated key", func() {
			convey.So(ds.AxisKeys(), convey.ShouldResemble, []string{"z_last", "a_first", "m_mid"})
			convey.So(ds.Axes.Label("z_last"), convey.ShouldEqual, "Zeta")
			convey.So(ds.Axes.Label("m_mid"), convey.ShouldEqual, "m_mid")
			convey.So(ds.Axes.Label("unknown"), convey.ShouldEqual, "unknown")
		})

		convey.Convey("Then text fields tolerate any scalar", func() {
			c := ds.Cohorts["2024"]
			convey.So(string(c.Colleges[0].Type), convey.ShouldEqual, "3")
			convey.So(string(c.Colleges[1].ID), convey.ShouldEqual, "42")
			convey.So(string(c.Colleges[1].Name), convey.ShouldEqual, "")
			convey.So(string(ds.Colleges[0].City), convey.ShouldEqual, "")
			convey.So(string(ds.Meta.UpdatedAt), convey.ShouldEqual, "")
			convey.So(string(ds.CollegeScores[2].SourceRef), convey.ShouldEqual, "12")
		})

		convey.Convey("Then notes and highlights tolerate a string, a list or anything else", func() {
			c := ds.Cohorts["2024"]
			convey.So([]string(c.Colleges[0].Notes), convey.ShouldResemble, []string{"single note"})
			convey.So([]string(c.Colleges[0].Highlights), convey.ShouldResemble, []string{"a", "2"})
			convey.So(c.Colleges[1].Notes, convey.ShouldBeEmpty)
			convey.So(c.Colleges[1].Highlights, convey.ShouldBeEmpty)
		})

		convey.Convey("Then only JSON numbers are read as scores", func() {
			rec := ds.CollegeScores[0]
			v, ok := rec.Scores.Number("a_first")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 3)
			_, ok = rec.Scores.Number("z_last")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = rec.Scores.Number("m_mid")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = rec.Scores.Number("missing")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then a non-object score mapping is empty", func() {
			convey.So(ds.CollegeScores[2].Scores, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given a malformed document", t, func() {
		ds, err := decode(`{"axes": `)

		convey.Convey("Then it reports ErrUnavailable", func() {
			convey.So(ds, convey.ShouldBeNil)
			convey.So(errors.Is(err, dataset.ErrUnavailable), convey.ShouldBeTrue)
		})
	})
}

func TestAccessors(t *testing.T) {
	convey.Convey("Given a decoded dataset", t, func() {
		ds, err := decode(irregularDoc)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When listing years", func() {
			convey.Convey("Then only numeric cohort keys are listed, most recent first", func() {
				convey.So(ds.Years(), convey.ShouldResemble, []string{"2024", "2023"})
				convey.So(ds.DefaultYear(), convey.ShouldEqual, "2024")
			})
		})

		convey.Convey("When looking up a score record", func() {
			rec, ok := ds.ScoreFor("c1", "2024")

			convey.Convey("Then the first record of the year wins, whatever the year encoding", func() {
				convey.So(ok, convey.ShouldBeTrue)
				v, _ := rec.Scores.Number("a_first")
				convey.So(v, convey.ShouldEqual, 3)
			})

			convey.Convey("Then a numeric year matches a string year", func() {
				rec, ok := ds.ScoreFor("c1", "2023")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(string(rec.SourceRef), convey.ShouldEqual, "12")
			})

			convey.Convey("Then unknown pairs are not found", func() {
				_, ok := ds.ScoreFor("c1", "2022")
				convey.So(ok, convey.ShouldBeFalse)
				_, ok = ds.ScoreFor("c2", "2024")
				convey.So(ok, convey.ShouldBeFalse)
				_, ok = ds.ScoreFor("c1", "draft")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When looking up colleges and cohorts", func() {
			c, ok := ds.CollegeByID("c1")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(string(c.Name), convey.ShouldEqual, "Collège Un")
			_, ok = ds.CollegeByID("42")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = ds.Cohort("2025")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a nil dataset", t, func() {
		var ds *dataset.Dataset

		convey.Convey("Then every accessor answers empty", func() {
			convey.So(ds.Years(), convey.ShouldBeEmpty)
			convey.So(ds.DefaultYear(), convey.ShouldEqual, "")
			convey.So(ds.AxisKeys(), convey.ShouldBeEmpty)
			_, ok := ds.Cohort("2024")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = ds.ScoreFor("c1", "2024")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestEncode(t *testing.T) {
	convey.Convey("Given a decoded dataset", t, func() {
		ds, err := decode(irregularDoc)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When encoding it again", func() {
			data, err := json.Marshal(ds)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then axes stay ordered and numeric years are numbers", func() {
				s := string(data)
				convey.So(s, convey.ShouldContainSubstring, `"axes":{"z_last":"Zeta","a_first":"Alpha","m_mid":""}`)
				convey.So(s, convey.ShouldContainSubstring, `"year":2024`)
			})

			convey.Convey("Then it decodes back to the same axes and years", func() {
				back, err := dataset.Decode(strings.NewReader(string(data)))
				convey.So(err, convey.ShouldBeNil)
				convey.So(back.AxisKeys(), convey.ShouldResemble, ds.AxisKeys())
				convey.So(back.Years(), convey.ShouldResemble, ds.Years())
			})
		})
	})
}
