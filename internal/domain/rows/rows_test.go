package rows_test

import (
	"testing"

	"github.com/okian/palmares/internal/domain/rows"
	"github.com/okian/palmares/internal/sample"
	"github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	convey.Convey("Given the fixture dataset", t, func() {
		ds := sample.Fixture()

		convey.Convey("When building the rows of 2024", func() {
			table := rows.Build(ds, "2024")

			convey.Convey("Then rows follow cohort order", func() {
				convey.So(table.Known, convey.ShouldBeTrue)
				convey.So(table.Rows, convey.ShouldHaveLength, 5)
				ids := make([]string, len(table.Rows))
				for i, r := range table.Rows {
					ids[i] = r.ID
				}
				convey.So(ids, convey.ShouldResemble, []string{
					sample.Montesquieu, sample.Camus, sample.Pagnol, sample.Ferry, sample.Ghost,
				})
			})

			convey.Convey("Then every axis of the dataset is present", func() {
				convey.So(table.Axes.Keys(), convey.ShouldResemble, ds.AxisKeys())
			})

			convey.Convey("Then metadata and scores are joined", func() {
				m := table.Rows[0]
				convey.So(m.Name, convey.ShouldEqual, "Collège Montesquieu")
				convey.So(m.City, convey.ShouldEqual, "Herblay")
				convey.So(m.Type, convey.ShouldEqual, "Public")
				convey.So(m.GroupLabel, convey.ShouldEqual, "Hors réseau")
				convey.So(m.Year, convey.ShouldEqual, "2024")
				convey.So(m.SourceRef, convey.ShouldEqual, "Visite 2024-03")
				convey.So(m.Highlights, convey.ShouldResemble, []string{"Fablab ouvert aux familles"})
				convey.So(m.Avg.Round1(), convey.ShouldEqual, 3.6)
			})

			convey.Convey("Then unusable values are left out of the row average", func() {
				convey.So(table.Rows[1].Avg.Value, convey.ShouldEqual, 1.5)
				convey.So(table.Rows[2].Avg.Round1(), convey.ShouldEqual, 2.6)
				convey.So(table.Rows[3].Avg.Valid, convey.ShouldBeFalse)
			})

			convey.Convey("Then a member without metadata or record falls back", func() {
				g := table.Rows[4]
				convey.So(g.Name, convey.ShouldEqual, "Collège Fantôme")
				convey.So(g.City, convey.ShouldEqual, "")
				convey.So(g.GroupLabel, convey.ShouldEqual, "inconnu")
				convey.So(g.Scores, convey.ShouldNotBeNil)
				convey.So(g.Scores, convey.ShouldBeEmpty)
				convey.So(g.Avg.Valid, convey.ShouldBeFalse)
				convey.So(g.SourceRef, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When building the rows of 2023", func() {
			table := rows.Build(ds, "2023")

			convey.Convey("Then the year's own cohort and records are used", func() {
				convey.So(table.Rows, convey.ShouldHaveLength, 2)
				convey.So(table.Rows[0].GroupLabel, convey.ShouldEqual, "REP")
				convey.So(table.Rows[0].Avg.Value, convey.ShouldEqual, 3)
				convey.So(table.Rows[1].Avg.Value, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the year has no cohort", func() {
			table := rows.Build(ds, "1999")

			convey.Convey("Then the table is empty but keeps the axes", func() {
				convey.So(table.Known, convey.ShouldBeFalse)
				convey.So(table.Rows, convey.ShouldBeEmpty)
				convey.So(table.Axes, convey.ShouldHaveLength, 5)
			})
		})

		convey.Convey("When a member has no name anywhere", func() {
			c := ds.Cohorts["2024"]
			c.Colleges = append(c.Colleges, c.Colleges[4])
			c.Colleges[5].ID = "anonymous"
			c.Colleges[5].Name = ""
			ds.Cohorts["2024"] = c
			table := rows.Build(ds, "2024")

			convey.Convey("Then the id is used as name", func() {
				convey.So(table.Rows[5].Name, convey.ShouldEqual, "anonymous")
			})
		})
	})

	convey.Convey("Given no dataset", t, func() {
		table := rows.Build(nil, "2024")

		convey.Convey("Then the table is empty", func() {
			convey.So(table.Rows, convey.ShouldBeEmpty)
			convey.So(table.Known, convey.ShouldBeFalse)
		})
	})
}
