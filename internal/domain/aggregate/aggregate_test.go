package aggregate_test

import (
	"testing"

	"github.com/okian/mindthegap/internal/domain/aggregate"
	"github.com/okian/mindthegap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func scenario() *model.Dataset {
	return model.NewDataset([]model.MedalRecord{
		{Year: 1900, Country: "FRA", Athlete: "A1", Sport: "Tennis", Gender: model.Men, Medal: "Gold"},
		{Year: 1900, Country: "FRA", Athlete: "A2", Sport: "Tennis", Gender: model.Women, Medal: "Gold"},
		{Year: 2012, Country: "USA", Athlete: "A3", Sport: "Boxing", Gender: model.Men, Medal: "Silver"},
	})
}

func wider() *model.Dataset {
	return model.NewDataset([]model.MedalRecord{
		{Year: 1896, Country: "GRE", Athlete: "B1", Sport: "Athletics", Gender: model.Men, Medal: "Gold"},
		{Year: 1900, Country: "FRA", Athlete: "A1", Sport: "Tennis", Gender: model.Men, Medal: "Gold"},
		{Year: 1900, Country: "FRA", Athlete: "A2", Sport: "Tennis", Gender: model.Women, Medal: "Gold"},
		{Year: 1900, Country: "GBR", Athlete: "C1", Sport: "Tennis", Gender: model.Women, Medal: "Silver"},
		{Year: 1960, Country: "USA", Athlete: "D1", Sport: "Athletics", Gender: model.Women, Medal: "Gold"},
		{Year: 1960, Country: "USA", Athlete: "D2", Sport: "Athletics", Gender: model.Men, Medal: "Bronze"},
		{Year: 2012, Country: "USA", Athlete: "A3", Sport: "Boxing", Gender: model.Men, Medal: "Silver"},
		{Year: 2014, Country: "NOR", Athlete: "E1", Sport: "Biathlon", Gender: model.Women, Medal: "Gold"},
	})
}

func TestFilter(t *testing.T) {
	Convey("Given the scenario dataset", t, func() {
		ds := scenario()

		Convey("When the filter covers everything", func() {
			subset := aggregate.Filter(ds, model.NewFilterState(1896, 2014, nil))
			So(len(subset), ShouldEqual, 3)
		})

		Convey("When a country is selected", func() {
			subset := aggregate.Filter(ds, model.NewFilterState(1896, 2014, []string{"USA"}))
			So(len(subset), ShouldEqual, 1)
			So(subset[0].Athlete, ShouldEqual, "A3")
		})

		Convey("When no row matches", func() {
			subset := aggregate.Filter(ds, model.NewFilterState(2014, 2014, nil))

			Convey("Then the result is empty, not an error", func() {
				So(subset, ShouldNotBeNil)
				So(subset, ShouldBeEmpty)
			})
		})
	})

	Convey("Given nested filters over a wider dataset", t, func() {
		ds := wider()
		countries := []string{"FRA", "GBR", "GRE", "NOR", "USA"}

		Convey("Then narrowing the year range never increases the row count", func() {
			prev := len(aggregate.Filter(ds, model.NewFilterState(1896, 2014, nil)))
			for lo, hi := 1896, 2014; lo <= hi; lo, hi = lo+4, hi-4 {
				n := len(aggregate.Filter(ds, model.NewFilterState(lo, hi, nil)))
				So(n, ShouldBeLessThanOrEqualTo, prev)
				prev = n
			}
		})

		Convey("Then shrinking the country set never increases the row count", func() {
			prev := len(aggregate.Filter(ds, model.NewFilterState(1896, 2014, countries)))
			for i := len(countries) - 1; i >= 1; i-- {
				n := len(aggregate.Filter(ds, model.NewFilterState(1896, 2014, countries[:i])))
				So(n, ShouldBeLessThanOrEqualTo, prev)
				prev = n
			}
		})
	})
}

func TestGenderTotals(t *testing.T) {
	Convey("Given the scenario subset", t, func() {
		c := aggregate.GenderTotals(scenario().Records())

		Convey("Then the pie counts are Men 2 and Women 1", func() {
			So(c.Men, ShouldEqual, 2)
			So(c.Women, ShouldEqual, 1)
			So(c.Total(), ShouldEqual, 3)
		})
	})
}

func TestSplitByGender(t *testing.T) {
	Convey("Given subsets with different gender mixes", t, func() {
		ds := wider()

		Convey("When both genders are present", func() {
			s := aggregate.SplitByGender(ds.Records(), aggregate.ByCountry)

			Convey("Then distinct counts are split per gender", func() {
				So(s.Kind(), ShouldEqual, aggregate.Both)
				So(s.Total(), ShouldEqual, 5)
				So(s.Men(), ShouldEqual, 3)   // GRE, FRA, USA
				So(s.Women(), ShouldEqual, 4) // FRA, GBR, USA, NOR
			})
		})

		Convey("When only men are present", func() {
			subset := aggregate.Filter(ds, model.NewFilterState(2012, 2012, nil))
			s := aggregate.SplitByGender(subset, aggregate.ByAthlete)

			Convey("Then women resolves to zero", func() {
				So(s.Kind(), ShouldEqual, aggregate.MenOnly)
				So(s.Men(), ShouldEqual, 1)
				So(s.Women(), ShouldEqual, 0)
				So(s.Total(), ShouldEqual, 1)
			})
		})

		Convey("When only women are present", func() {
			subset := aggregate.Filter(ds, model.NewFilterState(2014, 2014, nil))
			s := aggregate.SplitByGender(subset, aggregate.BySport)

			Convey("Then men resolves to zero", func() {
				So(s.Kind(), ShouldEqual, aggregate.WomenOnly)
				So(s.Men(), ShouldEqual, 0)
				So(s.Women(), ShouldEqual, 1)
			})
		})

		Convey("When the subset is empty", func() {
			s := aggregate.SplitByGender(nil, aggregate.ByCountry)

			Convey("Then every count is zero", func() {
				So(s.Kind(), ShouldEqual, aggregate.Neither)
				So(s.Kind().String(), ShouldEqual, "neither")
				So(s.Total(), ShouldEqual, 0)
				So(s.Men(), ShouldEqual, 0)
				So(s.Women(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given the key names", t, func() {
		So(aggregate.ByCountry.String(), ShouldEqual, "Country_Name")
		So(aggregate.ByAthlete.String(), ShouldEqual, "Athlete")
		So(aggregate.BySport.String(), ShouldEqual, "Sport")
	})
}

func TestCountsByYearAndGender(t *testing.T) {
	Convey("Given the scenario subset", t, func() {
		series := aggregate.CountsByYearAndGender(scenario().Records())

		Convey("Then there is one ascending entry per year and absent genders are zero", func() {
			So(series, ShouldResemble, []aggregate.YearGenderCount{
				{Year: 1900, Men: 1, Women: 1},
				{Year: 2012, Men: 1, Women: 0},
			})
		})
	})

	Convey("Given a women-only subset", t, func() {
		subset := aggregate.Filter(wider(), model.NewFilterState(2014, 2014, nil))
		series := aggregate.CountsByYearAndGender(subset)

		Convey("Then the men column is zero instead of failing", func() {
			So(series, ShouldResemble, []aggregate.YearGenderCount{{Year: 2014, Men: 0, Women: 1}})
		})
	})

	Convey("Given an empty subset", t, func() {
		So(aggregate.CountsByYearAndGender(nil), ShouldBeEmpty)
	})
}

func TestTopGroups(t *testing.T) {
	Convey("Given the wider dataset", t, func() {
		recs := wider().Records()

		Convey("When ranking countries", func() {
			top := aggregate.TopGroups(recs, aggregate.ByCountry, 3)

			Convey("Then the ranking is by total desc then name", func() {
				So(top, ShouldResemble, []aggregate.GroupCount{
					{Name: "USA", Men: 2, Women: 1},
					{Name: "FRA", Men: 1, Women: 1},
					{Name: "GBR", Men: 0, Women: 1},
				})
			})
		})

		Convey("When n is not positive", func() {
			So(len(aggregate.TopGroups(recs, aggregate.BySport, 0)), ShouldEqual, 4)
		})
	})
}
