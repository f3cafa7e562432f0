package recommend_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/okian/barhop/internal/domain/geo"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/recommend"
	. "github.com/smartystreets/goconvey/convey"
)

var origin = model.Coordinate{Lat: 25.0418, Lng: 121.5436}

func bar(i int, metersNorth float64, style string, tier int, rating float64) model.Venue {
	return model.Venue{
		ID:          fmt.Sprintf("bar-%d", i),
		Name:        fmt.Sprintf("Bar %d", i),
		Location:    model.Coordinate{Lat: origin.Lat + metersNorth/geo.EarthRadiusMeters*180/math.Pi, Lng: origin.Lng},
		PriceTier:   tier,
		Rating:      rating,
		RatingCount: 50,
		Styles:      model.TagSet{style},
		Music:       model.TagSet{"Jazz"},
	}
}

func fixedID() string { return "itin-1" }

func TestEngine_Recommend(t *testing.T) {
	Convey("Given a table of twelve bars 400m apart", t, func() {
		var venues []model.Venue
		for i := 0; i < 12; i++ {
			style := "立飲酒吧"
			if i%3 == 0 {
				style = "餐酒館"
			}
			venues = append(venues, bar(i, float64(i)*400, style, 1+i%3, 3.5+float64(i%4)/2))
		}
		before := append([]model.Venue(nil), venues...)
		engine := recommend.NewEngine(recommend.WithIDGenerator(fixedID))
		prefs := model.Preferences{PricePoint: 500, Styles: model.TagSet{"餐酒館"}}

		Convey("When recommending with defaults", func() {
			it, err := engine.Recommend(venues, prefs)

			Convey("Then six distinct stops are returned", func() {
				So(err, ShouldBeNil)
				So(it.Stops, ShouldHaveLength, 6)
				seen := map[string]bool{}
				for _, s := range it.Stops {
					seen[s.Venue.ID] = true
					So(s.Score, ShouldBeBetweenOrEqual, 0, 1)
				}
				So(seen, ShouldHaveLength, 6)
			})

			Convey("And the walking metrics are consistent", func() {
				So(it.Legs, ShouldHaveLength, 5)
				sum := 0
				for _, leg := range it.Legs {
					sum += leg.WalkingMinutes
				}
				So(it.TotalWalkingMinutes, ShouldEqual, sum)
				So(it.OutingMinutes, ShouldEqual, sum+6*45)
			})

			Convey("And the metadata is filled in", func() {
				So(it.ID, ShouldEqual, "itin-1")
				So(it.Backfilled, ShouldEqual, 0)
				So(it.Preferences, ShouldResemble, prefs)
			})

			Convey("And the input table is untouched", func() {
				So(venues, ShouldResemble, before)
			})
		})

		Convey("When the request overrides count and speed", func() {
			it, err := engine.Recommend(venues, prefs, recommend.WithCount(2), recommend.WithWalkingSpeed(6))

			Convey("Then they are honoured", func() {
				So(err, ShouldBeNil)
				So(it.Stops, ShouldHaveLength, 2)
				So(it.Legs, ShouldHaveLength, 1)
			})
		})

		Convey("When the separation exceeds every gap", func() {
			it, err := engine.Recommend(venues, prefs, recommend.WithCount(3), recommend.WithMinSeparation(100000))

			Convey("Then the shortlist is backfilled", func() {
				So(err, ShouldBeNil)
				So(it.Stops, ShouldHaveLength, 3)
				So(it.Backfilled, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an empty table", t, func() {
		it, err := recommend.NewEngine().Recommend(nil, model.Preferences{})

		Convey("Then the itinerary is empty without error", func() {
			So(err, ShouldBeNil)
			So(it.Stops, ShouldBeEmpty)
			So(it.Legs, ShouldBeEmpty)
			So(it.TotalDistanceMeters, ShouldEqual, 0.0)
			So(it.OutingMinutes, ShouldEqual, 0)
		})
	})

	Convey("Given a single venue", t, func() {
		it, err := recommend.NewEngine().Recommend([]model.Venue{bar(0, 0, "餐酒館", 2, 4)}, model.Preferences{})

		Convey("Then the outing is one dwell with no legs", func() {
			So(err, ShouldBeNil)
			So(it.Legs, ShouldBeEmpty)
			So(it.OutingMinutes, ShouldEqual, 45)
		})
	})
}

func TestEngine_InvalidInput(t *testing.T) {
	Convey("Given an engine", t, func() {
		engine := recommend.NewEngine(recommend.WithMaxCount(10))
		venues := []model.Venue{bar(0, 0, "餐酒館", 2, 4)}

		Convey("When a venue has an invalid coordinate", func() {
			bad := append([]model.Venue(nil), venues...)
			bad = append(bad, model.Venue{ID: "broken", Location: model.Coordinate{Lat: 120, Lng: 0}})
			_, err := engine.Recommend(bad, model.Preferences{})

			Convey("Then ErrInvalidInput is returned", func() {
				So(errors.Is(err, recommend.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When request options are out of range", func() {
			cases := []recommend.RequestOption{
				recommend.WithCount(0),
				recommend.WithCount(11),
				recommend.WithMinSeparation(-1),
				recommend.WithWalkingSpeed(0),
				recommend.WithWalkingSpeed(math.NaN()),
			}

			Convey("Then each is rejected", func() {
				for _, opt := range cases {
					_, err := engine.Recommend(venues, model.Preferences{}, opt)
					So(errors.Is(err, recommend.ErrInvalidInput), ShouldBeTrue)
				}
			})
		})
	})
}

func TestEngine_Options(t *testing.T) {
	Convey("Given an engine with a custom dwell time", t, func() {
		engine := recommend.NewEngine(recommend.WithDwellMinutes(30), recommend.WithDefaults(1, 0, 4.5))

		Convey("Then the defaults and dwell apply", func() {
			it, err := engine.Recommend([]model.Venue{bar(0, 0, "餐酒館", 2, 4), bar(1, 1000, "餐酒館", 2, 3)}, model.Preferences{})
			So(err, ShouldBeNil)
			So(it.Stops, ShouldHaveLength, 1)
			So(it.OutingMinutes, ShouldEqual, 30)
			So(engine.Scorer(), ShouldNotBeNil)
		})
	})
}
