package estimator_test

import (
	"testing"

	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/estimator"
	"github.com/okian/rosterbias/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func cookBackground() model.LifeStageBackground {
	return model.LifeStageBackground{
		Childhood: &model.Backstory{ID: "kitchen", Stage: model.StageChildhood, SkillBonuses: map[model.SkillID]int{"cooking": 4, "social": -2}},
		Adulthood: &model.Backstory{ID: "cook", Stage: model.StageAdulthood, SkillBonuses: map[model.SkillID]int{"cooking": 6}},
	}
}

func TestLevel(t *testing.T) {
	cooking := model.Skill{ID: "cooking", TypicallyFromBackground: true}
	social := model.Skill{ID: "social", TypicallyFromBackground: true}
	artistic := model.Skill{ID: "artistic"}

	Convey("Given a background with cooking bonuses", t, func() {
		bg := cookBackground()

		Convey("When the pawn is young", func() {
			Convey("Then the floor is the raw bonus and the ceiling is damped", func() {
				So(estimator.Level(bg, 20, cooking, 0), ShouldEqual, 10)
				// (3.92 + 10*1.392) = 17.84 -> 10 + 7.84*0.6 = 14.704
				So(estimator.Level(bg, 20, cooking, 0.98), ShouldEqual, 15)
			})
		})

		Convey("When the pawn is old", func() {
			Convey("Then the age factor pushes the ceiling to the cap", func() {
				So(estimator.Level(bg, 60, cooking, 0), ShouldEqual, 10)
				So(estimator.Level(bg, 60, cooking, 0.98), ShouldEqual, 20)
			})
		})

		Convey("When the bonus is negative", func() {
			Convey("Then the level never drops below zero", func() {
				So(estimator.Level(bg, 30, social, 0), ShouldEqual, 0)
				So(estimator.Level(bg, 30, social, 0.98), ShouldEqual, 2)
			})
		})

		Convey("When the skill is not background-typical", func() {
			Convey("Then the weighted base curve applies", func() {
				So(estimator.Level(bg, 20, artistic, 0), ShouldEqual, 0)
				So(estimator.Level(bg, 20, artistic, 0.98), ShouldEqual, 10)
			})
		})
	})
}

func TestEstimate(t *testing.T) {
	Convey("Given an estimator", t, func() {
		e := estimator.New(estimator.WithCacheSize(16))
		bg := cookBackground()
		cooking := model.Skill{ID: "cooking", TypicallyFromBackground: true}

		Convey("When estimating twice", func() {
			first := e.Estimate(bg, 25, cooking)
			second := e.Estimate(bg, 25, cooking)

			Convey("Then the memoized result matches", func() {
				So(first, ShouldResemble, model.IntRange{Min: 10, Max: 15})
				So(second, ShouldResemble, first)
			})
		})

		Convey("When caching is disabled", func() {
			uncached := estimator.New(estimator.WithCacheSize(0))

			Convey("Then results are still computed", func() {
				So(uncached.Estimate(bg, 25, cooking), ShouldResemble, model.IntRange{Min: 10, Max: 15})
			})
		})
	})
}

func TestEstimateRangeIsOrdered(t *testing.T) {
	Convey("Given every background in the default catalog", t, func() {
		c, err := catalog.Default()
		So(err, ShouldBeNil)
		e := estimator.New()

		var backgrounds []model.LifeStageBackground
		for _, child := range c.Childhoods(nil) {
			for _, adult := range c.Adulthoods(nil) {
				backgrounds = append(backgrounds, model.LifeStageBackground{Childhood: child, Adulthood: adult})
			}
		}
		for _, bio := range c.Biographies(model.GenderEither) {
			backgrounds = append(backgrounds, model.FromBiography(bio))
		}

		Convey("Then min never exceeds max for any age or skill", func() {
			for _, bg := range backgrounds {
				for age := 0.0; age <= 90; age += 7.5 {
					for _, skill := range c.Skills() {
						r := e.Estimate(bg, age, skill)
						So(r.Min, ShouldBeLessThanOrEqualTo, r.Max)
						So(r.Min, ShouldBeGreaterThanOrEqualTo, 0)
						So(r.Max, ShouldBeLessThanOrEqualTo, 20)
					}
				}
			}
		})
	})
}
