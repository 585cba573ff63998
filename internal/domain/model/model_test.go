package model_test

import (
	"errors"
	"testing"

	"github.com/okian/rosterbias/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIntRange(t *testing.T) {
	Convey("Given integer ranges", t, func() {
		Convey("When constructing an inverted range", func() {
			_, err := model.NewIntRange(5, 2)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, model.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When taking percentiles", func() {
			r := model.IntRange{Min: 1, Max: 4}

			Convey("Then endpoints map to min and max", func() {
				So(r.Percentile(0), ShouldEqual, 1)
				So(r.Percentile(1), ShouldEqual, 4)
			})

			Convey("And halves round away from zero", func() {
				So(r.Percentile(0.5), ShouldEqual, 3)
				So(model.IntRange{Min: -4, Max: -1}.Percentile(0.5), ShouldEqual, -3)
			})
		})
	})
}

func TestSpan(t *testing.T) {
	Convey("Given several skill ranges", t, func() {
		ranges := []model.IntRange{{Min: 4, Max: 9}, {Min: 2, Max: 6}, {Min: 7, Max: 12}}

		Convey("When aggregating them", func() {
			span := model.Span(ranges...)

			Convey("Then the minimum is the smallest min and the maximum is the largest max", func() {
				So(span, ShouldResemble, model.IntRange{Min: 2, Max: 12})
			})
		})

		Convey("When aggregating nothing", func() {
			So(model.Span(), ShouldResemble, model.IntRange{})
		})
	})
}

func TestGoalTierFor(t *testing.T) {
	Convey("Given a goal of one major, two minor and one usable", t, func() {
		g := model.Goal{Major: 1, Minor: 2, Usable: 1}

		Convey("Then tiers are consumed in major, minor, usable order", func() {
			tier, ok := g.TierFor(0)
			So(ok, ShouldBeTrue)
			So(tier, ShouldEqual, model.TierMajor)

			tier, ok = g.TierFor(2)
			So(ok, ShouldBeTrue)
			So(tier, ShouldEqual, model.TierMinor)

			tier, ok = g.TierFor(3)
			So(ok, ShouldBeTrue)
			So(tier, ShouldEqual, model.TierNone)

			_, ok = g.TierFor(4)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestTier(t *testing.T) {
	Convey("Given proficiency tiers", t, func() {
		So(model.TierNone.Cost(), ShouldEqual, 0)
		So(model.TierMinor.Cost(), ShouldEqual, 1.0)
		So(model.TierMajor.Cost(), ShouldEqual, 1.5)

		Convey("When parsing names", func() {
			tier, err := model.ParseTier("Major")
			So(err, ShouldBeNil)
			So(tier, ShouldEqual, model.TierMajor)

			_, err = model.ParseTier("legendary")
			So(errors.Is(err, model.ErrUnknownTier), ShouldBeTrue)
		})
	})
}

func TestLifeStageBackground(t *testing.T) {
	Convey("Given a synthesized background", t, func() {
		child := &model.Backstory{
			ID:           "c1",
			Stage:        model.StageChildhood,
			SkillBonuses: map[model.SkillID]int{"cooking": 2},
			DisabledWork: model.WorkTags{"violent"},
			Categories:   []string{"Civil"},
		}
		adult := &model.Backstory{
			ID:           "a1",
			Stage:        model.StageAdulthood,
			SkillBonuses: map[model.SkillID]int{"cooking": 3, "melee": -2},
			Categories:   []string{"Civil", "Offworld"},
		}
		bg := model.LifeStageBackground{Childhood: child, Adulthood: adult}

		Convey("Then bonuses and tags combine across stages", func() {
			So(bg.Key(), ShouldEqual, "c1/a1")
			So(bg.SkillBonus("cooking"), ShouldEqual, 5)
			So(bg.SkillBonus("melee"), ShouldEqual, -2)
			So(bg.Disables(model.Skill{ID: "shooting", DisablingWork: model.WorkTags{"violent"}}), ShouldBeTrue)
			So(bg.Categories(), ShouldResemble, []string{"Civil", "Offworld"})
		})
	})
}
