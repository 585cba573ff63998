package allocator_test

import (
	"testing"

	"github.com/okian/rosterbias/internal/domain/allocator"
	"github.com/okian/rosterbias/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type skill string

func newAllocator(budget float64, opts ...allocator.Option[skill]) *allocator.Allocator[skill] {
	order := []skill{"a", "b", "c"}
	ranges := map[skill]model.IntRange{
		"a": {Min: 0, Max: 10},
		"b": {Min: 3, Max: 8},
		"c": {Min: 2, Max: 5},
	}
	opts = append(opts, allocator.WithBudget[skill](budget))
	return allocator.New(order, ranges, opts...)
}

func TestTryRaise(t *testing.T) {
	Convey("Given an allocator with a full budget", t, func() {
		a := newAllocator(7)

		Convey("When a zero-floor skill is raised to major", func() {
			ok := a.TryRaise("a", model.TierMajor)

			Convey("Then its floor jumps to its max and the cost is charged", func() {
				So(ok, ShouldBeTrue)
				So(a.Range("a"), ShouldResemble, model.IntRange{Min: 10, Max: 10})
				So(a.Tier("a"), ShouldEqual, model.TierMajor)
				So(a.PointsUsed(), ShouldEqual, 1.5)
			})
		})

		Convey("When a skill is raised to minor then major", func() {
			So(a.TryRaise("b", model.TierMinor), ShouldBeTrue)
			So(a.Range("b"), ShouldResemble, model.IntRange{Min: 4, Max: 8})
			So(a.TryRaise("b", model.TierMajor), ShouldBeTrue)

			Convey("Then only the difference is charged", func() {
				So(a.Range("b"), ShouldResemble, model.IntRange{Min: 6, Max: 8})
				So(a.PointsUsed(), ShouldEqual, 1.5)
			})

			Convey("Then raising to a lower tier is a free no-op", func() {
				So(a.TryRaise("b", model.TierMinor), ShouldBeTrue)
				So(a.Tier("b"), ShouldEqual, model.TierMajor)
				So(a.PointsUsed(), ShouldEqual, 1.5)
			})
		})

		Convey("When a skill is unknown", func() {
			Convey("Then it cannot be raised", func() {
				So(a.TryRaise("zzz", model.TierMinor), ShouldBeFalse)
			})
		})
	})

	Convey("Given an allocator with a disallowed skill", t, func() {
		a := newAllocator(7, allocator.WithDisallowed[skill]("c"))

		Convey("Then raising it fails without side effects", func() {
			before := a.Snapshot()
			So(a.TryRaise("c", model.TierMinor), ShouldBeFalse)
			So(a.Snapshot(), ShouldResemble, before)
		})
	})

	Convey("Given a tight budget", t, func() {
		a := newAllocator(2)
		So(a.TryRaise("a", model.TierMajor), ShouldBeTrue)

		Convey("When another raise does not fit", func() {
			before := a.Snapshot()
			ok := a.TryRaise("b", model.TierMinor)

			Convey("Then it fails and state is unchanged", func() {
				So(ok, ShouldBeFalse)
				So(a.Snapshot(), ShouldResemble, before)
			})
		})
	})
}

func TestBudgetNeverExceeded(t *testing.T) {
	Convey("Given many raise sequences under different budgets", t, func() {
		tiers := []model.Tier{model.TierMinor, model.TierMajor, model.TierNone}
		skills := []skill{"a", "b", "c", "a", "c", "b"}

		for _, budget := range []float64{0.5, 1, 1.5, 2.5, 3, 4.5, 7} {
			a := newAllocator(budget)
			for i, s := range skills {
				before := a.Snapshot()
				ok := a.TryRaise(s, tiers[i%len(tiers)])
				So(a.PointsUsed(), ShouldBeLessThanOrEqualTo, budget)
				if !ok {
					So(a.Snapshot(), ShouldResemble, before)
				}
			}
		}
	})
}

func TestMarkUsableAndLockIn(t *testing.T) {
	Convey("Given an allocator with a skill that cannot level", t, func() {
		a := allocator.New([]skill{"x", "y"}, map[skill]model.IntRange{
			"x": {Min: 0, Max: 0},
			"y": {Min: 0, Max: 6},
		})

		Convey("Then the zero skill is not usable", func() {
			So(a.MarkUsable("x"), ShouldBeFalse)
		})

		Convey("Then the other skill is usable with a floor of one", func() {
			So(a.MarkUsable("y"), ShouldBeTrue)
			So(a.Range("y"), ShouldResemble, model.IntRange{Min: 1, Max: 6})
			So(a.Tier("y"), ShouldEqual, model.TierNone)
			So(a.PointsUsed(), ShouldEqual, 0.0)
		})
	})

	Convey("Given a goal of one major, one minor and one usable", t, func() {
		goal := model.Goal{Major: 1, Minor: 1, Usable: 1}

		Convey("Then the implied tier follows the remaining count", func() {
			major := newAllocator(7)
			So(major.LockInRequirement("b", goal, 3), ShouldBeTrue)
			So(major.Tier("b"), ShouldEqual, model.TierMajor)

			minor := newAllocator(7)
			So(minor.LockInRequirement("b", goal, 2), ShouldBeTrue)
			So(minor.Tier("b"), ShouldEqual, model.TierMinor)

			usable := newAllocator(7)
			So(usable.LockInRequirement("b", goal, 1), ShouldBeTrue)
			So(usable.Tier("b"), ShouldEqual, model.TierNone)

			done := newAllocator(7)
			So(done.LockInRequirement("b", goal, 0), ShouldBeFalse)
		})
	})
}

func TestFinalize(t *testing.T) {
	Convey("Given a major skill and a higher ranged untiered skill", t, func() {
		order := []skill{"x", "y"}
		ranges := map[skill]model.IntRange{
			"x": {Min: 5, Max: 12},
			"y": {Min: 2, Max: 15},
		}

		Convey("When the budget covers a second major", func() {
			a := allocator.New(order, ranges)
			So(a.TryRaise("x", model.TierMajor), ShouldBeTrue)
			res := a.Finalize()

			Convey("Then the higher skill is pulled into the major set", func() {
				So(res.Exhausted, ShouldBeFalse)
				So(res.Skills["y"].Tier, ShouldEqual, model.TierMajor)
				So(res.Skills["y"].Range, ShouldResemble, model.IntRange{Min: 13, Max: 15})
				So(a.PointsUsed(), ShouldEqual, 3.0)
			})
		})

		Convey("When the budget is spent", func() {
			a := allocator.New(order, ranges, allocator.WithBudget[skill](1.5))
			So(a.TryRaise("x", model.TierMajor), ShouldBeTrue)
			res := a.Finalize()

			Convey("Then the lower skill is clipped under the major floor and exhaustion is reported", func() {
				So(res.Exhausted, ShouldBeTrue)
				So(res.Skills["x"].Range, ShouldResemble, model.IntRange{Min: 10, Max: 12})
				So(res.Skills["y"].Tier, ShouldEqual, model.TierNone)
				So(res.Skills["y"].Range, ShouldResemble, model.IntRange{Min: 2, Max: 9})
			})
		})
	})

	Convey("Given a forced-tier skill", t, func() {
		order := []skill{"x", "f"}
		ranges := map[skill]model.IntRange{
			"x": {Min: 4, Max: 8},
			"f": {Min: 1, Max: 3},
		}

		Convey("When another skill holds major", func() {
			a := allocator.New(order, ranges, allocator.WithForcedTier[skill]("f"))
			So(a.TryRaise("x", model.TierMajor), ShouldBeTrue)
			res := a.Finalize()

			Convey("Then the forced skill takes major without spending budget", func() {
				So(res.Skills["f"].Tier, ShouldEqual, model.TierMajor)
				So(a.PointsUsed(), ShouldEqual, 1.5)
			})
		})

		Convey("When nothing holds a tier", func() {
			a := allocator.New(order, ranges, allocator.WithForcedTier[skill]("f"))
			res := a.Finalize()

			Convey("Then the forced skill stays untiered", func() {
				So(res.Skills["f"].Tier, ShouldEqual, model.TierNone)
				So(res.Exhausted, ShouldBeFalse)
			})
		})
	})

	Convey("Given many raise patterns over integer skill ids", t, func() {
		order := []int{0, 1, 2, 3, 4}
		ranges := map[int]model.IntRange{
			0: {Min: 0, Max: 14},
			1: {Min: 3, Max: 9},
			2: {Min: 6, Max: 16},
			3: {Min: 0, Max: 2},
			4: {Min: 1, Max: 11},
		}
		tiers := []model.Tier{model.TierMajor, model.TierMinor, model.TierNone}

		for _, budget := range []float64{1, 2.5, 4, 7} {
			for first := range order {
				a := allocator.New(order, ranges, allocator.WithBudget[int](budget))
				for i := range order {
					a.TryRaise((first+i)%len(order), tiers[i%len(tiers)])
				}
				res := a.Finalize()
				So(a.PointsUsed(), ShouldBeLessThanOrEqualTo, budget)

				for _, hi := range order {
					for _, lo := range order {
						if res.Skills[hi].Tier <= res.Skills[lo].Tier || res.Exhausted {
							continue
						}
						So(res.Skills[lo].Range.Max, ShouldBeLessThanOrEqualTo, res.Skills[hi].Range.Min)
					}
				}
				for _, s := range order {
					So(res.Skills[s].Range.Valid(), ShouldBeTrue)
				}
			}
		}
	})
}

func TestPinned(t *testing.T) {
	Convey("Given a locked slot built from existing levels", t, func() {
		order := []skill{"a", "b", "c"}
		levels := map[skill]int{"a": 12, "b": 0, "c": 5}
		tiers := map[skill]model.Tier{"a": model.TierMajor, "c": model.TierMinor}
		a := allocator.NewPinned(order, levels, tiers)

		Convey("When it is finalized without requirements", func() {
			res := a.Finalize()

			Convey("Then every skill keeps its level and tier", func() {
				So(res.Exhausted, ShouldBeFalse)
				for _, s := range order {
					So(res.Skills[s].Range, ShouldResemble, model.Pinned(levels[s]))
					So(res.Skills[s].Tier, ShouldEqual, tiers[s])
				}
			})
		})

		Convey("Then it accepts only tiers it already holds", func() {
			So(a.Pinned(), ShouldBeTrue)
			So(a.TryRaise("a", model.TierMinor), ShouldBeTrue)
			So(a.TryRaise("c", model.TierMajor), ShouldBeFalse)
			So(a.MarkUsable("c"), ShouldBeTrue)
			So(a.MarkUsable("b"), ShouldBeFalse)
		})
	})
}
