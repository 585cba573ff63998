package dto_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/rosterbias/internal/adapters/dto"
	"github.com/okian/rosterbias/internal/adapters/repository"
	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/internal/domain/selector"
	"github.com/okian/rosterbias/internal/domain/solver"
	. "github.com/smartystreets/goconvey/convey"
)

const solveYAML = `
categories: [Offworld]
variation: {min: 1, max: 2}
requirements:
  - {skill: cooking, major: 1, minor: 1}
slots:
  - index: 0
    age: 30
    gender: male
    disallowed: [mining]
  - index: 1
    locked: true
    childhood: farm_kid
    adulthood: rancher
    levels: {animals: 12}
    tiers: {animals: major}
`

func defaultCatalog() *catalog.Catalog {
	cat, err := catalog.Default()
	if err != nil {
		panic(err)
	}
	return cat
}

func TestSolveRequest(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		cat := defaultCatalog()

		Convey("A YAML request converts to a team request", func() {
			req, err := dto.DecodeSolveRequest([]byte(solveYAML))
			So(err, ShouldBeNil)

			team, err := req.ToDomain(cat)
			So(err, ShouldBeNil)
			So(team.Categories, ShouldResemble, []string{"Offworld"})
			So(team.Variation, ShouldResemble, model.FloatRange{Min: 1, Max: 2})
			So(team.Requirements, ShouldHaveLength, 1)
			So(team.Requirements[0].Skill, ShouldEqual, model.SkillID("cooking"))
			So(team.Requirements[0].Major, ShouldEqual, 1)
			So(team.Requirements[0].Minor, ShouldEqual, 1)

			So(team.Slots, ShouldHaveLength, 2)
			open := team.Slots[0]
			So(open.Gender, ShouldEqual, model.GenderMale)
			So(open.Age, ShouldEqual, 30.0)
			So(open.Disallowed, ShouldResemble, []model.SkillID{"mining"})

			locked := team.Slots[1]
			So(locked.Locked, ShouldBeTrue)
			So(locked.Background.Key(), ShouldEqual, "farm_kid/rancher")
			So(locked.Levels[model.SkillID("animals")], ShouldEqual, 12)
			So(locked.Tiers[model.SkillID("animals")], ShouldEqual, model.TierMajor)
		})

		Convey("JSON documents decode as well", func() {
			req, err := dto.DecodeSolveRequest([]byte(`{"slots":[{"index":3,"locked":true,"biography":"marco_lind"}]}`))
			So(err, ShouldBeNil)

			team, err := req.ToDomain(cat)
			So(err, ShouldBeNil)
			So(team.Slots[0].Index, ShouldEqual, 3)
			So(team.Slots[0].Background.Key(), ShouldEqual, "bio:marco_lind")
		})

		Convey("Malformed documents are rejected", func() {
			_, err := dto.DecodeSolveRequest([]byte("slots: [unclosed"))
			So(errors.Is(err, dto.ErrInvalidPayload), ShouldBeTrue)
		})

		Convey("Unknown references are rejected", func() {
			cases := []dto.SolveRequest{
				{Requirements: []dto.RequirementDTO{{Skill: "juggling", Major: 1}}},
				{Slots: []dto.SlotDTO{{Disallowed: []string{"juggling"}}}},
				{Slots: []dto.SlotDTO{{Locked: true, Biography: "nobody"}}},
				{Slots: []dto.SlotDTO{{Locked: true, Childhood: "nowhere"}}},
				{Slots: []dto.SlotDTO{{Locked: true, Childhood: "farm_kid", Levels: map[string]int{"juggling": 3}}}},
			}
			for _, req := range cases {
				_, err := req.ToDomain(cat)
				So(errors.Is(err, dto.ErrUnknownRef), ShouldBeTrue)
			}
		})

		Convey("Invalid values are rejected", func() {
			cases := []dto.SolveRequest{
				{Variation: &dto.RangeDTO{Min: 3, Max: 1}},
				{Slots: []dto.SlotDTO{{Gender: "robot"}}},
				{Slots: []dto.SlotDTO{{Locked: true, Childhood: "farm_kid", Tiers: map[string]string{"animals": "legendary"}}}},
			}
			for _, req := range cases {
				_, err := req.ToDomain(cat)
				So(errors.Is(err, dto.ErrInvalidPayload), ShouldBeTrue)
			}
		})
	})
}

func TestAssignRequest(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		cat := defaultCatalog()

		Convey("Category weights alone select category scoring", func() {
			req := dto.AssignRequest{Gender: "female", CategoryWeights: map[string]float64{"Offworld": 1}}
			out, scorer, err := req.ToDomain(cat)
			So(err, ShouldBeNil)
			So(out.Gender, ShouldEqual, model.GenderFemale)
			So(scorer, ShouldHaveSameTypeAs, selector.FixedCategoryWeighting{})
		})

		Convey("Skill weights build a sorted trait and skill scorer", func() {
			req := dto.AssignRequest{
				Exclude:      []string{"wunderkind"},
				SkillWeights: map[string]float64{"medicine": 2, "cooking": 1},
				TraitWeights: map[string]float64{"too_smart": -1},
			}
			out, scorer, err := req.ToDomain(cat)
			So(err, ShouldBeNil)
			So(out.Exclude, ShouldResemble, []string{"wunderkind"})

			weighting, ok := scorer.(selector.TraitAndSkillWeighting)
			So(ok, ShouldBeTrue)
			So(weighting.SkillWeights, ShouldResemble, []selector.SkillWeight{
				{Skill: "cooking", Weight: 1},
				{Skill: "medicine", Weight: 2},
			})
			So(weighting.TraitWeights, ShouldResemble, []selector.TraitWeight{{Trait: "too_smart", Weight: -1}})
		})

		Convey("Unknown weighted skills are rejected", func() {
			req := dto.AssignRequest{SkillWeights: map[string]float64{"juggling": 1}}
			_, _, err := req.ToDomain(cat)
			So(errors.Is(err, dto.ErrUnknownRef), ShouldBeTrue)
		})
	})
}

func TestFromRecord(t *testing.T) {
	Convey("Given a stored team result", t, func() {
		cat := defaultCatalog()
		bio, _ := cat.Biography("marco_lind")
		res := &solver.TeamResult{
			Slots: map[int]*solver.SlotResult{
				2: {
					Index:      2,
					Age:        31,
					Background: model.FromBiography(bio),
					Skills: map[model.SkillID]model.SkillOutcome{
						"medicine": {Range: model.IntRange{Min: 1, Max: 4}, Tier: model.TierNone},
						"cooking":  {Range: model.IntRange{Min: 12, Max: 16}, Tier: model.TierMajor},
					},
					PointsUsed: 1.5,
				},
				0: {Index: 0, Age: 25, Skills: map[model.SkillID]model.SkillOutcome{}},
				1: nil,
			},
			Unmet:    []solver.RequirementShortfall{{Skill: "mining", Remaining: 2}},
			Failures: []solver.SlotFailure{{Index: 1, Err: errors.New("no background")}},
		}
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		rec := repository.Record{ID: "abc", CreatedAt: created, Duration: 1500 * time.Microsecond, Seed: 9, Result: res}

		Convey("The response orders slots and skills", func() {
			out := dto.FromRecord(rec, cat)
			So(out.ID, ShouldEqual, "abc")
			So(out.CreatedAt.Equal(created), ShouldBeTrue)
			So(out.DurationMS, ShouldEqual, 1.5)
			So(out.Seed, ShouldEqual, int64(9))

			So(out.Slots, ShouldHaveLength, 2)
			So(out.Slots[0].Index, ShouldEqual, 0)
			So(out.Slots[1].Index, ShouldEqual, 2)
			So(out.Slots[1].Background.Biography, ShouldEqual, "marco_lind")
			So(out.Slots[1].Background.Key, ShouldEqual, "bio:marco_lind")
			So(out.Slots[1].Skills, ShouldResemble, []dto.SkillDTO{
				{Skill: "cooking", Min: 12, Max: 16, Tier: "major"},
				{Skill: "medicine", Min: 1, Max: 4, Tier: "none"},
			})
			So(out.Unmet, ShouldResemble, []dto.ShortfallDTO{{Skill: "mining", Remaining: 2}})
			So(out.Failures, ShouldResemble, []dto.FailureDTO{{Index: 1, Error: "no background"}})
		})

		Convey("A nil result yields an empty slot list", func() {
			out := dto.FromTeamResult(nil, cat)
			So(out.Slots, ShouldBeEmpty)
		})
	})
}
