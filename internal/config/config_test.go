package config_test

import (
	"errors"
	"testing"

	"github.com/okian/rosterbias/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PointsBudget, convey.ShouldEqual, 7.0)
			convey.So(cfg.VariationMin, convey.ShouldEqual, 1.0)
			convey.So(cfg.VariationMax, convey.ShouldEqual, 5.0)
			convey.So(cfg.AgeMin, convey.ShouldEqual, 20.0)
			convey.So(cfg.AgeMax, convey.ShouldEqual, 65.0)
			convey.So(cfg.ResultStoreSize, convey.ShouldEqual, 256)
			convey.So(cfg.CatalogPath, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given configs with bad ranges", t, func() {
		inverted := config.New()
		inverted.VariationMin = 6

		ages := config.New()
		ages.AgeMin, ages.AgeMax = 70, 30

		budget := config.New()
		budget.PointsBudget = 0

		convey.Convey("Then validation reports invalid config", func() {
			for _, c := range []*config.Config{inverted, ages, budget} {
				convey.So(errors.Is(c.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			}
		})
	})
}
