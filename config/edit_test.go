package config

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/key"
	"github.com/vres-cli/vres/where"
)

func TestLookup(t *testing.T) {
	convey.Convey("Lookup", t, func() {
		convey.Convey("Should return registered fields", func() {
			field, err := Lookup(key.ResolverTimeout)
			convey.So(err, convey.ShouldBeNil)
			convey.So(field.Value, convey.ShouldEqual, 15)
		})

		convey.Convey("Should suggest the closest key for typos", func() {
			_, err := Lookup("resolver.timeot")
			convey.So(errors.Is(err, ErrUnknownKey), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, key.ResolverTimeout)
		})
	})
}

func TestFieldParse(t *testing.T) {
	convey.Convey("Given fields of every type", t, func() {
		convey.Convey("Integers are converted", func() {
			field := Default[key.ResolverTimeout]
			v, err := field.Parse([]string{"30"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, 30)

			_, err = field.Parse([]string{"soon"})
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Booleans are converted", func() {
			field := Default[key.ResolverTLSFingerprint]
			v, err := field.Parse([]string{"true"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, true)

			_, err = field.Parse([]string{"maybe"})
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Strings keep the first value", func() {
			field := Default[key.VideaBaseURL]
			v, err := field.Parse([]string{"https://videa.example", "ignored"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, "https://videa.example")
		})

		convey.Convey("A missing value is an error", func() {
			field := Default[key.LogsLevel]
			_, err := field.Parse(nil)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestSetAndReset(t *testing.T) {
	convey.Convey("Given an empty config directory", t, func() {
		filesystem.SetMemMapFs()
		convey.So(Setup(), convey.ShouldBeNil)

		convey.Convey("Set should store the value and create the config file", func() {
			convey.So(Set(key.ResolverConcurrency, 8), convey.ShouldBeNil)
			convey.So(viper.GetInt(key.ResolverConcurrency), convey.ShouldEqual, 8)

			data, err := filesystem.API().ReadFile(where.ConfigFile())
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, "concurrency")

			convey.Convey("Reset should restore the default", func() {
				convey.So(Reset(key.ResolverConcurrency), convey.ShouldBeNil)
				convey.So(viper.GetInt(key.ResolverConcurrency), convey.ShouldEqual, 4)
			})
		})

		convey.Convey("Unknown keys are rejected", func() {
			convey.So(errors.Is(Set("resolver.nope", 1), ErrUnknownKey), convey.ShouldBeTrue)
			convey.So(errors.Is(Reset("resolver.nope"), ErrUnknownKey), convey.ShouldBeTrue)
		})

		convey.Convey("Reset without keys restores everything", func() {
			viper.Set(key.LogsLevel, "trace")
			convey.So(Reset(), convey.ShouldBeNil)
			convey.So(viper.GetString(key.LogsLevel), convey.ShouldEqual, "info")
		})
	})
}
