package config

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	convey.Convey("Config Setup", t, func() {
		convey.Convey("Should initialize without error", func() {
			convey.So(Setup(), convey.ShouldBeNil)
		})

		convey.Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				convey.So(viper.Get(name), convey.ShouldNotBeNil)
			}
			convey.So(viper.GetInt(key.ResolverTimeout), convey.ShouldEqual, 15)
			convey.So(viper.GetString(key.VideaBaseURL), convey.ShouldEqual, "https://videa.hu")
		})

		convey.Convey("EnvKeyReplacer should convert dots to underscores", func() {
			convey.So(EnvKeyReplacer.Replace("resolver.rate_limit"), convey.ShouldEqual, "resolver_rate_limit")
		})
	})
}

func TestField(t *testing.T) {
	convey.Convey("Given a registered field", t, func() {
		field := Default[key.ResolverTimeout]

		convey.Convey("Env should carry the application prefix", func() {
			convey.So(field.Env(), convey.ShouldEqual, "VRES_RESOLVER_TIMEOUT")
		})

		convey.Convey("JSON should expose the value type", func() {
			data, err := field.MarshalJSON()
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, `"type":"int"`)
		})
	})
}
