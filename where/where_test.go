package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vres-cli/vres/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			So(filepath.Dir(path), ShouldEqual, Config())
		})

		Convey("ConfigFile()", func() {
			So(filepath.Base(ConfigFile()), ShouldEqual, "vres.toml")
		})

		Convey("Config path override", func() {
			t.Setenv(EnvConfigPath, "/tmp/vres-test-config")
			So(Config(), ShouldEqual, "/tmp/vres-test-config")
		})
	})
}
