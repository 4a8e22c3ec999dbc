package version

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/vres-cli/vres/filesystem"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"1.2.3", "1.2.3", 0},
			{"v1.2.4", "1.2.3", 1},
			{"1.1.9", "1.2.0", -1},
			{"2.0.0", "1.99.99", 1},
		}

		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		_, err := Compare("one", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release registry", t, func() {
		filesystem.SetMemMapFs()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			fmt.Fprint(w, `{"tag_name":"v9.8.7"}`)
		}))
		defer srv.Close()

		previous := ReleasesURL
		ReleasesURL = srv.URL
		defer func() { ReleasesURL = previous }()

		Convey("The tag is fetched once and then cached", func() {
			v, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.8.7")

			v, err = Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.8.7")
			So(hits.Load(), ShouldEqual, 1)
		})
	})
}
