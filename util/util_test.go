package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "video", "videos"), ShouldEqual, "1 video")
		So(Quantify(2, "video", "videos"), ShouldEqual, "2 videos")
		So(Quantify(0, "video", "videos"), ShouldEqual, "0 videos")
	})
}

func TestMin(t *testing.T) {
	Convey("Min", t, func() {
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Min[int](), ShouldEqual, 0)
	})
}
