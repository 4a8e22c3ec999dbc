package icon

import (
	"testing"

	"github.com/vres-cli/vres/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Success

		Convey("It renders correctly for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					result := Get(target)
					So(result, ShouldNotBeEmpty)
				})
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			result := Get(target)
			So(result, ShouldBeEmpty)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given every registered icon", t, func() {
		Convey("Each variant is defined", func() {
			for i := Success; i <= Extractor; i++ {
				def, ok := icons[i]
				So(ok, ShouldBeTrue)
				So(def.emoji, ShouldNotBeEmpty)
				So(def.nerd, ShouldNotBeEmpty)
				So(def.plain, ShouldNotBeEmpty)
				So(def.kaomoji, ShouldNotBeEmpty)
				So(def.squares, ShouldNotBeEmpty)
			}
		})
	})
}
