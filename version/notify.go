package version

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/vres-cli/vres/color"
	"github.com/vres-cli/vres/constant"
	"github.com/vres-cli/vres/icon"
	"github.com/vres-cli/vres/key"
	"github.com/vres-cli/vres/style"
	"github.com/vres-cli/vres/util"
)

// Notify prints a notice to stderr if a more recent stable version is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Fprintf(os.Stderr, `
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/vres-cli/vres/releases/tag/v"+version),
	)
}
