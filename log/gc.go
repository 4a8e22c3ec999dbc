package log

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/where"
)

// Retention is how long daily log files are kept.
const Retention = 7 * 24 * time.Hour

// CollectGarbage removes log files older than Retention.
func CollectGarbage() {
	collectGarbage(where.Logs(), time.Now())
}

func collectGarbage(dir string, now time.Time) {
	fs := filesystem.API()
	_ = fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != ".log" {
			return nil
		}
		if now.Sub(info.ModTime()) > Retention {
			_ = fs.Remove(path)
		}
		return nil
	})
}

