package cli

import (
	"fmt"
	"os"

	"github.com/migmedia/zfs-snappers/pkg/color"
)

func fmtErr(format string, args ...any) {
	// Colorize the error prefix
	prefix := "zfs-snappers: "
	if color.Enabled() {
		prefix = color.Error("zfs-snappers:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
