package handlers

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/iotflow/internal/provisioning"
)

// Log formats accepted by --log-format.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// isInteractiveTTY reports whether stdout is a terminal.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// newObserver returns the run observer for format. Auto selects text on a
// terminal and JSON otherwise.
func newObserver(format string, w io.Writer) (provisioning.Observer, error) {
	if format == "" || format == LogFormatAuto {
		format = LogFormatJSON
		if isInteractiveTTY() {
			format = LogFormatText
		}
	}

	switch format {
	case LogFormatText:
		log.SetOutput(w)
		return provisioning.NewConsoleObserver(), nil
	case LogFormatJSON:
		logger := funcr.NewJSON(func(obj string) {
			fmt.Fprintln(w, obj)
		}, funcr.Options{LogTimestamp: true})
		return provisioning.NewLogrObserver(logger.WithName("iotflow")), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (use %s, %s or %s)", format, LogFormatAuto, LogFormatText, LogFormatJSON)
	}
}
