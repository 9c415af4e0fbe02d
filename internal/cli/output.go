package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// stdout receives command summaries; log lines go to stderr
var stdout io.Writer = os.Stdout

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	labelColor = color.New(color.Bold)
)
