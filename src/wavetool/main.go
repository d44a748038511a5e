package main

import (
	"log"

	"github.com/alecthomas/kong"
)

// CLI defines the command-line interface.
type CLI struct {
	Analyze AnalyzeCmd `cmd:"" help:"Analyze recordings into section files."`
	Render  RenderCmd  `cmd:"" help:"Render a note from a section file into a WAV file."`
}

func main() {
	log.SetFlags(log.Lshortfile)
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("wavetool"),
		kong.Description("Offline wavetable analysis and rendering"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
