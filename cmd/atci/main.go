package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/atci/internal/config"
)

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, configPath string, args []string) error
}

func commandTable() []command {
	return []command{
		{"init", "init [flags]", "write a configuration file", runInit},
		{"watch", "watch [-force] [-no-http]", "scan watch roots, process the queue and serve the HTTP API", runWatch},
		{"enqueue", "enqueue <video>...", "append videos to the queue", runEnqueue},
		{"status", "status", "show the queue and the video in flight", runStatus},
		{"cancel", "cancel", "abort the video in flight", runCancel},
		{"block", "block <video>...", "never enqueue these videos", runBlock},
		{"rebuild", "rebuild", "rescan watch roots into the catalog", runRebuild},
		{"list", "list [-filter a,b] [-page n] [-limit n] [-sort col] [-desc]", "list catalogued videos", runList},
		{"search", "search [-filter a,b] <query>", "search transcripts", runSearch},
		{"summarize", "summarize [-docx] [video]", "write Gemini summaries next to transcripts", runSummarize},
		{"clip", "clip [-o dir] <video> <start> <end>", "cut a clip", runClip},
		{"frame", "frame [-o file] <video> <time>", "grab one frame", runFrame},
		{"record", "record <url> <dir>", "record a live stream into segments", runRecord},
	}
}

func main() {
	configPath := flag.String("config", "", "configuration file (default $"+config.EnvConfigPath+" or the user config dir)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	name := flag.Arg(0)
	for _, c := range commandTable() {
		if c.name != name {
			continue
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := c.run(ctx, *configPath, flag.Args()[1:])
		stop()

		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				os.Exit(2)
			}
			fmt.Fprintf(os.Stderr, "atci %s: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "atci: unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: atci [-config path] <command> [args]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commandTable() {
		fmt.Fprintf(os.Stderr, "  %-60s %s\n", c.usage, c.summary)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("atci "+name, flag.ContinueOnError)
	for _, c := range commandTable() {
		if c.name == name {
			fs.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: atci %s\n", c.usage)
				fs.PrintDefaults()
			}
		}
	}
	return fs
}
