package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/adamwoolhether/resumer/client"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:      "resumer",
		Usage:     "resumable http downloader",
		UsageText: "resumer [--out path/file.bin] https://example.com/file.bin",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "downloaded file destination (default: derived from the URL)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "overall request timeout, 0 means none",
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Value: client.DefaultRetryDelay,
				Usage: "fixed pause before retries and resumes",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "cap on initial-send attempts, 0 means unbounded",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress progress logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cctx *cli.Context) error {
	rawURL := cctx.Args().First()
	if rawURL == "" {
		return errors.New("empty download url")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}

	dest := cctx.String("out")
	if dest == "" {
		dest = path.Base(reqURL.Path)
		if dest == "/" || dest == "." {
			dest = "download.bin"
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if cctx.Bool("quiet") {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithUserAgent("resumer/" + version),
		client.WithRetryDelay(cctx.Duration("retry-delay")),
	}
	if d := cctx.Duration("timeout"); d > 0 {
		opts = append(opts, client.WithTimeout(d))
	}
	if n := cctx.Int("max-attempts"); n > 0 {
		opts = append(opts, client.WithMaxAttempts(n))
	}

	c, err := client.Build(opts...)
	if err != nil {
		return err
	}

	var dlOpts []client.DownloadOption
	if !cctx.Bool("quiet") {
		dlOpts = append(dlOpts, client.WithProgress())
	}

	start := time.Now()
	if err := c.Download(cctx.Context, reqURL, dest, dlOpts...); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fi, err := os.Stat(dest)
	if err != nil {
		return err
	}

	rate := float64(fi.Size()) / elapsed.Seconds()
	fmt.Printf("Done! %s in %s (%s/s) -> %s\n",
		humanize.Bytes(uint64(fi.Size())),
		elapsed.Round(time.Millisecond),
		humanize.Bytes(uint64(rate)),
		dest,
	)

	return nil
}
