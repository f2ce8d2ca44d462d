// Command bucket-collector downloads every object of a bucket to a local directory.
//
// Usage:
//
//	bucket-collector -bucket logs-2023 -dest /tmp/out
//	bucket-collector -list-buckets
//	bucket-collector -config collector.toml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/go-units"

	"github.com/input-output-hk/catalyst-forge-libs/collector"
	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
	"github.com/input-output-hk/catalyst-forge-libs/collector/config"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/collector/logging"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

type options struct {
	configPath  string
	bucket      string
	destination string
	listBuckets bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], billy.NewBaseOSFS(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, filesystem fs.Filesystem, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(filesystem, opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	bucket := opts.bucket
	if bucket == "" {
		bucket = cfg.Download.Bucket
	}
	if bucket == "" && !opts.listBuckets {
		fmt.Fprintln(stderr, "error: a bucket is required (-bucket or download.bucket)")
		return exitUsage
	}
	destination := opts.destination
	if destination == "" {
		destination = cfg.Download.Destination
	}

	logger := logging.New(&cfg.Logging, stderr)

	source, err := cfg.CredentialSource(ctx, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	clientOpts := append(cfg.Options(), collector.WithLogger(logger), collector.WithFilesystem(filesystem))
	client, err := collector.New(ctx, source, clientOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer client.Close()

	if opts.listBuckets {
		list := client.ListBuckets(ctx)
		fmt.Fprintln(stdout, list.Message())
		if !list.OK() {
			return exitError
		}
		return exitOK
	}

	outcome, err := client.DownloadFromBucket(ctx, bucket, destination)
	if reportErr := collector.Report(stdout, outcome); reportErr != nil {
		fmt.Fprintf(stderr, "error: %v\n", reportErr)
	}
	if outcome != nil && outcome.Kind == collectortypes.OutcomeDownloaded {
		fmt.Fprintf(stdout, "%d objects, %s written to %s\n",
			len(outcome.Keys),
			units.HumanSize(float64(outcome.Download.TotalBytes())),
			outcome.Download.Destination)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	flags := flag.NewFlagSet("bucket-collector", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.configPath, "config", "", "Path to the TOML configuration file (default "+config.DefaultConfigFile+" when present)")
	flags.StringVar(&opts.bucket, "bucket", "", "Bucket to download")
	flags.StringVar(&opts.destination, "dest", "", "Local destination directory (default \".\")")
	flags.BoolVar(&opts.listBuckets, "list-buckets", false, "Print the bucket names visible to the account and exit")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", flags.Args())
		flags.Usage()
		return nil, errUsage
	}
	return opts, nil
}

// loadConfig reads path, or collector.toml when path is empty and the file
// exists, and finalizes the result.
func loadConfig(filesystem fs.Filesystem, path string) (*config.Config, error) {
	cfg := &config.Config{}

	if path == "" {
		ok, err := filesystem.Exists(config.DefaultConfigFile)
		if err != nil {
			return nil, err
		}
		if ok {
			path = config.DefaultConfigFile
		}
	}

	if path != "" {
		loaded, err := config.Load(filesystem, path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
