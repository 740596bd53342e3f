package main

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/snapshot"
)

func snapshotCmd(opts *globalOptions) *cobra.Command {
	var (
		clicks   int
		pretty   bool
		region   string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "snapshot [target]",
		Short: "Store a rendered snapshot of the demo",
		Long: `Render the counter demo after the given number of clicks and store
the HTML in a file, a bbolt database or an S3 object.

The target defaults to snapshot.target from the config file. S3
credentials come from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  loom snapshot out/counter.html
  loom snapshot 'bolt:snapshots.db#counter' --clicks=2
  loom snapshot s3://my-bucket/snapshots/counter.html --region=eu-west-1
  loom snapshot s3://local/counter.html --endpoint=http://localhost:9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Snapshot.Target = args[0]
			}
			if region != "" {
				cfg.Snapshot.Region = region
			}
			if endpoint != "" {
				cfg.Snapshot.Endpoint = endpoint
			}
			if pretty {
				cfg.Snapshot.Pretty = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runSnapshot(cmd, cfg, clicks)
		},
	}

	cmd.Flags().IntVarP(&clicks, "clicks", "n", 0, "Number of clicks on the counter before rendering")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the HTML")
	cmd.Flags().StringVar(&region, "region", "", "AWS region for s3 targets")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3 endpoint override")

	return cmd
}

func runSnapshot(cmd *cobra.Command, cfg *config.Config, clicks int) error {
	target := cfg.Snapshot.Target
	var client snapshot.PutObjectAPI
	if strings.HasPrefix(target, "s3://") {
		client = snapshot.NewS3Client(snapshot.S3Config{
			Region:   cfg.Snapshot.Region,
			Endpoint: cfg.Snapshot.Endpoint,
		})
	}
	store, key, err := snapshot.Open(target, client)
	if err != nil {
		le := errors.New("L061").Wrap(err)
		if stderrors.Is(err, snapshot.ErrInvalidKey) {
			le = le.WithDetailf("Cannot use %q as a snapshot target.", target)
		}
		return le
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	s, err := newDemoSession(cfg, cmd)
	if err != nil {
		return err
	}
	if err := s.Click(clicks); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts := dom.RenderOptions{Pretty: cfg.Snapshot.Pretty}
	if err := snapshot.Write(ctx, store, key, s.Root, opts); err != nil {
		return errors.New("L060").WithDetailf("Target %s", target).Wrap(err)
	}

	success(cmd.OutOrStdout(), "Snapshot stored at %s", target)
	return nil
}
