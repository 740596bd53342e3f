package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/loom"
)

func demoCmd(opts *globalOptions) *cobra.Command {
	var (
		clicks  int
		pretty  bool
		markers bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the counter demo headless",
		Long: `Render the counter demo into an in-memory document, click the
counter the requested number of times and print the resulting HTML.

Examples:
  loom demo
  loom demo --clicks=3 --pretty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			s, err := newDemoSession(cfg, cmd)
			if err != nil {
				return err
			}
			if err := s.Click(clicks); err != nil {
				return err
			}
			html, err := s.HTML(dom.RenderOptions{Pretty: pretty, EventMarkers: markers, IDs: markers})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), html)
			if !pretty {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&clicks, "clicks", "n", 0, "Number of clicks on the counter")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the HTML")
	cmd.Flags().BoolVar(&markers, "markers", false, "Include node ids and event markers")

	return cmd
}

// newDemoSession runs the demo on a plain document, logging to stderr.
func newDemoSession(cfg *config.Config, cmd *cobra.Command) (*demo.Session, error) {
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log)
	return demo.NewSession(dom.NewDocument(), nil,
		loom.WithLogger(logger),
		loom.WithYieldThreshold(cfg.Scheduler.YieldThreshold.Std()),
	)
}
