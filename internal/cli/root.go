// Package cli implements the mfsm command line tool.
package cli

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comalice/mfsm"
	"github.com/comalice/mfsm/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logger     zerolog.Logger
}

// NewRootCmd constructs the command tree. Command output goes to out, logs
// to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "mfsm",
		Short:         "Inspect and exercise mfsm event queue topologies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(strings.ToLower(opts.logLevel))
			if err != nil {
				return err
			}
			opts.logger = zerolog.New(zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.RFC3339, NoColor: true}).
				Level(level).With().Timestamp().Logger()
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "topology.yaml", "Topology file (.yaml, .yml, .toml, .json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")

	root.AddCommand(newDotCmd(opts), newRunCmd(opts))
	return root
}

// loadTopology reads the configured file and allocates the topology.
func (o *rootOptions) loadTopology(observer mfsm.Observer) (config.Config, *mfsm.Topology, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	topo, err := cfg.Build(nil, observer)
	if err != nil {
		return config.Config{}, nil, err
	}
	o.logger.Debug().Str("config", o.configPath).Int("queues", len(cfg.Queues)).Int("listeners", len(cfg.Listeners)).Msg("topology loaded")
	return cfg, topo, nil
}
