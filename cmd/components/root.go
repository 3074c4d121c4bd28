package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sternrassler/pipeline-components/internal/config"
	"github.com/Sternrassler/pipeline-components/pkg/component"
	"github.com/Sternrassler/pipeline-components/pkg/logging"
)

// globalFlags are the flags shared by every subcommand. Flags that are set
// override the environment.
type globalFlags struct {
	envFile   string
	logLevel  string
	logPretty bool
	redisURL  string
	userAgent string
	maxPages  int
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&g.logPretty, "log-pretty", false, "human-readable console logs")
	fs.StringVar(&g.redisURL, "redis-url", "", "redis URL or host:port enabling the response cache")
	fs.StringVar(&g.userAgent, "user-agent", "", "User-Agent sent to app APIs")
	fs.IntVar(&g.maxPages, "max-pages", 0, "maximum pages per pagination session")
}

// load reads the configuration and applies the flags that were set.
func (g *globalFlags) load(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(g.envFile)
	if err != nil {
		return cfg, err
	}

	if fs.Changed("log-level") {
		level, err := logging.ParseLevel(g.logLevel)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = level
	}
	if fs.Changed("log-pretty") {
		cfg.LogPretty = g.logPretty
	}
	if fs.Changed("redis-url") {
		cfg.RedisURL = g.redisURL
	}
	if fs.Changed("user-agent") {
		cfg.UserAgent = g.userAgent
	}
	if fs.Changed("max-pages") {
		cfg.MaxPages = g.maxPages
	}

	return cfg, cfg.Validate()
}

// env is what a command needs at runtime.
type env struct {
	cfg     config.Config
	redis   *redis.Client
	runtime component.Runtime
}

func (e *env) close() {
	if e.redis != nil {
		e.redis.Close()
	}
}

func newRootCmd(registry *component.Registry) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "components",
		Short:         "Workflow components for the Adalo and Twitter APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root.PersistentFlags())

	setup := func(cmd *cobra.Command) (*env, error) {
		cfg, err := flags.load(cmd.Flags())
		if err != nil {
			return nil, err
		}

		logCfg := cfg.Logging()
		logCfg.Output = cmd.ErrOrStderr()
		logging.Setup(logCfg)

		rdb, err := cfg.Redis()
		if err != nil {
			return nil, err
		}

		return &env{
			cfg:   cfg,
			redis: rdb,
			runtime: component.Runtime{
				Redis:     rdb,
				UserAgent: cfg.UserAgent,
				MaxPages:  cfg.MaxPages,
				Timeout:   cfg.HTTPTimeout,
			},
		}, nil
	}

	root.AddCommand(
		newListCmd(registry),
		newRunCmd(registry, setup),
		newServeCmd(registry, setup),
	)
	return root
}

type setupFunc func(cmd *cobra.Command) (*env, error)

func newListCmd(registry *component.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tTYPE\tVERSION\tNAME")
			for _, meta := range registry.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meta.Key, meta.Type, meta.Version, meta.Name)
			}
			return w.Flush()
		},
	}
}

func newRunCmd(registry *component.Registry, setup setupFunc) *cobra.Command {
	var propsJSON, authJSON string

	cmd := &cobra.Command{
		Use:   "run <key>",
		Short: "Run a component and print its result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			props, err := parseObject("props", propsJSON)
			if err != nil {
				return err
			}
			auth, err := parseObject("auth", authJSON)
			if err != nil {
				return err
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			step := component.NewStep(props, auth)
			step.Runtime = e.runtime

			result, err := component.Execute(cmd.Context(), c, step)
			if err != nil {
				return err
			}

			if result.Summary != "" {
				log.Info().Str("component", result.Key).Msg(result.Summary)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result.Value)
		},
	}

	cmd.Flags().StringVar(&propsJSON, "props", "{}", "component props as a JSON object")
	cmd.Flags().StringVar(&authJSON, "auth", "{}", "app auth as a JSON object")
	return cmd
}

func newServeCmd(registry *component.Registry, setup setupFunc) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve components over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			addr := e.cfg.ListenAddr
			if cmd.Flags().Changed("listen") {
				addr = listenAddr
			}

			srv := newServer(registry, e.runtime, e.redis)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides COMPONENTS_LISTEN_ADDR)")
	return cmd
}

func parseObject(name, s string) (map[string]any, error) {
	if s == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", name, err)
	}
	return m, nil
}
