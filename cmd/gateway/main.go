package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hung319/askaiquestions2api/gateway"
	"github.com/hung319/askaiquestions2api/pkg/logger"
)

const rootLongDesc = `Serve an OpenAI-compatible chat completion API backed by the
Ask AI Questions endpoint.

Configuration comes from an optional TOML file plus environment
variables (API_KEY, UPSTREAM_URL, PORT, STREAM_CHUNK_SIZE,
STREAM_DELAY_MS, ...). Flags override both.

Examples:
  API_KEY=secret UPSTREAM_URL=https://backend/api/ask gateway
  gateway --config gateway.toml --listen :3000 --debug`

type serveCommander struct {
	configPath string
	listenAddr string
	debug      bool
}

func main() {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:          "gateway",
		Short:        "OpenAI-compatible gateway for the Ask AI Questions backend",
		Long:         rootLongDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVarP(&cmder.listenAddr, "listen", "l", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s %s\n", gateway.ServiceName, gateway.Version)
		},
	}
}

func (s *serveCommander) run() error {
	config, err := gateway.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	if s.listenAddr != "" {
		config.ListenAddr = s.listenAddr
	}
	if s.debug {
		config.Debug = true
	}

	log := logger.New(config.Debug)
	defer log.Sync()

	g, err := gateway.New(config, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- g.Run() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		return g.Shutdown(5 * time.Second)
	}
}
