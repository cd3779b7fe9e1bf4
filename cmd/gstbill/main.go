package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/andy/gstbill/internal/app"
	"github.com/andy/gstbill/internal/cli"
	"github.com/andy/gstbill/internal/config"
	"github.com/andy/gstbill/internal/logger"
)

func main() {
	// A missing .env is normal
	_ = godotenv.Load()

	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" || a == "completion" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		cfg, err := config.LoadDefault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		closer, err := logger.Setup(cfg.Logging)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()

		if tuiMode(os.Args[1:]) && logsToTerminal(cfg.Logging.Output) {
			logger.Disabled()
		}

		a, err := app.New(context.Background(), cfg)
		if err != nil {
			log.Error().Err(err).Msg("initialization failed")
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func tuiMode(args []string) bool {
	return len(args) == 0 || args[0] == "tui"
}

func logsToTerminal(output string) bool {
	return output == "" || output == "stderr" || output == "stdout"
}
