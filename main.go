package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/pflag"

	"github.com/fakhrymubarak/weather-station/internal/config"
	"github.com/fakhrymubarak/weather-station/internal/handler"
	"github.com/fakhrymubarak/weather-station/internal/repository"
	"github.com/fakhrymubarak/weather-station/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run wires the application and returns the process exit code: 0 on normal
// termination, 1 on a configuration or input error, 2 on bad flags.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet("weather-station", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := config.BindFlags(fs); err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := config.GetLogger()
	defer func() { _ = log.Sync() }()
	if err := config.SetLogLevel(config.GetLogLevel()); err != nil {
		log.Warnw("Ignoring log level", "error", err)
	}
	if config.IsColorDisabled() {
		color.Enable = false
	}

	cfg, err := config.LoadOpenWeatherMap()
	if err != nil {
		log.Debugw("Configuration error", "error", err)
		fmt.Fprintf(errOut, "%s: %v\n", color.FgLightRed.Sprint("Error"), err)
		return 1
	}

	weatherRepo := repository.NewWeatherRepository(cfg)
	weatherService := service.NewWeatherService(weatherRepo)
	prompt := handler.NewPromptHandler(weatherService, in, out, errOut)

	if err := prompt.Run(context.Background()); err != nil {
		log.Errorw("Reading input failed", "error", err)
		return 1
	}
	return 0
}
