// Command born-collate batches SafeTensors samples into a single padded batch.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/born-ml/collate/internal/config"
	"github.com/born-ml/collate/internal/log"
)

const version = "v0.1.0-dev"

func main() {
	logger := log.NewDefault()

	if err := newApp().Run(context.Background(), os.Args); nil != err {
		if errors.Is(err, context.Canceled) {
			logger.Trace().Msg("Application was canceled")
			os.Exit(1)
		}

		var exitCode exitCodeError
		if errors.As(err, &exitCode) {
			os.Exit(int(exitCode))
		}

		logger.Error().Err(err).Msg("Application exited with error")
		os.Exit(10)
	}
}

func newApp() *cli.Command {
	log.Version = version

	//nolint:exhaustruct
	return &cli.Command{
		Name:    "born-collate",
		Version: version,
		Suggest: true,
		Usage:   "Batch variably-sized tensors into centered, zero-padded batches",
		Flags: []cli.Flag{
			//nolint:exhaustruct
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Config file path",
				Required: false,
			},
		},
		Commands: []*cli.Command{
			//nolint:exhaustruct
			{
				Name:      "batch",
				Usage:     "Collate sample files into one batch file",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					//nolint:exhaustruct
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output SafeTensors file",
						Required: true,
					},
					//nolint:exhaustruct
					&cli.StringFlag{
						Name:  "layout",
						Usage: "Layout of samples without a recorded layout, e.g. NHWC or NCL",
					},
					//nolint:exhaustruct
					&cli.StringFlag{
						Name:  "inputs-key",
						Usage: "Tensor name holding sample inputs",
					},
					//nolint:exhaustruct
					&cli.StringFlag{
						Name:  "targets-key",
						Usage: "Tensor name holding sample targets",
					},
					//nolint:exhaustruct
					&cli.BoolFlag{
						Name:  "center-sequences",
						Usage: "Pad and center 1D samples instead of concatenating them",
					},
					//nolint:exhaustruct
					&cli.BoolFlag{
						Name:  "parallel",
						Usage: "Copy samples into the batch concurrently",
					},
				},
				Action: batchAction,
			},
			{
				Name:      "inspect",
				Usage:     "List the tensors stored in SafeTensors files",
				ArgsUsage: "FILE...",
				Action:    inspectAction,
			},
			{
				Name:  "version",
				Usage: "Show version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintf(cmd.Root().Writer, "born-collate %s\n", version)
					return err
				},
			},
		},
	}
}

type exitCodeError int

func (e exitCodeError) Error() string {
	return "error with exit code: " + strconv.Itoa(int(e))
}

// setup loads .env and the config file and builds the configured logger.
func setup(cmd *cli.Command) (*config.Config, zerolog.Logger, error) {
	logger := log.NewDefault()

	if err := godotenv.Load(); nil != err {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, logger, fmt.Errorf("load .env file: %v", err)
		}
		logger.Debug().Msg(".env file was not found")
	} else {
		logger.Debug().Msg(".env file was loaded")
	}

	conf, err := config.Load(cmd.String("config"))
	if nil != err {
		return nil, logger, fmt.Errorf("load config: %w", err)
	}

	logger = log.FromConfig(conf.Log)
	logger.Debug().Dict("config", conf.ToDict()).Msg("Config loaded")

	return conf, logger, nil
}
