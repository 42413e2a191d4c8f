package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/jdollar/boxview/internal/config"
	"github.com/jdollar/boxview/pkg/boxview"
)

const (
	CONFIG_DIR_FLAG = "configDir"
	LOG_LEVEL_FLAG  = "logLevel"
)

// NewApp wires every command to a configuration loaded before any of them
// runs.
func NewApp() *cli.App {
	conf := &config.Configuration{}

	return &cli.App{
		Name:    "boxview",
		Usage:   "Cli tool for the Box View API",
		Version: boxview.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  CONFIG_DIR_FLAG,
				Usage: "Directory holding config.yaml (default ~/.boxview)",
			},
			&cli.StringFlag{
				Name:  LOG_LEVEL_FLAG,
				Usage: "Log level for request logging (trace, debug, info, warn, error)",
				Value: "warn",
			},
		},
		Before: func(c *cli.Context) error {
			return loadConfiguration(c, conf)
		},
		Commands: []*cli.Command{
			NewDocumentsCommand(conf),
			NewSessionsCommand(conf),
			NewStorageProfileCommand(conf),
			NewWebhookCommand(conf),
		},
	}
}

func loadConfiguration(c *cli.Context, conf *config.Configuration) error {
	configDir := c.String(CONFIG_DIR_FLAG)
	if configDir == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	loaded, err := config.NewConfiguration(configDir)
	if err != nil {
		return err
	}
	*conf = loaded
	return nil
}
