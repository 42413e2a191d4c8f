package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"

	"github.com/jdollar/boxview/internal/config"
	"github.com/jdollar/boxview/pkg/boxview"
)

type configuredAction func(conf *config.Configuration, c *cli.Context) error

// bind hands the configuration loaded by the app's Before hook to fn.
func bind(conf *config.Configuration, fn configuredAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		return fn(conf, c)
	}
}

func newClient(conf *config.Configuration, c *cli.Context) (*boxview.Client, error) {
	cfg := conf.ClientConfig()
	cfg.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "boxview",
		Level:  hclog.LevelFromString(c.String(LOG_LEVEL_FLAG)),
		Output: c.App.ErrWriter,
	})

	client, err := boxview.NewClient(cfg)
	if errors.Is(err, boxview.ErrMissingAPIKey) {
		return nil, fmt.Errorf("%w: set api_key in config.yaml or %s", err, boxview.EnvAPIKey)
	}
	return client, err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requiredArg(c *cli.Context, name string) (string, error) {
	arg := c.Args().First()
	if arg == "" {
		return "", fmt.Errorf("missing %s argument", name)
	}
	return arg, nil
}

// parseDate turns free-form user input into a value boxview.FormatDate
// understands. Input without a time of day stays a calendar date.
func parseDate(value string) (interface{}, error) {
	if value == "" {
		return nil, nil
	}

	t, err := dateparse.ParseAny(value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	if len(strings.TrimSpace(value)) <= len("2006-01-02") && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return boxview.DateOf(t), nil
	}
	return t, nil
}
