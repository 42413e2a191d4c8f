package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jdollar/boxview/internal/config"
	"github.com/jdollar/boxview/pkg/boxview"
)

const (
	DURATION_FLAG        = "duration"
	EXPIRES_AT_FLAG      = "expiresAt"
	DOWNLOADABLE_FLAG    = "downloadable"
	TEXT_SELECTABLE_FLAG = "textSelectable"
	KIND_FLAG            = "kind"
	PARAM_FLAG           = "param"
)

func createSessionAction(conf *config.Configuration, c *cli.Context) error {
	documentID, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	expiresAt, err := parseDate(c.String(EXPIRES_AT_FLAG))
	if err != nil {
		return err
	}

	opts := boxview.CreateSessionOptions{
		Duration:       c.Int(DURATION_FLAG),
		ExpiresAt:      expiresAt,
		IsDownloadable: c.Bool(DOWNLOADABLE_FLAG),
	}
	if c.IsSet(TEXT_SELECTABLE_FLAG) {
		selectable := c.Bool(TEXT_SELECTABLE_FLAG)
		opts.IsTextSelectable = &selectable
	}

	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	session, err := client.CreateSession(c.Context, documentID, opts)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, session)
}

func parseParams(raw []string) (url.Values, error) {
	params := url.Values{}
	for _, p := range raw {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, expected key=value", p)
		}
		params.Add(key, value)
	}
	return params, nil
}

func sessionURLAction(conf *config.Configuration, c *cli.Context) error {
	sessionID, err := requiredArg(c, "session id")
	if err != nil {
		return err
	}
	params, err := parseParams(c.StringSlice(PARAM_FLAG))
	if err != nil {
		return err
	}

	client, err := newClient(conf, c)
	if err != nil {
		return err
	}
	sessionURL, err := client.SessionURL(sessionID, boxview.SessionURLKind(c.String(KIND_FLAG)), params)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, sessionURL)
	return nil
}

func realtimeURLAction(conf *config.Configuration, c *cli.Context) error {
	sessionID, err := requiredArg(c, "session id")
	if err != nil {
		return err
	}

	client, err := newClient(conf, c)
	if err != nil {
		return err
	}
	realtimeURL, err := client.RealtimeURL(sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, realtimeURL)
	return nil
}

func NewSessionsCommand(conf *config.Configuration) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Create viewing sessions and build their urls",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a viewing session for a document",
				ArgsUsage: "<document id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: DURATION_FLAG, Usage: "Session duration in minutes"},
					&cli.StringFlag{Name: EXPIRES_AT_FLAG, Usage: "Session expiry date"},
					&cli.BoolFlag{Name: DOWNLOADABLE_FLAG, Usage: "Allow downloading the original"},
					&cli.BoolFlag{Name: TEXT_SELECTABLE_FLAG, Usage: "Allow text selection"},
				},
				Action: bind(conf, createSessionAction),
			},
			{
				Name:      "url",
				Usage:     "Print the view, assets or download url of a session",
				ArgsUsage: "<session id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: KIND_FLAG, Value: string(boxview.SessionView), Usage: "view, assets or download"},
					&cli.StringSliceFlag{Name: PARAM_FLAG, Aliases: []string{"p"}, Usage: "Extra query parameter as key=value"},
				},
				Action: bind(conf, sessionURLAction),
			},
			{
				Name:      "realtime-url",
				Usage:     "Print the server-sent events url of a session",
				ArgsUsage: "<session id>",
				Action:    bind(conf, realtimeURLAction),
			},
		},
	}
}
