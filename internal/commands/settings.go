package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/jdollar/boxview/internal/config"
	"github.com/jdollar/boxview/pkg/boxview"
)

const (
	PROVIDER_FLAG          = "provider"
	BUCKET_FLAG            = "bucket"
	REGION_FLAG            = "region"
	PREFIX_FLAG            = "prefix"
	ACCESS_KEY_ID_FLAG     = "accessKeyId"
	SECRET_ACCESS_KEY_FLAG = "secretAccessKey"
)

func createStorageProfileAction(conf *config.Configuration, c *cli.Context) error {
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	profile, err := client.CreateStorageProfile(c.Context, boxview.StorageProfile{
		Provider:        c.String(PROVIDER_FLAG),
		Bucket:          c.String(BUCKET_FLAG),
		Region:          c.String(REGION_FLAG),
		Prefix:          c.String(PREFIX_FLAG),
		AccessKeyID:     c.String(ACCESS_KEY_ID_FLAG),
		SecretAccessKey: c.String(SECRET_ACCESS_KEY_FLAG),
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, profile)
}

func getStorageProfileAction(conf *config.Configuration, c *cli.Context) error {
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	profile, err := client.GetStorageProfile(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, profile)
}

func deleteStorageProfileAction(conf *config.Configuration, c *cli.Context) error {
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	if err := client.DeleteStorageProfile(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Deleted storage profile")
	return nil
}

func NewStorageProfileCommand(conf *config.Configuration) *cli.Command {
	return &cli.Command{
		Name:  "storage-profile",
		Usage: "Manage the bucket converted documents are stored in",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Store converted documents in your own bucket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: PROVIDER_FLAG, Value: "s3", Usage: "Storage provider"},
					&cli.StringFlag{Name: BUCKET_FLAG, Required: true},
					&cli.StringFlag{Name: REGION_FLAG},
					&cli.StringFlag{Name: PREFIX_FLAG, Usage: "Key prefix inside the bucket"},
					&cli.StringFlag{Name: ACCESS_KEY_ID_FLAG, EnvVars: []string{"BOX_VIEW_STORAGE_ACCESS_KEY_ID"}},
					&cli.StringFlag{Name: SECRET_ACCESS_KEY_FLAG, EnvVars: []string{"BOX_VIEW_STORAGE_SECRET_ACCESS_KEY"}},
				},
				Action: bind(conf, createStorageProfileAction),
			},
			{
				Name:   "get",
				Usage:  "Print the current storage profile",
				Action: bind(conf, getStorageProfileAction),
			},
			{
				Name:   "delete",
				Usage:  "Go back to Box managed storage",
				Action: bind(conf, deleteStorageProfileAction),
			},
		},
	}
}

func createWebhookAction(conf *config.Configuration, c *cli.Context) error {
	webhookURL, err := requiredArg(c, "webhook url")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	webhook, err := client.CreateWebhook(c.Context, webhookURL)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, webhook)
}

func getWebhookAction(conf *config.Configuration, c *cli.Context) error {
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	webhook, err := client.GetWebhook(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, webhook)
}

func deleteWebhookAction(conf *config.Configuration, c *cli.Context) error {
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	if err := client.DeleteWebhook(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Deleted webhook")
	return nil
}

func NewWebhookCommand(conf *config.Configuration) *cli.Command {
	return &cli.Command{
		Name:  "webhook",
		Usage: "Manage the url notified about document status changes",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Register a webhook url",
				ArgsUsage: "<url>",
				Action:    bind(conf, createWebhookAction),
			},
			{
				Name:   "get",
				Usage:  "Print the registered webhook",
				Action: bind(conf, getWebhookAction),
			},
			{
				Name:   "delete",
				Usage:  "Remove the registered webhook",
				Action: bind(conf, deleteWebhookAction),
			},
		},
	}
}
