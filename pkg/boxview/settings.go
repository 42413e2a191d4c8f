package boxview

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	storageProfilePath = "storage_profile"
	webhookPath        = "webhook"
)

// CreateStorageProfile points the account at a customer-managed bucket.
func (c *Client) CreateStorageProfile(ctx context.Context, profile StorageProfile) (*StorageProfile, error) {
	var created StorageProfile
	if err := c.doJSON(ctx, http.MethodPost, storageProfilePath, requestOptions{json: profile}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetStorageProfile(ctx context.Context) (*StorageProfile, error) {
	var profile StorageProfile
	if err := c.doJSON(ctx, http.MethodGet, storageProfilePath, requestOptions{}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) DeleteStorageProfile(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, storageProfilePath, requestOptions{}, nil)
}

// CreateWebhook registers the URL notified when documents change status.
func (c *Client) CreateWebhook(ctx context.Context, webhookURL string) (*Webhook, error) {
	if err := validation.Validate(webhookURL, validation.Required.Error("webhook url is required")); err != nil {
		return nil, invalidArgument(err)
	}

	var webhook Webhook
	opts := requestOptions{json: createWebhookRequest{URL: webhookURL}}
	if err := c.doJSON(ctx, http.MethodPost, webhookPath, opts, &webhook); err != nil {
		return nil, err
	}
	return &webhook, nil
}

func (c *Client) GetWebhook(ctx context.Context) (*Webhook, error) {
	var webhook Webhook
	if err := c.doJSON(ctx, http.MethodGet, webhookPath, requestOptions{}, &webhook); err != nil {
		return nil, err
	}
	return &webhook, nil
}

func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, webhookPath, requestOptions{}, nil)
}
