package boxview

import "time"

// Document processing states reported by the API.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusError      = "error"
)

type Document struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Name       string    `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

type DocumentCollection struct {
	TotalCount int64      `json:"total_count"`
	Entries    []Document `json:"entries"`
}

type ListDocumentsResponse struct {
	DocumentCollection DocumentCollection `json:"document_collection"`
}

type SessionURLs struct {
	View     string `json:"view,omitempty"`
	Assets   string `json:"assets,omitempty"`
	Realtime string `json:"realtime,omitempty"`
}

type Session struct {
	Type      string       `json:"type"`
	ID        string       `json:"id"`
	ExpiresAt time.Time    `json:"expires_at"`
	Document  *Document    `json:"document,omitempty"`
	URLs      *SessionURLs `json:"urls,omitempty"`
}

// StorageProfile describes the customer-managed bucket converted assets
// are written to. The client does not interpret these fields.
type StorageProfile struct {
	Type            string `json:"type,omitempty"`
	Provider        string `json:"provider,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	Region          string `json:"region,omitempty"`
	Prefix          string `json:"prefix,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty"`
}

type Webhook struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url"`
}

type createDocumentRequest struct {
	URL        string `json:"url"`
	Name       string `json:"name,omitempty"`
	Thumbnails string `json:"thumbnails,omitempty"`
	NonSVG     bool   `json:"non_svg,omitempty"`
}

type updateDocumentRequest struct {
	Name string `json:"name"`
}

type createSessionRequest struct {
	DocumentID       string `json:"document_id"`
	Duration         int    `json:"duration,omitempty"`
	ExpiresAt        string `json:"expires_at,omitempty"`
	IsDownloadable   bool   `json:"is_downloadable,omitempty"`
	IsTextSelectable *bool  `json:"is_text_selectable,omitempty"`
}

type createWebhookRequest struct {
	URL string `json:"url"`
}
