package boxview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateDocumentOptions describes a document to convert. Exactly one of URL
// and File must be set.
type CreateDocumentOptions struct {
	// URL of a publicly reachable file the service fetches itself.
	URL string

	// File is uploaded to the upload host as multipart form data.
	File io.Reader

	// FileName names the uploaded part. Defaults to File's Name() when it
	// has one, e.g. *os.File.
	FileName string

	Name string

	// Thumbnails is a comma separated list of sizes to pregenerate, such as
	// "128x128,256x256".
	Thumbnails string

	// NonSVG requests the non-SVG assets for older browsers. It is only sent
	// when true.
	NonSVG bool
}

func (o CreateDocumentOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.URL,
			validation.When(o.File == nil, validation.Required.Error("document url or file is required")).
				Else(validation.Empty.Error("document url and file are mutually exclusive")),
		),
	)
}

// CreateDocument registers a document by URL or uploads one from File.
func (c *Client) CreateDocument(ctx context.Context, opts CreateDocumentOptions) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, invalidArgument(err)
	}

	if opts.File != nil {
		return c.createDocumentFromFile(ctx, opts)
	}
	return c.createDocumentFromURL(ctx, opts)
}

// CreateDocumentFromPath uploads the local file at path. opts.URL and
// opts.File must be empty.
func (c *Client) CreateDocumentFromPath(ctx context.Context, path string, opts CreateDocumentOptions) (*Document, error) {
	if err := validation.Validate(path, validation.Required.Error("file path is required")); err != nil {
		return nil, invalidArgument(err)
	}
	if opts.URL != "" || opts.File != nil {
		return nil, invalidArgument(fmt.Errorf("url and file must be empty when uploading from a path"))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	opts.File = file
	return c.CreateDocument(ctx, opts)
}

func (c *Client) createDocumentFromURL(ctx context.Context, opts CreateDocumentOptions) (*Document, error) {
	reqBody := createDocumentRequest{
		URL:        opts.URL,
		Name:       opts.Name,
		Thumbnails: opts.Thumbnails,
		NonSVG:     opts.NonSVG,
	}

	var doc Document
	if err := c.doJSON(ctx, http.MethodPost, "documents", requestOptions{json: reqBody}, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) createDocumentFromFile(ctx context.Context, opts CreateDocumentOptions) (*Document, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := [][2]string{
		{"name", opts.Name},
		{"thumbnails", opts.Thumbnails},
	}
	if opts.NonSVG {
		fields = append(fields, [2]string{"non_svg", "true"})
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}

	fw, err := w.CreateFormFile("file", uploadFileName(opts))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, opts.File); err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	endpoint, err := joinURL(c.uploadURL, "documents")
	if err != nil {
		return nil, err
	}

	var doc Document
	err = c.doJSON(ctx, http.MethodPost, endpoint, requestOptions{
		body:        body.Bytes(),
		contentType: w.FormDataContentType(),
	}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func uploadFileName(opts CreateDocumentOptions) string {
	if opts.FileName != "" {
		return opts.FileName
	}
	if named, ok := opts.File.(interface{ Name() string }); ok && named.Name() != "" {
		return filepath.Base(named.Name())
	}
	return "document"
}

// GetDocument fetches a document. fields limits the returned fields.
func (c *Client) GetDocument(ctx context.Context, id string, fields ...string) (*Document, error) {
	if err := validateDocumentID(id); err != nil {
		return nil, err
	}

	var query url.Values
	if len(fields) > 0 {
		query = url.Values{"fields": {strings.Join(fields, ",")}}
	}

	var doc Document
	if err := c.doJSON(ctx, http.MethodGet, documentPath(id), requestOptions{query: query}, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) UpdateDocument(ctx context.Context, id, name string) (*Document, error) {
	if err := validateDocumentID(id); err != nil {
		return nil, err
	}
	if err := validation.Validate(name, validation.Required.Error("document name is required")); err != nil {
		return nil, invalidArgument(err)
	}

	var doc Document
	opts := requestOptions{json: updateDocumentRequest{Name: name}}
	if err := c.doJSON(ctx, http.MethodPut, documentPath(id), opts, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if err := validateDocumentID(id); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, documentPath(id), requestOptions{}, nil)
}

// ListDocumentsOptions filters a document listing. CreatedBefore and
// CreatedAfter accept anything FormatDate does.
type ListDocumentsOptions struct {
	Limit         int
	CreatedBefore interface{}
	CreatedAfter  interface{}
}

func (o ListDocumentsOptions) query() (url.Values, error) {
	query := url.Values{}
	if o.Limit > 0 {
		query.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.CreatedAfter != nil {
		v, err := FormatDate(o.CreatedAfter)
		if err != nil {
			return nil, err
		}
		if v != "" {
			query.Set("created_after", v)
		}
	}
	if o.CreatedBefore != nil {
		v, err := FormatDate(o.CreatedBefore)
		if err != nil {
			return nil, err
		}
		if v != "" {
			query.Set("created_before", v)
		}
	}
	return query, nil
}

func (c *Client) ListDocuments(ctx context.Context, opts ListDocumentsOptions) (*DocumentCollection, error) {
	query, err := opts.query()
	if err != nil {
		return nil, err
	}

	var resp ListDocumentsResponse
	if err := c.doJSON(ctx, http.MethodGet, "documents", requestOptions{query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp.DocumentCollection, nil
}

func (c *Client) GetDocumentStatus(ctx context.Context, id string) (string, error) {
	doc, err := c.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.Status, nil
}

// ReadyToView returns the document once its conversion is done. A document
// still queued, processing or failed yields nil without an error.
func (c *Client) ReadyToView(ctx context.Context, id string) (*Document, error) {
	doc, err := c.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != StatusDone {
		return nil, nil
	}
	return doc, nil
}

func documentPath(id string) string {
	return "documents/" + url.PathEscape(id)
}

func validateDocumentID(id string) error {
	if err := validation.Validate(id, validation.Required.Error("document id is required")); err != nil {
		return invalidArgument(err)
	}
	return nil
}
