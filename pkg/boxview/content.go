package boxview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jdollar/boxview/internal/files"
)

// Content extensions accepted by GetDocumentContent. An empty extension
// returns the original document.
const (
	ExtensionPDF = ".pdf"
	ExtensionZIP = ".zip"
)

var allowedExtensions = []interface{}{ExtensionPDF, ExtensionZIP}

func contentPath(id, extension string) (string, error) {
	if err := validateDocumentID(id); err != nil {
		return "", err
	}
	err := validation.Validate(extension, validation.In(allowedExtensions...).Error(
		fmt.Sprintf("invalid extension %q; choose one of %s, %s", extension, ExtensionPDF, ExtensionZIP),
	))
	if err != nil {
		return "", invalidArgument(err)
	}
	return documentPath(id) + "/content" + extension, nil
}

func thumbnailRequest(id string, width, height int) (string, url.Values, error) {
	if err := validateDocumentID(id); err != nil {
		return "", nil, err
	}
	err := validation.Errors{
		"width":  validation.Validate(width, validation.Required, validation.Min(1)),
		"height": validation.Validate(height, validation.Required, validation.Min(1)),
	}.Filter()
	if err != nil {
		return "", nil, invalidArgument(err)
	}

	query := url.Values{
		"width":  {strconv.Itoa(width)},
		"height": {strconv.Itoa(height)},
	}
	return documentPath(id) + "/thumbnail", query, nil
}

// GetThumbnail streams a thumbnail of the document into w and returns its
// media type.
func (c *Client) GetThumbnail(ctx context.Context, w io.Writer, id string, width, height int) (string, error) {
	path, query, err := thumbnailRequest(id, width, height)
	if err != nil {
		return "", err
	}
	return c.stream(ctx, w, path, query)
}

// GetThumbnailToFile writes the thumbnail to filename. A failed transfer
// leaves no file behind.
func (c *Client) GetThumbnailToFile(ctx context.Context, filename, id string, width, height int) (string, error) {
	path, query, err := thumbnailRequest(id, width, height)
	if err != nil {
		return "", err
	}
	return c.streamToFile(ctx, filename, path, query)
}

func (c *Client) GetThumbnailBytes(ctx context.Context, id string, width, height int) ([]byte, string, error) {
	var buf bytes.Buffer
	mimetype, err := c.GetThumbnail(ctx, &buf, id, width, height)
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mimetype, nil
}

// GetDocumentContent streams the document into w and returns its media
// type. extension is "", ExtensionPDF or ExtensionZIP.
func (c *Client) GetDocumentContent(ctx context.Context, w io.Writer, id, extension string) (string, error) {
	path, err := contentPath(id, extension)
	if err != nil {
		return "", err
	}
	return c.stream(ctx, w, path, nil)
}

// GetDocumentContentToFile writes the document to filename. A failed
// transfer leaves no file behind.
func (c *Client) GetDocumentContentToFile(ctx context.Context, filename, id, extension string) (string, error) {
	path, err := contentPath(id, extension)
	if err != nil {
		return "", err
	}
	return c.streamToFile(ctx, filename, path, nil)
}

func (c *Client) GetDocumentContentBytes(ctx context.Context, id, extension string) ([]byte, string, error) {
	var buf bytes.Buffer
	mimetype, err := c.GetDocumentContent(ctx, &buf, id, extension)
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mimetype, nil
}

// GetDocumentContentMimetype returns the media type of the document content
// without downloading it.
func (c *Client) GetDocumentContentMimetype(ctx context.Context, id string) (string, error) {
	path, err := contentPath(id, "")
	if err != nil {
		return "", err
	}

	resp, err := c.do(ctx, http.MethodHead, path, requestOptions{})
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	return mimetypeFromHeader(resp.Header), nil
}

func (c *Client) stream(ctx context.Context, w io.Writer, path string, query url.Values) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, requestOptions{query: query})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("error streaming %s: %w", strings.TrimPrefix(path, "documents/"), err)
	}
	return mimetypeFromHeader(resp.Header), nil
}

func (c *Client) streamToFile(ctx context.Context, filename, path string, query url.Values) (string, error) {
	if err := validation.Validate(filename, validation.Required.Error("filename is required")); err != nil {
		return "", invalidArgument(err)
	}

	var mimetype string
	err := files.WriteFile(filename, func(w io.Writer) error {
		var err error
		mimetype, err = c.stream(ctx, w, path, query)
		return err
	})
	if err != nil {
		return "", err
	}
	return mimetype, nil
}
