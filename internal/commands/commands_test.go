package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/jdollar/boxview/pkg/boxview"
)

const testDocumentJSON = `{
	"type": "document",
	"id": "2da6cf9261824fb0a4fe532f94d14625",
	"status": "%s",
	"name": "Leaves of Grass",
	"created_at": "2013-08-30T00:17:37Z",
	"modified_at": "2013-08-30T00:17:37Z"
}`

// runApp runs the cli against a config dir whose urls point at handler and
// returns what the command printed.
func runApp(t *testing.T, handler http.HandlerFunc, apiKey string, args ...string) (string, error) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	contents := fmt.Sprintf("api_key: %q\nbase_url: %s/1/\nupload_url: %s/upload/1/\ntimeout_seconds: 5\nmax_retries: 0\n", apiKey, srv.URL, srv.URL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o600))
	t.Setenv(boxview.EnvAPIKey, "")

	var out, errOut bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"boxview", "--" + CONFIG_DIR_FLAG, dir}, args...))
	return out.String(), err
}

func TestDocumentsGet(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/1/documents/abc", r.URL.Path)
		assert.Equal(t, "id,name", r.URL.Query().Get("fields"))
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, testDocumentJSON, "done")
	}, "secret", "documents", "get", "--fields", "id", "--fields", "name", "abc")
	require.NoError(t, err)

	var doc boxview.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Leaves of Grass", doc.Name)
	assert.Equal(t, boxview.StatusDone, doc.Status)
}

func TestDocumentsGet_MissingID(t *testing.T) {
	_, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	}, "secret", "documents", "get")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing document id argument")
}

func TestDocumentsList(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/documents", r.URL.Path)
		assert.Equal(t, url.Values{
			"limit":          {"2"},
			"created_after":  {"2024-01-02"},
			"created_before": {"2024-02-03T04:05:06Z"},
		}, r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"document_collection": {"total_count": 1, "entries": [%s]}}`, fmt.Sprintf(testDocumentJSON, "done"))
	}, "secret", "documents", "list", "--limit", "2", "--createdAfter", "2024-01-02", "--createdBefore", "2024-02-03T04:05:06Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Leaves of Grass")
}

func TestDocumentsReady(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantCode int
	}{
		{name: "done", status: boxview.StatusDone},
		{name: "processing", status: boxview.StatusProcessing, wantCode: 2},
		{name: "error", status: boxview.StatusError, wantCode: 2},
	}

	exiter := cli.OsExiter
	cli.OsExiter = func(int) {}
	t.Cleanup(func() { cli.OsExiter = exiter })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprintf(w, testDocumentJSON, tt.status)
			}, "secret", "documents", "ready", "abc")

			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Contains(t, out, "Leaves of Grass")
				return
			}
			var exitErr cli.ExitCoder
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, tt.wantCode, exitErr.ExitCode())
			assert.Empty(t, out)
		})
	}
}

func TestDocumentsContent_Stdout(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/documents/abc/content.pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		io.WriteString(w, "%PDF-1.4")
	}, "secret", "documents", "content", "--extension", ".pdf", "abc")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", out)
}

func TestDocumentsThumbnail_File(t *testing.T) {
	output := filepath.Join(t.TempDir(), "thumb.png")
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/documents/abc/thumbnail", r.URL.Path)
		assert.Equal(t, "16", r.URL.Query().Get("width"))
		assert.Equal(t, "9", r.URL.Query().Get("height"))
		w.Header().Set("Content-Type", "image/png")
		io.WriteString(w, "png bytes")
	}, "secret", "documents", "thumbnail", "--width", "16", "--height", "9", "-o", output, "abc")
	require.NoError(t, err)
	assert.Equal(t, "image/png\n", out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
}

func TestDocumentsGet_APIError(t *testing.T) {
	_, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "secret", "documents", "get", "abc")

	var apiErr *boxview.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestMissingAPIKey(t *testing.T) {
	_, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	}, "", "documents", "get", "abc")
	require.ErrorIs(t, err, boxview.ErrMissingAPIKey)
	assert.Contains(t, err.Error(), boxview.EnvAPIKey)
}

func TestSessionsCreate(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/sessions", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{
			"document_id":        "abc",
			"duration":           float64(30),
			"is_downloadable":    true,
			"is_text_selectable": false,
		}, body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"type": "session", "id": "sess", "expires_at": "2013-08-30T00:47:37Z"}`)
	}, "secret", "sessions", "create", "--duration", "30", "--downloadable", "--textSelectable=false", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"sess"`)
}

func TestSessionsURL(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	}, "secret", "sessions", "url", "--kind", "assets", "-p", "theme=dark", "sess")
	require.NoError(t, err)

	u, err := url.Parse(out[:len(out)-1])
	require.NoError(t, err)
	assert.Equal(t, "/1/sessions/sess/assets", u.Path)
	assert.Equal(t, "dark", u.Query().Get("theme"))
}

func TestSessionsRealtimeURL(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	}, "secret", "sessions", "realtime-url", "sess")
	require.NoError(t, err)
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/sse/sess\n$`, out)
}

func TestStorageProfileCreate(t *testing.T) {
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/storage_profile", r.URL.Path)

		var profile boxview.StorageProfile
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&profile))
		assert.Equal(t, boxview.StorageProfile{
			Provider:        "s3",
			Bucket:          "converted",
			Region:          "us-east-1",
			AccessKeyID:     "AKIA",
			SecretAccessKey: "shh",
		}, profile)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"type": "storage_profile", "provider": "s3", "bucket": "converted", "region": "us-east-1"}`)
	}, "secret", "storage-profile", "create", "--bucket", "converted", "--region", "us-east-1", "--accessKeyId", "AKIA", "--secretAccessKey", "shh")
	require.NoError(t, err)
	assert.Contains(t, out, `"converted"`)
	assert.NotContains(t, out, "shh")
}

func TestWebhook(t *testing.T) {
	hook := "https://example.com/hooks/box"

	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/webhook", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, hook, body["url"])
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"type": "webhook", "url": %q}`, hook)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}, "secret", "webhook", "create", hook)
	require.NoError(t, err)
	assert.Contains(t, out, hook)

	out, err = runApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}, "secret", "webhook", "delete")
	require.NoError(t, err)
	assert.Equal(t, "Deleted webhook\n", out)
}

func TestParseDate(t *testing.T) {
	v, err := parseDate("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = parseDate("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, boxview.Date{Year: 2024, Month: time.January, Day: 2}, v)

	v, err = parseDate("2024-02-03T04:05:06Z")
	require.NoError(t, err)
	formatted, err := boxview.FormatDate(v)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-03T04:05:06Z", formatted)

	_, err = parseDate("not a date")
	assert.Error(t, err)
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"theme=dark", "a=1", "a=2", "empty="})
	require.NoError(t, err)
	assert.Equal(t, url.Values{"theme": {"dark"}, "a": {"1", "2"}, "empty": {""}}, params)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}
