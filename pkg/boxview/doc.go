// Package boxview is a client for the Box View API.
//
// Every method issues exactly one request and blocks until it completes.
// The client keeps no local copy of documents or sessions: every read goes
// back to the API.
//
// # Authentication
//
// The API key comes from Config.APIKey, falling back to the
// BOX_VIEW_API_KEY environment variable. Every request carries
//
//	Authorization: Token <api-key>
//
// # Errors
//
// Calls fail with one of three kinds of error:
//
//   - ErrInvalidArgument for bad input, detected before any network I/O.
//   - *RetryAfterError when the response carries a Retry-After header, even
//     if its status code looks successful. Wait Delay() and try again.
//   - *APIError for any other non-2xx response.
//
// The client never retries on these. The default transport only retries
// requests that failed before a response arrived, such as a refused
// connection.
//
// # Example
//
//	client, err := boxview.NewClient(boxview.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	doc, err := client.CreateDocument(ctx, boxview.CreateDocumentOptions{
//		URL:  "https://example.com/report.pdf",
//		Name: "Quarterly report",
//	})
//	var retry *boxview.RetryAfterError
//	if errors.As(err, &retry) {
//		time.Sleep(retry.Delay())
//	}
package boxview
