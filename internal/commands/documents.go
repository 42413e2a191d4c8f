package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/jdollar/boxview/internal/config"
	"github.com/jdollar/boxview/pkg/boxview"
)

const (
	URL_FLAG            = "url"
	FILE_FLAG           = "file"
	NAME_FLAG           = "name"
	THUMBNAILS_FLAG     = "thumbnails"
	NON_SVG_FLAG        = "nonSvg"
	FIELDS_FLAG         = "fields"
	LIMIT_FLAG          = "limit"
	CREATED_BEFORE_FLAG = "createdBefore"
	CREATED_AFTER_FLAG  = "createdAfter"
	WIDTH_FLAG          = "width"
	HEIGHT_FLAG         = "height"
	EXTENSION_FLAG      = "extension"
	OUTPUT_FLAG         = "output"
)

func createDocumentAction(conf *config.Configuration, c *cli.Context) error {
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	opts := boxview.CreateDocumentOptions{
		URL:        c.String(URL_FLAG),
		Name:       c.String(NAME_FLAG),
		Thumbnails: c.String(THUMBNAILS_FLAG),
		NonSVG:     c.Bool(NON_SVG_FLAG),
	}

	var doc *boxview.Document
	if path := c.String(FILE_FLAG); path != "" {
		doc, err = client.CreateDocumentFromPath(c.Context, path, opts)
	} else {
		doc, err = client.CreateDocument(c.Context, opts)
	}
	if err != nil {
		return err
	}

	return printJSON(c.App.Writer, doc)
}

func getDocumentAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	doc, err := client.GetDocument(c.Context, id, c.StringSlice(FIELDS_FLAG)...)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, doc)
}

func updateDocumentAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	doc, err := client.UpdateDocument(c.Context, id, c.String(NAME_FLAG))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, doc)
}

func deleteDocumentAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	if err := client.DeleteDocument(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Deleted "+id)
	return nil
}

func listDocumentsAction(conf *config.Configuration, c *cli.Context) error {
	createdBefore, err := parseDate(c.String(CREATED_BEFORE_FLAG))
	if err != nil {
		return err
	}
	createdAfter, err := parseDate(c.String(CREATED_AFTER_FLAG))
	if err != nil {
		return err
	}

	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	collection, err := client.ListDocuments(c.Context, boxview.ListDocumentsOptions{
		Limit:         c.Int(LIMIT_FLAG),
		CreatedBefore: createdBefore,
		CreatedAfter:  createdAfter,
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, collection)
}

func documentStatusAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	status, err := client.GetDocumentStatus(c.Context, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, status)
	return nil
}

func readyToViewAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	doc, err := client.ReadyToView(c.Context, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return cli.Exit("Document "+id+" is not ready to view", 2)
	}
	return printJSON(c.App.Writer, doc)
}

func thumbnailAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	mimetype, err := client.GetThumbnailToFile(c.Context, c.String(OUTPUT_FLAG), id, c.Int(WIDTH_FLAG), c.Int(HEIGHT_FLAG))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, mimetype)
	return nil
}

// contentAction writes to --output when given, otherwise streams the
// document to the app writer.
func contentAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	extension := c.String(EXTENSION_FLAG)
	output := c.String(OUTPUT_FLAG)
	if output == "" {
		_, err := client.GetDocumentContent(c.Context, c.App.Writer, id, extension)
		return err
	}

	mimetype, err := client.GetDocumentContentToFile(c.Context, output, id, extension)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, mimetype)
	return nil
}

func contentMimetypeAction(conf *config.Configuration, c *cli.Context) error {
	id, err := requiredArg(c, "document id")
	if err != nil {
		return err
	}
	client, err := newClient(conf, c)
	if err != nil {
		return err
	}

	mimetype, err := client.GetDocumentContentMimetype(c.Context, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, mimetype)
	return nil
}

func NewDocumentsCommand(conf *config.Configuration) *cli.Command {
	return &cli.Command{
		Name:  "documents",
		Usage: "Create, inspect and download documents",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a document from a url or a local file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: URL_FLAG, Usage: "Public url of the file to convert"},
					&cli.StringFlag{Name: FILE_FLAG, Aliases: []string{"f"}, Usage: "Local file to upload"},
					&cli.StringFlag{Name: NAME_FLAG, Usage: "Document name"},
					&cli.StringFlag{Name: THUMBNAILS_FLAG, Usage: "Thumbnail sizes to pregenerate, e.g. 128x128,256x256"},
					&cli.BoolFlag{Name: NON_SVG_FLAG, Usage: "Also generate non-svg assets"},
				},
				Action: bind(conf, createDocumentAction),
			},
			{
				Name:      "get",
				Usage:     "Fetch a document",
				ArgsUsage: "<document id>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: FIELDS_FLAG, Usage: "Fields to return"},
				},
				Action: bind(conf, getDocumentAction),
			},
			{
				Name:      "update",
				Usage:     "Rename a document",
				ArgsUsage: "<document id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: NAME_FLAG, Usage: "New document name", Required: true},
				},
				Action: bind(conf, updateDocumentAction),
			},
			{
				Name:      "delete",
				Usage:     "Delete a document",
				ArgsUsage: "<document id>",
				Action:    bind(conf, deleteDocumentAction),
			},
			{
				Name:  "list",
				Usage: "List documents",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: LIMIT_FLAG, Usage: "Maximum number of documents"},
					&cli.StringFlag{Name: CREATED_BEFORE_FLAG, Usage: "Only documents created before this date"},
					&cli.StringFlag{Name: CREATED_AFTER_FLAG, Usage: "Only documents created after this date"},
				},
				Action: bind(conf, listDocumentsAction),
			},
			{
				Name:      "status",
				Usage:     "Print the conversion status of a document",
				ArgsUsage: "<document id>",
				Action:    bind(conf, documentStatusAction),
			},
			{
				Name:      "ready",
				Usage:     "Print the document if it is ready to view, exit 2 otherwise",
				ArgsUsage: "<document id>",
				Action:    bind(conf, readyToViewAction),
			},
			{
				Name:      "thumbnail",
				Usage:     "Download a thumbnail of a document",
				ArgsUsage: "<document id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: WIDTH_FLAG, Required: true},
					&cli.IntFlag{Name: HEIGHT_FLAG, Required: true},
					&cli.StringFlag{Name: OUTPUT_FLAG, Aliases: []string{"o"}, Usage: "File to write the thumbnail to", Required: true},
				},
				Action: bind(conf, thumbnailAction),
			},
			{
				Name:      "content",
				Usage:     "Download the converted document",
				ArgsUsage: "<document id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: EXTENSION_FLAG, Usage: "Download as .pdf or .zip"},
					&cli.StringFlag{Name: OUTPUT_FLAG, Aliases: []string{"o"}, Usage: "File to write to instead of stdout"},
				},
				Action: bind(conf, contentAction),
			},
			{
				Name:      "mimetype",
				Usage:     "Print the media type of the document content",
				ArgsUsage: "<document id>",
				Action:    bind(conf, contentMimetypeAction),
			},
		},
	}
}
