package dispatch

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kamalkashyapp/fanout/internal/webclient"
)

// htmlTitle extracts the <title> of an HTML response body. Best effort: any
// parse problem yields an empty title, never an error.
func htmlTitle(resp *webclient.Response) string {
	if resp == nil || len(resp.Body) == 0 {
		return ""
	}
	if ct := resp.Headers.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
