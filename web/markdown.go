package web

import (
	"fmt"
	"html/template"
	"io/ioutil"
	"strings"

	"github.com/wansing/journal/core"
	"github.com/wansing/journal/util"
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser *markdown.Markdown = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// renderBody renders the post text as CommonMark markdown.
func renderBody(p core.DBPost) template.HTML {
	return template.HTML(markdownParser.RenderToString([]byte(p.Text())))
}

// renderTeaser renders the post text cut at the "more" marker,
// with the first heading linked to the post detail page.
func renderTeaser(p core.DBPost) (template.HTML, bool) {

	body, cut := util.CutMore(markdownParser.RenderToString([]byte(p.Text())))

	bodyBytes, err := ioutil.ReadAll(
		util.AnchorHeading(
			strings.NewReader(body),
			fmt.Sprintf(`<a href="/posts/%d" class="journal-post-headline">`, p.Id()),
		),
	)
	if err != nil {
		return template.HTML(body), cut
	}

	return template.HTML(bodyBytes), cut
}
