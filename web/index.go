package web

import (
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/journal/core"
)

var indexTmpl = tmpl(`<h1>Latest posts</h1>

	{{ range .Posts }}
		<div class="journal-post">
			<div class="journal-post-meta">
				{{ .Request.FormatDateTime .TsCreated }}
				&middot; <a href="/profile/{{ .AuthorName }}">{{ .AuthorName }}</a>
				{{ if .GroupId }}
					&middot; <a href="/group/{{ .GroupSlug }}">{{ .GroupTitle }}</a>
				{{ end }}
			</div>
			<div class="journal-post-teaser">
				{{ .Body }}
				{{ if .Cut }}
					<p>
						<a href="/posts/{{ .Id }}">Read more</a>
					</p>
				{{ end }}
			</div>
		</div>
	{{ else }}
		<p>No posts yet.</p>
	{{ end }}

	<nav>
		<ul class="pagination justify-content-center">
			{{ range .PageLinks }}
				<li class="page-item">{{ . }}</li>
			{{ end }}
		</ul>
	</nav>`)

type indexData struct {
	*context
	Page  core.Page
	Posts []*postView
}

func (data *indexData) PageLinks() []template.HTML {
	return pageLinks(data.Page, "/")
}

func index(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	total, err := ctx.db.CountPosts()
	if err != nil {
		return err
	}

	var page = core.NewPage(req.URL.Query().Get("page"), total, ctx.db.PerPage)

	posts, err := ctx.db.GetPosts(page.PerPage, page.Offset())
	if err != nil {
		return err
	}

	return indexTmpl.Execute(w, &indexData{
		context: ctx,
		Page:    page,
		Posts:   teaserViews(posts, ctx.Request),
	})
}
