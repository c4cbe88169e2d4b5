package web

import (
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/journal/core"
)

var groupTmpl = tmpl(`<h1>{{ .Group.Title }}</h1>

	{{ with .Group.Description }}
		<p>{{ . }}</p>
	{{ end }}

	{{ range .Posts }}
		<div class="journal-post">
			<div class="journal-post-meta">
				{{ .Request.FormatDateTime .TsCreated }}
				&middot; <a href="/profile/{{ .AuthorName }}">{{ .AuthorName }}</a>
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
		<p>No posts in this group yet.</p>
	{{ end }}

	<nav>
		<ul class="pagination justify-content-center">
			{{ range .PageLinks }}
				<li class="page-item">{{ . }}</li>
			{{ end }}
		</ul>
	</nav>`)

type groupData struct {
	*context
	Group core.DBGroup
	Page  core.Page
	Posts []*postView
}

func (data *groupData) PageLinks() []template.HTML {
	return pageLinks(data.Page, "/group/"+data.Group.Slug())
}

func groupPosts(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	group, err := ctx.db.GetGroupBySlug(params.ByName("slug"))
	if err != nil {
		return err // ErrNotFound for unknown slugs
	}

	total, err := ctx.db.CountPostsByGroup(group)
	if err != nil {
		return err
	}

	var page = core.NewPage(req.URL.Query().Get("page"), total, ctx.db.PerPage)

	posts, err := ctx.db.GetPostsByGroup(group, page.PerPage, page.Offset())
	if err != nil {
		return err
	}

	return groupTmpl.Execute(w, &groupData{
		context: ctx,
		Group:   group,
		Page:    page,
		Posts:   teaserViews(posts, ctx.Request),
	})
}
