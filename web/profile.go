package web

import (
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/journal/core"
)

var profileTmpl = tmpl(`<h1>Posts by {{ .Author.Name }}</h1>

	{{ range .Posts }}
		<div class="journal-post">
			<div class="journal-post-meta">
				{{ .Request.FormatDateTime .TsCreated }}
				{{ if .GroupId }}
					&middot; <a href="/group/{{ .GroupSlug }}">{{ .GroupTitle }}</a>
				{{ end }}
				{{ if $.Own }}
					&middot; <a href="/posts/{{ .Id }}/edit">Edit</a>
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

type profileData struct {
	*context
	Author core.DBUser
	Page   core.Page
	Posts  []*postView
}

// Own reports whether the profile belongs to the session user.
func (data *profileData) Own() bool {
	return data.LoggedIn() && data.User.Id() == data.Author.Id()
}

func (data *profileData) PageLinks() []template.HTML {
	return pageLinks(data.Page, "/profile/"+data.Author.Name())
}

func profile(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	author, err := ctx.db.GetUserByName(params.ByName("name"))
	if err != nil {
		return err
	}

	total, err := ctx.db.CountPostsByAuthor(author)
	if err != nil {
		return err
	}

	var page = core.NewPage(req.URL.Query().Get("page"), total, ctx.db.PerPage)

	posts, err := ctx.db.GetPostsByAuthor(author, page.PerPage, page.Offset())
	if err != nil {
		return err
	}

	return profileTmpl.Execute(w, &profileData{
		context: ctx,
		Author:  author,
		Page:    page,
		Posts:   teaserViews(posts, ctx.Request),
	})
}
