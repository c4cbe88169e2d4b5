package web

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/journal/core"
	"github.com/wansing/journal/util"
)

var detailTmpl = tmpl(`<h1>{{ .Title }}</h1>

	<div class="journal-post">
		<div class="journal-post-meta">
			{{ .FormatDateTime .Post.TsCreated }}
			&middot; <a href="/profile/{{ .Post.AuthorName }}">{{ .Post.AuthorName }}</a>
			{{ if .Post.GroupId }}
				&middot; <a href="/group/{{ .Post.GroupSlug }}">{{ .Post.GroupTitle }}</a>
			{{ end }}
			{{ if .Own }}
				&middot; <a href="/posts/{{ .Post.Id }}/edit">Edit</a>
			{{ end }}
		</div>
		{{ .Body }}
	</div>`)

type detailData struct {
	*context
	Post core.DBPost
	Body template.HTML
}

// Title is the beginning of the post text, like the original's string representation.
func (data *detailData) Title() string {
	return util.Trunc(data.Post.Text(), 30)
}

func (data *detailData) Own() bool {
	return data.LoggedIn() && data.User.Id() == data.Post.AuthorId()
}

func postDetail(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return core.ErrNotFound
	}

	post, err := ctx.db.GetPost(id)
	if err != nil {
		return err
	}

	return detailTmpl.Execute(w, &detailData{
		context: ctx,
		Post:    post,
		Body:    renderBody(post),
	})
}
