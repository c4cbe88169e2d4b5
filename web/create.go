package web

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/journal/core"
)

const groupSelectLimit = 1000

// shared by create and edit, like the original's single post form
var postFormTmpl = tmpl(`<h1>{{ if .Editing }}Edit post{{ else }}New post{{ end }}</h1>

	<form method="post">
		<div class="form-group">
			<label>Text</label>
			<textarea class="form-control" name="text" rows="10" required autofocus>{{ .Form.Text }}</textarea>
			{{ with .Error "text" }}
				<div class="alert alert-danger alert-inline">{{ . }}</div>
			{{ end }}
		</div>
		<div class="form-group">
			<label>Group</label>
			<select class="form-control" name="group">
				<option value="">no group</option>
				{{ range .Groups }}
					<option value="{{ .Id }}"{{ if $.Selected . }} selected{{ end }}>{{ .Title }}</option>
				{{ end }}
			</select>
			{{ with .Error "group" }}
				<div class="alert alert-danger alert-inline">{{ . }}</div>
			{{ end }}
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="save">{{ if .Editing }}Save{{ else }}Publish{{ end }}</button>
		</div>
	</form>`)

type postFormData struct {
	*context
	Form    *core.PostForm
	Groups  []core.DBGroup
	Editing bool
}

// wrappers for the template

func (data *postFormData) Selected(g core.DBGroup) bool {
	return data.Form.Group == strconv.Itoa(g.Id())
}

func (data *postFormData) Error(field string) string {
	return data.Form.Errors[field]
}

func create(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var form = &core.PostForm{}

	if req.Method == http.MethodPost {

		form.Text = req.PostFormValue("text")
		form.Group = req.PostFormValue("group")

		if form.Validate(ctx.db.GroupDB) {
			if _, err := ctx.db.AddPost(form.Text, ctx.User, form.GroupId()); err != nil {
				return err
			}
			ctx.Success("Post published")
			ctx.SeeOther("/profile/%s", ctx.User.Name())
			return nil
		}
		// fall through and re-render with field errors, nothing is persisted
	}

	groups, err := ctx.db.GetAllGroups(groupSelectLimit, 0)
	if err != nil {
		return err
	}

	return postFormTmpl.Execute(w, &postFormData{
		context: ctx,
		Form:    form,
		Groups:  groups,
	})
}
