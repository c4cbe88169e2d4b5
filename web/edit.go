package web

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/journal/core"
)

// The original system showed non-owners a blank form here. That was most
// likely an authorization bug, so non-owners are rejected instead.
func edit(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return core.ErrNotFound
	}

	post, err := ctx.db.GetPost(id)
	if err != nil {
		return err
	}

	// ownership by stable user id, not by object identity
	if post.AuthorId() != ctx.User.Id() {
		return core.ErrForbidden
	}

	var form = &core.PostForm{
		Text: post.Text(),
	}
	if post.GroupId() != 0 {
		form.Group = strconv.Itoa(post.GroupId())
	}

	if req.Method == http.MethodPost {

		form.Text = req.PostFormValue("text")
		form.Group = req.PostFormValue("group")

		if form.Validate(ctx.db.GroupDB) {
			if err := ctx.db.UpdatePost(post, form.Text, form.GroupId()); err != nil {
				return err
			}
			ctx.Success("Post updated")
			ctx.SeeOther("/posts/%d", post.Id())
			return nil
		}
	}

	groups, err := ctx.db.GetAllGroups(groupSelectLimit, 0)
	if err != nil {
		return err
	}

	return postFormTmpl.Execute(w, &postFormData{
		context: ctx,
		Form:    form,
		Groups:  groups,
		Editing: true,
	})
}
