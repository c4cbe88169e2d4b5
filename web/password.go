package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var passwordTmpl = tmpl(`<h1>Change password</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>Current password</label>
			<input type="password" class="form-control" name="old" required autofocus>
		</div>
		<div class="form-group">
			<label>New password</label>
			<input type="password" class="form-control" name="new" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="change">Change</button>
		</div>
	</form>`)

func password(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		err := ctx.db.ChangePassword(ctx.User, req.PostFormValue("old"), req.PostFormValue("new"))
		if err == nil {
			ctx.Success("Password changed")
			ctx.SeeOther("/profile/%s", ctx.User.Name())
			return nil
		} else {
			ctx.Danger(err)
		}
	}

	return passwordTmpl.Execute(w, ctx)
}
