package web

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var ErrLogin = errors.New("wrong username or password")

var loginTmpl = tmpl(`<h1>Login</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>Username</label>
			<input type="text" class="form-control" name="name" value="{{ .Name }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="login">Login</button>
		</div>
	</form>`)

type loginData struct {
	*context
	Name string
}

func login(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var name string

	if req.Method == http.MethodPost {

		name = req.PostFormValue("name")
		password := req.PostFormValue("password")

		err := ctx.Login(name, password)
		if err == nil {
			ctx.SeeOther("/")
			return nil
		} else {
			ctx.Danger(ErrLogin)
			// keep POST data for name field
		}
	}

	return loginTmpl.Execute(w, &loginData{
		context: ctx,
		Name:    name,
	})
}
