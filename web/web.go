package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/journal/core"
	"github.com/wansing/journal/util"
)

// we need the CoreDB in the handlers
type context struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func (ctx *context) SiteName() string {
	return ctx.db.SiteName
}

func middleware(db *core.CoreDB, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var request = db.NewRequest(w, req)

		var ctx = &context{
			Prefix:  prefix + "/",
			Request: request,
			db:      db,
		}
		defer ctx.Cleanup()

		if requireLoggedIn && !ctx.LoggedIn() {
			ctx.SeeOther("/login")
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			switch {
			case errors.Is(err, core.ErrNotFound):
				ctx.WriteHeader(http.StatusNotFound)
			case errors.Is(err, core.ErrForbidden):
				ctx.WriteHeader(http.StatusForbidden)
			case errors.Is(err, core.ErrUnauthorized):
				ctx.WriteHeader(http.StatusUnauthorized)
			default:
				ctx.WriteHeader(http.StatusInternalServerError)
			}
			// probably no template has been executed, so execute error template
			errorTmpl.Execute(w, struct {
				*context
				Err error
			}{
				context: ctx,
				Err:     err,
			})
		}
	}
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

func NewRouter(db *core.CoreDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, prefix, false, index))
	router.GET("/group/:slug", middleware(db, prefix, false, groupPosts))
	router.GET("/profile/:name", middleware(db, prefix, false, profile))
	router.GET("/posts/:id", middleware(db, prefix, false, postDetail))
	GETAndPOST("/login", middleware(db, prefix, false, login))

	// private
	GETAndPOST("/create", middleware(db, prefix, true, create))
	GETAndPOST("/posts/:id/edit", middleware(db, prefix, true, edit))
	GETAndPOST("/password", middleware(db, prefix, true, password))
	router.GET("/logout", middleware(db, prefix, true, logout))

	router.ServeFiles("/static/*filepath", http.Dir("static"))

	return router
}

// a post plus the request, so dates can be localized
type postView struct {
	core.DBPost
	Request *core.Request
	Body    template.HTML
	Cut     bool
}

func teaserViews(posts []core.DBPost, req *core.Request) []*postView {
	var views = make([]*postView, 0, len(posts))
	for _, p := range posts {
		body, cut := renderTeaser(p)
		views = append(views, &postView{
			DBPost:  p,
			Request: req,
			Body:    body,
			Cut:     cut,
		})
	}
	return views
}

func pageLinks(page core.Page, href string) []template.HTML {
	return util.PageLinks(
		page.Number,
		page.NumPages,
		func(p int, name string) string {
			return `<a class="page-link" href="` + href + `?page=` + strconv.Itoa(p) + `">` + name + `</a>`
		},
		func(p int, name string) string {
			return `<span class="page-link">` + strconv.Itoa(p) + `</span>`
		},
	)
}

func tmpl(text string) *template.Template {
	t := template.Must(baseTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var baseTmpl = template.Must(template.New("base").Parse(`
<!DOCTYPE html>
<html>
	<head>
		<base href="{{ .Prefix }}">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<link rel="stylesheet" type="text/css" href="/static/bootstrap-4.4.1.min.css">
		<title>{{ .SiteName }}</title>

		<style>

			body {
				padding-bottom: 1rem;
			}

			h1 {
				font-size: 1.5rem !important;
				margin: 1rem 0 0.7rem !important;
			}

			.journal-post {
				margin-bottom: 1.5rem;
			}

			.journal-post-meta {
				color: #6c757d;
				font-size: 0.875rem;
			}

			.journal-post-headline {
				color: inherit;
			}

			.alert-inline {
				display: inline-block;
				border: 1px solid transparent;
				border-radius: .2rem;
				padding: .15rem .3rem;
			}

		</style>
	</head>
	<body>

		<nav class="navbar navbar-expand-md bg-light">
			<a class="navbar-brand" href="/">{{ .SiteName }}</a>
			<ul class="navbar-nav">
				{{ if .LoggedIn }}
					<li class="nav-item">
						<a class="nav-link" href="/create">New post</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/profile/{{ .User.Name }}">{{ .User.Name }}</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/password">Password</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/logout">Logout</a>
					</li>
				{{ else }}
					<li class="nav-item">
						<a class="nav-link" href="/login">Login</a>
					</li>
				{{ end }}
			</ul>
		</nav>

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>`))
