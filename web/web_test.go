package web

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/journal/core"
	"github.com/wansing/journal/sqldb"
	"github.com/wansing/journal/sqldb/sqlite3"
)

func newTestServer(t *testing.T) (*core.CoreDB, http.Handler) {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.sqlite3"))
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db := &core.CoreDB{}
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.GroupDB = sqldb.NewGroupDB(sqlDB)
	db.PostDB = sqldb.NewPostDB(sqlDB)
	if err := db.Init(sqlite3.NewSessionStore(sqlDB), ""); err != nil {
		t.Fatalf("init: %v", err)
	}

	return db, db.SessionManager.LoadAndSave(NewRouter(db, ""))
}

func createUser(t *testing.T, db *core.CoreDB, name, password string) core.DBUser {
	t.Helper()
	if err := db.InsertUser(name); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	u, err := db.GetUserByName(name)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if err := db.SetPassword(u, password); err != nil {
		t.Fatalf("set password: %v", err)
	}
	return u
}

func createGroup(t *testing.T, db *core.CoreDB, slug string) core.DBGroup {
	t.Helper()
	if err := db.AddGroup("Group "+slug, slug, "a test group"); err != nil {
		t.Fatalf("insert group: %v", err)
	}
	g, err := db.GetGroupBySlug(slug)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	return g
}

func get(handler http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func postForm(handler http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func doLogin(t *testing.T, handler http.Handler, name, password string) []*http.Cookie {
	t.Helper()
	w := postForm(handler, "/login", url.Values{"name": {name}, "password": {password}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login code %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}
	return cookies
}

func countPosts(body string) int {
	return strings.Count(body, `<div class="journal-post">`)
}

func TestPublicPages(t *testing.T) {

	db, handler := newTestServer(t)
	author := createUser(t, db, "auth", "secret")
	group := createGroup(t, db, "test-slug")
	if _, err := db.AddPost("a test post", author, group.Id()); err != nil {
		t.Fatalf("add post: %v", err)
	}

	for _, path := range []string{"/", "/group/test-slug", "/profile/auth", "/posts/1"} {
		if w := get(handler, path); w.Code != http.StatusOK {
			t.Errorf("GET %s: code %d", path, w.Code)
		}
	}

	if w := get(handler, "/group/unknown-slug"); w.Code != http.StatusNotFound {
		t.Errorf("unknown slug: code %d", w.Code)
	}
	if w := get(handler, "/profile/nobody"); w.Code != http.StatusNotFound {
		t.Errorf("unknown user: code %d", w.Code)
	}
	if w := get(handler, "/posts/999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown post: code %d", w.Code)
	}
}

func TestRequireLogin(t *testing.T) {

	db, handler := newTestServer(t)
	author := createUser(t, db, "auth", "secret")
	if _, err := db.AddPost("a post", author, 0); err != nil {
		t.Fatalf("add post: %v", err)
	}

	for _, path := range []string{"/create", "/posts/1/edit"} {
		w := get(handler, path)
		if w.Code != http.StatusSeeOther {
			t.Errorf("GET %s: code %d, want redirect", path, w.Code)
		}
		if location := w.Header().Get("Location"); location != "/login" {
			t.Errorf("GET %s: redirected to %q", path, location)
		}
	}
}

func TestCreatePost(t *testing.T) {

	db, handler := newTestServer(t)
	createUser(t, db, "auth", "secret")
	group := createGroup(t, db, "test-slug")
	cookies := doLogin(t, handler, "auth", "secret")

	if w := get(handler, "/create", cookies...); w.Code != http.StatusOK {
		t.Fatalf("GET form: code %d", w.Code)
	}

	w := postForm(handler, "/create", url.Values{"text": {"a new post"}, "group": {"1"}}, cookies...)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST: code %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/profile/auth" {
		t.Errorf("redirected to %q", location)
	}

	count, err := db.CountPosts()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d posts", count)
	}

	posts, err := db.GetPosts(10, 0)
	if err != nil {
		t.Fatalf("get posts: %v", err)
	}
	if posts[0].AuthorName() != "auth" {
		t.Errorf("author is %q", posts[0].AuthorName())
	}
	if posts[0].GroupId() != group.Id() {
		t.Errorf("group is %d", posts[0].GroupId())
	}
}

func TestCreatePostInvalid(t *testing.T) {

	db, handler := newTestServer(t)
	createUser(t, db, "auth", "secret")
	cookies := doLogin(t, handler, "auth", "secret")

	w := postForm(handler, "/create", url.Values{"text": {"   "}}, cookies...)
	if w.Code != http.StatusOK {
		t.Fatalf("invalid POST: code %d, want re-rendered form", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Text can&#39;t be empty.") {
		t.Errorf("no field error in body")
	}

	if count, _ := db.CountPosts(); count != 0 {
		t.Errorf("invalid submission was persisted")
	}

	// unknown group id
	w = postForm(handler, "/create", url.Values{"text": {"hello"}, "group": {"99"}}, cookies...)
	if w.Code != http.StatusOK {
		t.Fatalf("unknown group POST: code %d", w.Code)
	}
	if count, _ := db.CountPosts(); count != 0 {
		t.Errorf("submission with unknown group was persisted")
	}
}

func TestEditPost(t *testing.T) {

	db, handler := newTestServer(t)
	author := createUser(t, db, "auth", "secret")
	createUser(t, db, "other", "secret2")
	group := createGroup(t, db, "test-slug")

	id, err := db.AddPost("original text", author, group.Id())
	if err != nil {
		t.Fatalf("add post: %v", err)
	}

	cookies := doLogin(t, handler, "auth", "secret")

	w := get(handler, "/posts/1/edit", cookies...)
	if w.Code != http.StatusOK {
		t.Fatalf("GET form: code %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "original text") {
		t.Errorf("form not pre-filled")
	}

	// change text, clear group
	w = postForm(handler, "/posts/1/edit", url.Values{"text": {"changed text"}, "group": {""}}, cookies...)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST: code %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/posts/1" {
		t.Errorf("redirected to %q", location)
	}

	post, err := db.GetPost(id)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if post.Text() != "changed text" {
		t.Errorf("text is %q", post.Text())
	}
	if post.GroupId() != 0 {
		t.Errorf("group not cleared: %d", post.GroupId())
	}
	if count, _ := db.CountPosts(); count != 1 {
		t.Errorf("post count changed: %d", count)
	}

	// non-owner is rejected
	otherCookies := doLogin(t, handler, "other", "secret2")
	if w := get(handler, "/posts/1/edit", otherCookies...); w.Code != http.StatusForbidden {
		t.Errorf("non-owner GET: code %d, want 403", w.Code)
	}
	if w := postForm(handler, "/posts/1/edit", url.Values{"text": {"hijacked"}}, otherCookies...); w.Code != http.StatusForbidden {
		t.Errorf("non-owner POST: code %d, want 403", w.Code)
	}
	if post, _ := db.GetPost(id); post.Text() != "changed text" {
		t.Errorf("non-owner edit was persisted")
	}

	// unknown post id
	if w := get(handler, "/posts/999/edit", cookies...); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: code %d", w.Code)
	}
}

func TestPagination(t *testing.T) {

	db, handler := newTestServer(t)
	author := createUser(t, db, "auth", "secret")
	group := createGroup(t, db, "test-slug")

	for i := 0; i < 15; i++ {
		if _, err := db.AddPost("a post", author, group.Id()); err != nil {
			t.Fatalf("add post: %v", err)
		}
	}

	for _, test := range []struct {
		path  string
		posts int
	}{
		{"/", 10},
		{"/?page=2", 5},
		{"/?page=3", 5}, // beyond the last page: last page, no error
		{"/?page=abc", 10},
		{"/group/test-slug", 10},
		{"/group/test-slug?page=2", 5},
		{"/profile/auth?page=2", 5},
	} {
		w := get(handler, test.path)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: code %d", test.path, w.Code)
			continue
		}
		if got := countPosts(w.Body.String()); got != test.posts {
			t.Errorf("GET %s: %d posts, want %d", test.path, got, test.posts)
		}
	}
}

func TestChangePasswordPage(t *testing.T) {

	db, handler := newTestServer(t)
	createUser(t, db, "auth", "secret")

	// guest is redirected
	if w := get(handler, "/password"); w.Code != http.StatusSeeOther {
		t.Errorf("guest: code %d", w.Code)
	}

	cookies := doLogin(t, handler, "auth", "secret")

	if w := get(handler, "/password", cookies...); w.Code != http.StatusOK {
		t.Fatalf("GET form: code %d", w.Code)
	}

	// wrong old password re-renders the form
	w := postForm(handler, "/password", url.Values{"old": {"wrong"}, "new": {"next"}}, cookies...)
	if w.Code != http.StatusOK {
		t.Fatalf("wrong old password: code %d", w.Code)
	}

	w = postForm(handler, "/password", url.Values{"old": {"secret"}, "new": {"next"}}, cookies...)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST: code %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/profile/auth" {
		t.Errorf("redirected to %q", location)
	}

	doLogin(t, handler, "auth", "next")
}

func TestPostDetailHeading(t *testing.T) {

	db, handler := newTestServer(t)
	author := createUser(t, db, "auth", "secret")
	if _, err := db.AddPost(strings.Repeat("x", 40), author, 0); err != nil {
		t.Fatalf("add post: %v", err)
	}

	w := get(handler, "/posts/1")
	if w.Code != http.StatusOK {
		t.Fatalf("code %d", w.Code)
	}
	// the heading carries the beginning of the text, not all 40 runes
	if want := "<h1>" + strings.Repeat("x", 29) + "</h1>"; !strings.Contains(w.Body.String(), want) {
		t.Errorf("heading not truncated")
	}
}

func TestLogout(t *testing.T) {

	db, handler := newTestServer(t)
	createUser(t, db, "auth", "secret")
	cookies := doLogin(t, handler, "auth", "secret")

	w := get(handler, "/logout", cookies...)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("logout: code %d", w.Code)
	}

	// protected page redirects again after logout
	if w := get(handler, "/create"); w.Code != http.StatusSeeOther {
		t.Errorf("after logout: code %d", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {

	db, handler := newTestServer(t)
	createUser(t, db, "auth", "secret")

	w := postForm(handler, "/login", url.Values{"name": {"auth"}, "password": {"wrong"}})
	if w.Code != http.StatusOK {
		t.Fatalf("code %d, want re-rendered form", w.Code)
	}
}
