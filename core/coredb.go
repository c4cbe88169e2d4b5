package core

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
)

type CoreDB struct {
	GroupDB
	PostDB
	UserDB
	SessionManager *scs.SessionManager

	SiteName string
	PerPage  int     // posts per page on list views
	SqlDB    *sql.DB // exported because main closes it
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"         // 'The default value is "/". Passing the empty string "" will result in it being set to the path that the cookie was issued from.'
	c.SessionManager.Cookie.Persist = false                 // Don't store cookie across browser sessions. Required for GDPR cookie consent exemption criterion B. https://ec.europa.eu/justice/article-29/documentation/opinion-recommendation/files/2012/wp194_en.pdf
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.SiteName == "" {
		c.SiteName = "Journal"
	}

	return nil
}

// AddPost shadows PostDB.InsertPost. The author comes from the session,
// never from submitted input.
func (c *CoreDB) AddPost(text string, author DBUser, groupId int) (int, error) {
	if author == nil {
		return 0, ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.New("post text can't be empty")
	}
	return c.PostDB.InsertPost(text, author, groupId)
}

// AddGroup shadows GroupDB.InsertGroup, normalizing the slug.
// It does not care for duplicated slugs, the database must prevent them.
func (c *CoreDB) AddGroup(title, slug, description string) error {
	slug = NormalizeSlug(slug)
	if slug == "" {
		return errors.New("slug can't be empty")
	}
	if strings.TrimSpace(title) == "" {
		return errors.New("title can't be empty")
	}
	return c.GroupDB.InsertGroup(strings.TrimSpace(title), slug, description)
}

var ErrEmptyPassword = errors.New("refusing to set empty password")

// SetPassword shadows UserDB.SetPassword.
func (c *CoreDB) SetPassword(u DBUser, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return c.UserDB.SetPassword(u, password)
}

// NormalizeSlug lowercases the input and collapses anything which is not
// a letter or digit into single hyphens.
func NormalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	var b strings.Builder
	var hyphen bool
	for _, r := range slug {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		} else {
			hyphen = true
		}
	}
	return b.String()
}
