package sqldb

import (
	"database/sql"
	"time"

	"github.com/wansing/journal/core"
)

type post struct {
	id         int
	text       string
	pubDate    int64
	authorId   int
	authorName string
	groupId    int
	groupTitle string
	groupSlug  string
}

func (p *post) Id() int {
	return p.id
}

func (p *post) Text() string {
	return p.text
}

func (p *post) TsCreated() int64 {
	return p.pubDate
}

func (p *post) AuthorId() int {
	return p.authorId
}

func (p *post) AuthorName() string {
	return p.authorName
}

func (p *post) GroupId() int {
	return p.groupId
}

func (p *post) GroupTitle() string {
	return p.groupTitle
}

func (p *post) GroupSlug() string {
	return p.groupSlug
}

// joined columns, newest first, id breaks ties of same-second inserts
const selectPosts = `
	SELECT post.id, post.text, post.pub_date, post.author, usr.name, IFNULL(post.grp, 0), IFNULL(grp.title, ''), IFNULL(grp.slug, '')
	FROM post
	JOIN usr ON usr.id = post.author
	LEFT JOIN grp ON grp.id = post.grp`

const orderPosts = ` ORDER BY post.pub_date DESC, post.id DESC`

type PostDB struct {
	*sql.DB
	count         *sql.Stmt
	countByAuthor *sql.Stmt
	countByGroup  *sql.Stmt
	get           *sql.Stmt
	getAll        *sql.Stmt
	getByAuthor   *sql.Stmt
	getByGroup    *sql.Stmt
	insert        *sql.Stmt
	update        *sql.Stmt
}

func NewPostDB(db *sql.DB) *PostDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS post (
			id INTEGER PRIMARY KEY,
			text text NOT NULL,
			pub_date int(11) NOT NULL,
			author int(11) NOT NULL,
			grp int(11)
		);
		CREATE INDEX IF NOT EXISTS post_pub_date_idx ON post(pub_date);
		CREATE INDEX IF NOT EXISTS post_author_idx ON post(author);
		CREATE INDEX IF NOT EXISTS post_grp_idx ON post(grp);`)

	var postDB = &PostDB{}
	postDB.DB = db
	postDB.count = mustPrepare(db, "SELECT COUNT(1) FROM post")
	postDB.countByAuthor = mustPrepare(db, "SELECT COUNT(1) FROM post WHERE author = ?")
	postDB.countByGroup = mustPrepare(db, "SELECT COUNT(1) FROM post WHERE grp = ?")
	postDB.get = mustPrepare(db, selectPosts+" WHERE post.id = ? LIMIT 1")
	postDB.getAll = mustPrepare(db, selectPosts+orderPosts+" LIMIT ? OFFSET ?")
	postDB.getByAuthor = mustPrepare(db, selectPosts+" WHERE post.author = ?"+orderPosts+" LIMIT ? OFFSET ?")
	postDB.getByGroup = mustPrepare(db, selectPosts+" WHERE post.grp = ?"+orderPosts+" LIMIT ? OFFSET ?")
	postDB.insert = mustPrepare(db, "INSERT INTO post (text, pub_date, author, grp) VALUES (?, ?, ?, ?)")
	postDB.update = mustPrepare(db, "UPDATE post SET text = ?, grp = ? WHERE id = ?")
	return postDB
}

func (db *PostDB) scanPost(row *sql.Row) (core.DBPost, error) {
	var p = &post{}
	err := row.Scan(&p.id, &p.text, &p.pubDate, &p.authorId, &p.authorName, &p.groupId, &p.groupTitle, &p.groupSlug)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (db *PostDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.DBPost, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts = []core.DBPost{}

	for rows.Next() {
		var p = &post{}
		err = rows.Scan(&p.id, &p.text, &p.pubDate, &p.authorId, &p.authorName, &p.groupId, &p.groupTitle, &p.groupSlug)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (db *PostDB) GetPost(id int) (core.DBPost, error) {
	return db.scanPost(db.get.QueryRow(id))
}

func (db *PostDB) GetPosts(limit, offset int) ([]core.DBPost, error) {
	return db.getMultiple(db.getAll, limit, offset)
}

func (db *PostDB) GetPostsByGroup(g core.DBGroup, limit, offset int) ([]core.DBPost, error) {
	return db.getMultiple(db.getByGroup, g.Id(), limit, offset)
}

func (db *PostDB) GetPostsByAuthor(u core.DBUser, limit, offset int) ([]core.DBPost, error) {
	return db.getMultiple(db.getByAuthor, u.Id(), limit, offset)
}

func (db *PostDB) countRow(stmt *sql.Stmt, args ...interface{}) (int, error) {
	var count int
	err := stmt.QueryRow(args...).Scan(&count)
	return count, err
}

func (db *PostDB) CountPosts() (int, error) {
	return db.countRow(db.count)
}

func (db *PostDB) CountPostsByGroup(g core.DBGroup) (int, error) {
	return db.countRow(db.countByGroup, g.Id())
}

func (db *PostDB) CountPostsByAuthor(u core.DBUser) (int, error) {
	return db.countRow(db.countByAuthor, u.Id())
}

// InsertPost stamps the publication date. It is never updated afterwards.
func (db *PostDB) InsertPost(text string, author core.DBUser, groupId int) (int, error) {

	result, err := db.insert.Exec(text, time.Now().Unix(), author.Id(), nullableId(groupId))
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	return int(id), err
}

// UpdatePost changes text and group. Author and publication date are immutable.
func (db *PostDB) UpdatePost(p core.DBPost, text string, groupId int) error {
	_, err := db.update.Exec(text, nullableId(groupId), p.Id())
	return err
}

func nullableId(id int) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
