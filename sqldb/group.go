package sqldb

import (
	"database/sql"

	"github.com/wansing/journal/core"
)

type group struct {
	id          int
	title       string
	slug        string
	description string
}

func (g *group) Id() int {
	return g.id
}

func (g *group) Title() string {
	return g.title
}

func (g *group) Slug() string {
	return g.slug
}

func (g *group) Description() string {
	return g.description
}

type GroupDB struct {
	*sql.DB
	delete    *sql.Stmt
	get       *sql.Stmt
	getBySlug *sql.Stmt
	getAll    *sql.Stmt
	insert    *sql.Stmt
}

func NewGroupDB(db *sql.DB) *GroupDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS grp (
			id INTEGER PRIMARY KEY,
			title varchar(200) NOT NULL,
			slug varchar(64) NOT NULL,
			description text NOT NULL DEFAULT '',
			UNIQUE(slug)
		);`)

	var groupDB = &GroupDB{}
	groupDB.DB = db
	groupDB.delete = mustPrepare(db, "DELETE FROM grp WHERE id = ?")
	groupDB.get = mustPrepare(db, "SELECT title, slug, description FROM grp WHERE id = ? LIMIT 1")
	groupDB.getBySlug = mustPrepare(db, "SELECT id, title, description FROM grp WHERE slug = ? LIMIT 1")
	groupDB.getAll = mustPrepare(db, "SELECT id, title, slug, description FROM grp ORDER BY title LIMIT ? OFFSET ?")
	groupDB.insert = mustPrepare(db, "INSERT INTO grp (title, slug, description) VALUES (?, ?, ?)")
	return groupDB
}

// Delete unlinks referencing posts and removes the group in one transaction.
// The posts themselves stay.
func (db *GroupDB) Delete(g core.DBGroup) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	// not prepared because the post table may not exist yet when this store is constructed
	_, err = tx.Exec("UPDATE post SET grp = NULL WHERE grp = ?", g.Id())
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Stmt(db.delete).Exec(g.Id())
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *GroupDB) GetGroup(id int) (core.DBGroup, error) {
	var g = &group{
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&g.title, &g.slug, &g.description)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	return g, err
}

func (db *GroupDB) GetGroupBySlug(slug string) (core.DBGroup, error) {
	var g = &group{
		slug: slug,
	}
	err := db.getBySlug.QueryRow(slug).Scan(&g.id, &g.title, &g.description)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	return g, err
}

func (db *GroupDB) GetAllGroups(limit, offset int) ([]core.DBGroup, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups = []core.DBGroup{}

	for rows.Next() {
		var g = &group{}
		err = rows.Scan(&g.id, &g.title, &g.slug, &g.description)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (db *GroupDB) InsertGroup(title, slug, description string) error {
	_, err := db.insert.Exec(title, slug, description)
	return err
}
