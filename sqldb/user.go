package sqldb

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/wansing/journal/core"
	"github.com/wansing/journal/util"
)

var ErrAuth = errors.New("authentication failed")

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

func hash(salt string, password string) string {
	var hash = sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(hash[:])
}

type user struct {
	id   int
	name string
	salt string
	pass string // hash
}

func (u *user) hash(password string) string {
	return hash(u.salt, password)
}

func (u *user) Id() int {
	return u.id
}

func (u *user) Name() string {
	return u.name
}

type UserDB struct {
	*sql.DB
	deleteUser  *sql.Stmt
	getAll      *sql.Stmt
	get         *sql.Stmt
	getByName   *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	setPassword *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS usr (
			id INTEGER PRIMARY KEY,
			name varchar(64) NOT NULL,
			salt varchar(64) NOT NULL DEFAULT '',
			password varchar(64) NOT NULL DEFAULT '',
			UNIQUE(name)
		);`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.deleteUser = mustPrepare(db, "DELETE FROM usr WHERE id = ?")
	userDB.get = mustPrepare(db, "SELECT name FROM usr WHERE id = ? LIMIT 1")
	userDB.getByName = mustPrepare(db, "SELECT id FROM usr WHERE name = ? LIMIT 1")
	userDB.getAll = mustPrepare(db, "SELECT id, name, salt FROM usr ORDER BY name LIMIT ? OFFSET ?")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (name) VALUES (?)") // empty password field should be safe because no hash value equals it
	userDB.login = mustPrepare(db, "SELECT id, salt, password FROM usr WHERE name = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET salt = ?, password = ? WHERE id = ?")
	return userDB
}

// ChangePassword verifies the old password before setting the new one.
// It loads the credentials itself, the given user may come from a session.
func (db *UserDB) ChangePassword(u core.DBUser, old, new string) error {
	if _, err := db.LoginUser(u.Name(), old); err != nil {
		return err // is ErrAuth if old is wrong
	}
	return db.SetPassword(u, new)
}

// Delete removes the user and all their posts in one transaction.
func (db *UserDB) Delete(u core.DBUser) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	// not prepared because the post table may not exist yet when this store is constructed
	_, err = tx.Exec("DELETE FROM post WHERE author = ?", u.Id())
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Stmt(db.deleteUser).Exec(u.Id())
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *UserDB) GetUser(id int) (core.DBUser, error) {
	var u = &user{
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&u.name)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	return u, err
}

func (db *UserDB) GetUserByName(name string) (core.DBUser, error) {
	name = clean(name)
	var u = &user{
		name: name,
	}
	err := db.getByName.QueryRow(name).Scan(&u.id)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	return u, err
}

func (db *UserDB) GetAllUsers(limit, offset int) ([]core.DBUser, error) {

	var all = []core.DBUser{}

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u = &user{}
		err = rows.Scan(&u.id, &u.name, &u.salt)
		if err != nil {
			return nil, err
		}
		all = append(all, u)
	}

	return all, rows.Err()
}

func (db *UserDB) InsertUser(name string) error {
	name = clean(name)
	_, err := db.insert.Exec(name)
	return err
}

func (db *UserDB) LoginUser(name, password string) (core.DBUser, error) {

	name = clean(name)

	var u = &user{
		name: name,
	}

	err := db.login.QueryRow(name).Scan(&u.id, &u.salt, &u.pass)
	if err == sql.ErrNoRows {
		return nil, ErrAuth // user not found
	}
	if err != nil {
		return nil, err
	}

	if u.hash(password) != u.pass {
		return nil, ErrAuth // wrong password
	}

	return u, nil
}

func (db *UserDB) SetPassword(u core.DBUser, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	if u.Id() == 0 {
		return errors.New("can't set password of user 0")
	}

	salt, err := util.RandomString32()
	if err != nil {
		return err
	}

	_, err = db.setPassword.Exec(salt, hash(salt, password), u.Id())
	if err != nil {
		return err
	}

	if u, ok := u.(*user); ok {
		u.salt = salt
	}
	return nil
}
