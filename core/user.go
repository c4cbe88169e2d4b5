package core

// A DBUser is an account which can log in and author posts.
type DBUser interface {
	Id() int
	Name() string // unique login name, appears in profile URLs
}

type UserDB interface {
	ChangePassword(u DBUser, old, new string) error
	Delete(u DBUser) error
	GetUser(id int) (DBUser, error)
	GetUserByName(name string) (DBUser, error)
	GetAllUsers(limit, offset int) ([]DBUser, error)
	InsertUser(name string) error
	LoginUser(name, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
}
