package core

// A DBGroup is a topic which posts can be filed under.
// The slug is unique and must not change once it's part of an URL.
type DBGroup interface {
	Id() int
	Title() string
	Slug() string
	Description() string
}

type GroupDB interface {
	Delete(g DBGroup) error
	GetGroup(id int) (DBGroup, error)
	GetGroupBySlug(slug string) (DBGroup, error)
	GetAllGroups(limit, offset int) ([]DBGroup, error)
	InsertGroup(title, slug, description string) error
}
