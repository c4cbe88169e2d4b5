package core

// A DBPost is an authored, timestamped text record.
// Group accessors return zero values if the post has no group.
type DBPost interface {
	Id() int
	Text() string
	TsCreated() int64
	AuthorId() int
	AuthorName() string
	GroupId() int // 0 means no group
	GroupTitle() string
	GroupSlug() string
}

// PostDB lists posts newest first (see sqldb).
type PostDB interface {
	GetPost(id int) (DBPost, error)
	GetPosts(limit, offset int) ([]DBPost, error)
	GetPostsByGroup(g DBGroup, limit, offset int) ([]DBPost, error)
	GetPostsByAuthor(u DBUser, limit, offset int) ([]DBPost, error)
	CountPosts() (int, error)
	CountPostsByGroup(g DBGroup) (int, error)
	CountPostsByAuthor(u DBUser) (int, error)
	InsertPost(text string, author DBUser, groupId int) (int, error)
	UpdatePost(p DBPost, text string, groupId int) error
}
