package core

import (
	"strconv"
	"strings"
)

// A PostForm binds submitted post fields. It carries the raw values, so a
// failed submission can be re-rendered as it was entered. The author is not
// a form field, handlers take it from the session after validation.
type PostForm struct {
	Text   string
	Group  string // submitted group id, empty means no group
	Errors map[string]string

	groupId int
}

// Validate trims the text and resolves the group selection. It returns true
// if the form can be persisted, else Errors contains a message per field.
func (f *PostForm) Validate(groups GroupDB) bool {

	f.Errors = make(map[string]string)

	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		f.Errors["text"] = "Text can't be empty."
	}

	f.groupId = 0
	if f.Group = strings.TrimSpace(f.Group); f.Group != "" {
		id, err := strconv.Atoi(f.Group)
		if err != nil || id < 1 {
			f.Errors["group"] = "Unknown group."
		} else if _, err := groups.GetGroup(id); err != nil {
			f.Errors["group"] = "Unknown group."
		} else {
			f.groupId = id
		}
	}

	return len(f.Errors) == 0
}

// GroupId returns the resolved group id, 0 for no group. Valid after Validate.
func (f *PostForm) GroupId() int {
	return f.groupId
}
