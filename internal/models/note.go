package models

import (
	"errors"
	"time"
)

// DefaultTag is applied to notes created without a tag.
const DefaultTag = "General"

// ErrRecordNotFound is returned by every store when a lookup matches nothing.
var ErrRecordNotFound = errors.New("record not found")

type Note struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag"`
	CreatedAt   time.Time `json:"date"`
}

// NotePatch carries the fields of an update. Empty fields are left untouched.
type NotePatch struct {
	Title       string
	Description string
	Tag         string
}

func (p NotePatch) IsEmpty() bool {
	return p.Title == "" && p.Description == "" && p.Tag == ""
}

// Apply returns n with the non-empty patch fields copied over.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != "" {
		n.Title = p.Title
	}
	if p.Description != "" {
		n.Description = p.Description
	}
	if p.Tag != "" {
		n.Tag = p.Tag
	}
	return n
}
