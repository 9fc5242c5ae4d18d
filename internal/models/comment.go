package models

import "time"

// Comment is a reader comment on a game. GameID is a plain reference; deleting
// a game (which nothing does) would not touch its comments.
type Comment struct {
	ID      int64     `json:"id"`
	GameID  int64     `json:"gameId"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Likes   int       `json:"likes"`
}

func (c Comment) WithID(id int64) Comment {
	c.ID = id
	return c
}

func (c Comment) Clone() Comment { return c }
