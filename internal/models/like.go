package models

import "time"

// Like is a membership fact: the user currently likes the blog. Rows are
// toggled as a pair (insert/hard delete) and never updated in place.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BlogID    uint      `gorm:"primaryKey;autoIncrement:false" json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Blog Blog `gorm:"foreignKey:BlogID" json:"-"`
}

// Bookmark mirrors Like for the user's reading list.
type Bookmark struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BlogID    uint      `gorm:"primaryKey;autoIncrement:false" json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Blog Blog `gorm:"foreignKey:BlogID" json:"-"`
}
