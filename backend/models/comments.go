package models

type Comment struct {
	Model
	LessonID uint           `gorm:"index;not null" json:"lesson_id"`
	UserID   uint           `json:"user_id"`
	UserName string         `json:"user_name"`
	Text     string         `gorm:"not null" json:"text"`
	Replies  []CommentReply `json:"replies"`
}

type CommentReply struct {
	Model
	CommentID uint   `gorm:"index;not null" json:"comment_id"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	Text      string `gorm:"not null" json:"text"`
}
