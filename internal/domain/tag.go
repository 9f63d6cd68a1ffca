package domain

// Tag is a shared label. Slug is the normalized form used for uniqueness;
// Name keeps the casing the first author typed.
type Tag struct {
	BaseModel
	Name string `gorm:"type:varchar(50);not null" json:"name"`
	Slug string `gorm:"type:varchar(60);not null;uniqueIndex:uq_tags_slug" json:"slug"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}
