package domain

type SortOrder struct {
	Sort  string `bson:"sort" json:"sort" form:"sort"`    // 排序字段
	Order string `bson:"order" json:"order" form:"order"` // 排序方式（asc 或 desc）
}

// IsDesc 默认倒序
func (s SortOrder) IsDesc() bool {
	return s.Order != "asc"
}
