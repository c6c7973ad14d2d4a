package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseRepository 通用Repository接口，提供标准CRUD操作
// T: 实体类型，必须包含ID字段
type BaseRepository[T any] interface {
	// 基础CRUD操作
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// 查询操作
	GetByFilter(ctx context.Context, filter interface{}, sort interface{}) ([]*T, error)
	GetOneByFilter(ctx context.Context, filter interface{}) (*T, error)
	Count(ctx context.Context, filter interface{}) (int64, error)

	// 分页查询
	GetPaginated(ctx context.Context, filter interface{}, sort interface{}, skip, limit int64) ([]*T, error)
}
