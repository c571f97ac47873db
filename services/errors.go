package services

import "errors"

// 统一的错误分类，控制器据此映射HTTP状态码
// 校验失败和权限不足必须区分，资源不存在不与权限不足混用
var (
	ErrValidation = errors.New("参数校验失败")
	ErrForbidden  = errors.New("没有操作权限")
	ErrNotFound   = errors.New("资源不存在")
	ErrConflict   = errors.New("状态冲突")
)
