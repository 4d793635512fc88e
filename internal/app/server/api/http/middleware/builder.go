package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

type Middleware = func(ctx huma.Context, next func(huma.Context))

// Container собирает цепочки middleware для групп операций.
// Базовые middleware идут первыми в каждой цепочке.
type Container struct {
	base    huma.Middlewares
	pending huma.Middlewares
}

// NewContainer создает контейнер с базовыми middleware
func NewContainer(base ...Middleware) *Container {
	return &Container{
		base: append(huma.Middlewares{}, base...),
	}
}

// Add добавляет middleware в следующую цепочку
func (mc *Container) Add(mw ...Middleware) *Container {
	mc.pending = append(mc.pending, mw...)
	return mc
}

// GetAllAndClear возвращает базовые и добавленные middleware и сбрасывает добавленные
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := make(huma.Middlewares, 0, len(mc.base)+len(mc.pending))
	result = append(result, mc.base...)
	result = append(result, mc.pending...)
	mc.pending = nil
	return result
}
