package router

import "github.com/gin-gonic/gin"

// Module is a feature slice that mounts its own routes under /api.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects feature modules and mounts them under a shared /api group
// once during startup.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use appends middleware applied to the whole /api group ahead of any module routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
