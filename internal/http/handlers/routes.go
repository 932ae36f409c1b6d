package handlers

import "github.com/gin-gonic/gin"

// Mount registers the public endpoints on pub and, when admin is non-nil,
// the write endpoints on admin. Static segments are registered before :id
// so /poems/latest never parses as an id.
func (h *Handlers) Mount(pub gin.IRoutes, admin gin.IRoutes) {
	pub.GET("/poems", h.ListPoems)
	pub.GET("/poems/latest", h.ListLatestPoems)
	pub.GET("/poems/search", h.SearchPoems)
	pub.GET("/poems/featured", h.GetFeaturedPoem)
	pub.GET("/poems/history", h.ListFeaturedHistory)
	pub.GET("/poems/:id", h.GetPoem)
	pub.POST("/poems/:id/like", h.LikePoem)

	pub.GET("/authors", h.ListAuthors)
	pub.GET("/authors/:id", h.GetAuthor)
	pub.GET("/authors/:id/poems", h.ListPoemsByAuthor)

	pub.GET("/themes", h.ListThemes)
	pub.GET("/themes/:id", h.GetTheme)
	pub.GET("/themes/:id/poems", h.ListPoemsByTheme)

	if admin == nil {
		return
	}
	admin.POST("/poems", h.CreatePoem)
	admin.DELETE("/poems/:id", h.DeletePoem)
	admin.POST("/authors", h.CreateAuthor)
	admin.DELETE("/authors/:id", h.DeleteAuthor)
	admin.POST("/themes", h.CreateTheme)
	admin.DELETE("/themes/:id", h.DeleteTheme)
}
