package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sitesync/backend/internal/interfaces/http/handler"
)

// APIRoutes wires every handler of the admin API into the route tree.
// Everything except health, login and embed verification sits behind
// the admin auth middleware.
type APIRoutes struct {
	AdminAuth gin.HandlerFunc

	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Sites       *handler.SiteHandler
	Sync        *handler.SyncHandler
	Account     *handler.AccountHandler
	Payments    *handler.PaymentHandler
	Credentials *handler.CredentialHandler
}

// RegisterRoutes implements RouteRegistrar
func (r *APIRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", r.System.Health)
	rg.POST("/auth/login", r.Auth.Login)
	rg.POST("/embed/verify", r.Account.VerifyEmbedToken)

	admin := rg.Group("")
	admin.Use(r.AdminAuth)

	admin.POST("/auth/logout", r.Auth.Logout)

	admin.GET("/users", r.Users.List)
	admin.GET("/users/:user_id", r.Users.Get)
	admin.POST("/users/:user_id/refresh", r.Sync.RefreshUser)

	admin.GET("/sites", r.Sites.List)
	admin.GET("/sites/:site_id", r.Sites.Get)
	admin.GET("/sites/:site_id/pages", r.Sites.ListPages)
	admin.GET("/sites/:site_id/blogs", r.Sites.ListBlogs)
	admin.GET("/sites/:site_id/products", r.Sites.ListProducts)
	admin.GET("/sites/:site_id/categories", r.Sites.ListCategories)

	admin.POST("/sites/:site_id/refresh", r.Sync.RefreshSite)
	admin.POST("/sites/:site_id/refresh/all", r.Sync.RefreshAll)
	admin.POST("/sites/:site_id/refresh/pages", r.Sync.RefreshPages)
	admin.POST("/sites/:site_id/refresh/blogs", r.Sync.RefreshBlogs)
	admin.POST("/sites/:site_id/refresh/store", r.Sync.RefreshStore)
	admin.POST("/sites/:site_id/products/:product_id/options/refresh", r.Sync.RefreshProductOptions)

	admin.POST("/sites/:site_id/publish", r.Account.PublishSite)
	admin.POST("/sites/:site_id/publish-snippet", r.Account.PublishSnippet)
	admin.PUT("/sites/:site_id/card", r.Account.UpdateCard)
	admin.POST("/sites/:site_id/deauthorize", r.Account.Deauthorize)
	admin.POST("/sites/:site_id/embed-token", r.Account.IssueEmbedToken)

	admin.POST("/account/register", r.Account.Register)

	admin.POST("/payments", r.Payments.Create)
	admin.GET("/payments", r.Payments.List)
	admin.GET("/payments/:id", r.Payments.Get)
	admin.POST("/payments/:id/notify", r.Payments.Notify)
	admin.POST("/payments/sweep", r.Payments.Sweep)

	admin.GET("/credentials", r.Credentials.List)
	admin.DELETE("/credentials/:id", r.Credentials.Delete)

	admin.POST("/jobs/:name/trigger", r.System.TriggerJob)
	admin.GET("/jobs/history", r.System.JobHistory)
}
