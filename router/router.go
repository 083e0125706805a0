package router

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/burger-storefront/controllers"
	"github.com/yeremiapane/burger-storefront/middlewares"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
	"github.com/yeremiapane/burger-storefront/views"
)

// Options are the router's wiring knobs beyond the storefront itself.
type Options struct {
	Signer                *utils.SessionSigner
	Flows                 *services.CheckoutRegistry
	AllowOrigin           string
	CheckoutRatePerMinute int
}

func SetupRouter(sf *controllers.Storefront, opts Options) (*gin.Engine, error) {
	tmpl, err := views.New(sf.Content)
	if err != nil {
		return nil, err
	}
	return setup(sf, opts, tmpl), nil
}

func setup(sf *controllers.Storefront, opts Options, tmpl *template.Template) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(tmpl)

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.AllowOrigin))
	r.Use(middlewares.LoggerMiddleware())

	r.StaticFS("/static", views.Static())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	pageCtrl := controllers.NewPageController(sf)
	cartCtrl := controllers.NewCartController(sf)
	checkoutCtrl := controllers.NewCheckoutController(sf, opts.Flows)
	themeCtrl := controllers.NewThemeController(sf)
	liveCtrl := controllers.NewLiveController(sf, opts.AllowOrigin)

	checkoutLimit := middlewares.NewRateLimiter(opts.CheckoutRatePerMinute).RateLimit()

	// ----------------------------------------------------------------
	//                      PAGES
	// ----------------------------------------------------------------
	site := r.Group("/")
	site.Use(middlewares.Session(opts.Signer))
	{
		site.GET("/", pageCtrl.Home)
		site.GET("/menu", pageCtrl.Menu)
		site.GET("/product", pageCtrl.Product)
		site.POST("/product/add", cartCtrl.AddFromProduct)

		site.GET("/cart", cartCtrl.View)
		site.POST("/cart/items", cartCtrl.AddItem)
		site.POST("/cart/items/:id/quantity", cartCtrl.UpdateQuantity)
		site.POST("/cart/items/:id/remove", cartCtrl.RemoveItem)

		site.GET("/checkout", checkoutCtrl.Form)
		site.POST("/checkout", checkoutLimit, checkoutCtrl.Submit)

		site.POST("/theme/toggle", themeCtrl.Toggle)
		site.GET("/live", liveCtrl.Handler)
	}

	// ----------------------------------------------------------------
	//                      JSON API
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.Session(opts.Signer))
	{
		api.GET("/menu", pageCtrl.GetMenu)
		api.GET("/menu/categories", pageCtrl.GetCategories)
		api.GET("/products/:id", pageCtrl.GetProduct)

		api.GET("/cart", cartCtrl.GetCart)
		api.POST("/cart/items", cartCtrl.APIAddItem)
		api.PATCH("/cart/items/:id", cartCtrl.APIUpdateQuantity)
		api.DELETE("/cart/items/:id", cartCtrl.APIRemoveItem)

		api.POST("/checkout", checkoutLimit, checkoutCtrl.APISubmit)
	}

	return r
}
