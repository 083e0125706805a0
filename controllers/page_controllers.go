package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/burger-storefront/middlewares"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
)

// MaxProductQuantity caps the product page quantity selector.
const MaxProductQuantity = 99

type PageController struct {
	*Storefront
}

func NewPageController(sf *Storefront) *PageController {
	return &PageController{Storefront: sf}
}

// Home renders the hero, the special offers carousel and the benefits.
func (pc *PageController) Home(c *gin.Context) {
	pc.render(c, http.StatusOK, "home.tmpl", pc.Content.Text("heroTitle"), gin.H{
		"Offers":           pc.Content.SpecialOffers,
		"Benefits":         pc.Content.Benefits,
		"CarouselIndex":    0,
		"CarouselInterval": pc.Content.Constants.CarouselInterval,
	})
}

type menuLink struct {
	Label  string
	URL    string
	Active bool
	Hidden bool
}

type pagerLink struct {
	Page     int
	URL      string
	Active   bool
	Ellipsis bool
}

type pagerNav struct {
	First, Prev, Next, Last string
	AtStart, AtEnd          bool
}

type menuCard struct {
	Product  models.MenuProduct
	Quantity int
}

func menuURL(state services.MenuViewState) string {
	if q := state.Query().Encode(); q != "" {
		return "/menu?" + q
	}
	return "/menu"
}

// Menu renders the filtered, sorted, paged grid. The view state lives in the
// query string so every control is a plain link.
func (pc *PageController) Menu(c *gin.Context) {
	title := pc.Content.Text("menuTitle")
	if err := pc.Catalog.Err(); err != nil {
		pc.flash(c).Notify(c.Request.Context(), services.Toast{Type: services.ToastError, Message: pc.Content.Text("menuLoadError")})
		pc.render(c, http.StatusOK, "menu.tmpl", title, gin.H{"LoadError": true})
		return
	}

	view := services.RestoreMenuView(pc.Catalog.Products(), services.ParseMenuViewState(c.Request.URL.Query()))
	state := view.State()
	page := view.CurrentPage()

	var categories []menuLink
	hasHidden := false
	for _, opt := range view.CategoryOptions() {
		label := opt.Value
		if opt.Value == services.AllCategories {
			label = pc.Content.TextOr("categoryFilterAll", "All")
		}
		categories = append(categories, menuLink{
			Label:  label,
			URL:    menuURL(services.MenuViewState{Category: opt.Value, Sort: state.Sort, Page: 1}),
			Active: opt.Active,
			Hidden: opt.Hidden,
		})
		hasHidden = hasHidden || opt.Hidden
	}

	var pager []pagerLink
	for _, l := range services.PaginationWindow(page.CurrentPage, page.TotalPages) {
		link := pagerLink{Page: l.Page, Active: l.Active, Ellipsis: l.Ellipsis}
		if !l.Ellipsis {
			link.URL = menuURL(services.MenuViewState{Category: state.Category, Sort: state.Sort, Page: l.Page})
		}
		pager = append(pager, link)
	}

	at := func(action services.PageAction) string {
		p := services.ResolvePageAction(action, page.CurrentPage, page.TotalPages)
		return menuURL(services.MenuViewState{Category: state.Category, Sort: state.Sort, Page: p})
	}

	cart := services.NewCartStore(pc.Storage, middlewares.SessionID(c), pc.Content)
	cart.Load(c.Request.Context())
	cards := make([]menuCard, 0, len(page.Items))
	for _, p := range page.Items {
		cards = append(cards, menuCard{Product: p, Quantity: cart.Quantity(p.ID)})
	}

	pc.render(c, http.StatusOK, "menu.tmpl", title, gin.H{
		"State":               state,
		"Page":                page,
		"Cards":               cards,
		"Categories":          categories,
		"HasHiddenCategories": hasHidden,
		"Pager":               pager,
		"Nav": pagerNav{
			First:   at(services.PageFirst),
			Prev:    at(services.PagePrev),
			Next:    at(services.PageNext),
			Last:    at(services.PageLast),
			AtStart: page.CurrentPage <= 1,
			AtEnd:   page.CurrentPage >= page.TotalPages,
		},
		"ReturnURL": menuURL(state),
	})
}

// Product renders /product?id=. A missing id or unknown product renders the
// error view.
func (pc *PageController) Product(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		pc.productError(c)
		return
	}
	product, err := pc.Catalog.Find(id)
	if err != nil {
		pc.productError(c)
		return
	}

	cart := services.NewCartStore(pc.Storage, middlewares.SessionID(c), pc.Content)
	cart.Load(c.Request.Context())
	inCart := cart.Quantity(id)

	selected := 1
	if inCart > 0 {
		selected = clampQuantity(inCart)
	}

	pc.render(c, http.StatusOK, "product.tmpl", product.Name, gin.H{
		"Product":          product,
		"InCart":           inCart > 0,
		"SelectedQuantity": selected,
		"MaxQuantity":      MaxProductQuantity,
		"LinePrice":        decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(selected))),
	})
}

func (pc *PageController) productError(c *gin.Context) {
	msg := pc.Content.TextOr("productNotFound", "Product not found")
	pc.render(c, http.StatusNotFound, "product_error.tmpl", msg, gin.H{"Message": msg})
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxProductQuantity {
		return MaxProductQuantity
	}
	return q
}

// GetMenu answers /api/menu with the same query parameters as the page.
func (pc *PageController) GetMenu(c *gin.Context) {
	if err := pc.Catalog.Err(); err != nil {
		utils.RespondError(c, http.StatusBadGateway, errors.New(pc.Content.Text("menuLoadError")))
		return
	}
	view := services.RestoreMenuView(pc.Catalog.Products(), services.ParseMenuViewState(c.Request.URL.Query()))
	page := view.CurrentPage()
	utils.RespondJSON(c, http.StatusOK, "Menu page", gin.H{
		"state":      view.State(),
		"page":       page,
		"pagination": services.PaginationWindow(page.CurrentPage, page.TotalPages),
	})
}

func (pc *PageController) GetCategories(c *gin.Context) {
	view := services.RestoreMenuView(pc.Catalog.Products(), services.ParseMenuViewState(c.Request.URL.Query()))
	utils.RespondJSON(c, http.StatusOK, "List of categories", view.CategoryOptions())
}

func (pc *PageController) GetProduct(c *gin.Context) {
	product, err := pc.Catalog.Find(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product details", product)
}

func parseQuantity(raw string) (int, error) {
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid quantity")
	}
	return q, nil
}
