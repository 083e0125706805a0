package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/burger-storefront/content"
	"github.com/yeremiapane/burger-storefront/live"
	"github.com/yeremiapane/burger-storefront/middlewares"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/services"
)

var ErrUnknownProduct = errors.New("unknown product")

// Storefront holds what every controller needs to serve one session.
type Storefront struct {
	Storage services.SnapshotStorage
	Content *content.Store
	Catalog *services.Catalog
	Hub     *live.Hub
}

// orderable is something that can be put in the cart.
type orderable struct {
	ID    string
	Name  string
	Price float64
	Image string
}

// lookup resolves a catalog product or a special offer.
func (s *Storefront) lookup(id string) (orderable, error) {
	if p, err := s.Catalog.Find(id); err == nil {
		return orderable{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}, nil
	}
	for _, o := range s.Content.SpecialOffers {
		if o.ID == id {
			return orderable{ID: o.ID, Name: o.Name, Price: o.Price, Image: o.Image}, nil
		}
	}
	return orderable{}, ErrUnknownProduct
}

func (s *Storefront) flash(c *gin.Context) *services.FlashStore {
	return services.NewFlashStore(s.Storage, middlewares.SessionID(c))
}

// cart loads the session cart. Toasts go to notifier; every change is pushed
// to the session's open pages.
func (s *Storefront) cart(c *gin.Context, notifier services.Notifier) *services.CartStore {
	sessionID := middlewares.SessionID(c)
	store := services.NewCartStore(s.Storage, sessionID, s.Content,
		services.WithConfirmer(requestConfirmer(c)),
		services.WithNotifier(notifier),
	)
	store.Subscribe(func(cart models.Cart) {
		if s.Hub != nil {
			s.Hub.PushCart(sessionID, cart, services.ComputeTotals(cart, s.Content.Constants.DeliveryFee, s.Content.Constants.TaxRate))
		}
	})
	store.Load(c.Request.Context())
	return store
}

// pageCart is the cart for form posts: toasts survive the redirect.
func (s *Storefront) pageCart(c *gin.Context) *services.CartStore {
	return s.cart(c, s.flash(c))
}

// apiCart is the cart for JSON calls: toasts go straight to open pages.
func (s *Storefront) apiCart(c *gin.Context) *services.CartStore {
	var n services.Notifier = services.MultiNotifier{}
	if s.Hub != nil {
		n = s.Hub.Notifier(middlewares.SessionID(c))
	}
	return s.cart(c, n)
}

// requestConfirmer affirms only when the request carries confirm=yes, which
// the confirmation page adds when the user accepts.
func requestConfirmer(c *gin.Context) services.Confirmer {
	return services.ConfirmFunc(func(context.Context, string) bool {
		return c.PostForm("confirm") == "yes" || c.Query("confirm") == "yes"
	})
}

// render fills the layout fields shared by every page.
func (s *Storefront) render(c *gin.Context, code int, name, title string, data gin.H) {
	ctx := c.Request.Context()
	sessionID := middlewares.SessionID(c)

	cart := services.NewCartStore(s.Storage, sessionID, s.Content)
	cart.Load(ctx)

	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Theme"] = services.NewThemeStore(s.Storage, sessionID).Get(ctx)
	data["CartCount"] = cart.Count()
	data["Toasts"] = s.flash(c).Drain(ctx)
	c.HTML(code, name, data)
}

// returnTo is a local redirect target from the form, or fallback.
func returnTo(c *gin.Context, fallback string) string {
	target := c.PostForm("return")
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

// parseLocal keeps only the path and query of a referer.
func parseLocal(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "", errors.New("not a local path")
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery, nil
	}
	return u.Path, nil
}

func redirect(c *gin.Context, target string) {
	c.Redirect(http.StatusSeeOther, target)
}
