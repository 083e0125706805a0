package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
)

type CartController struct {
	*Storefront
}

func NewCartController(sf *Storefront) *CartController {
	return &CartController{Storefront: sf}
}

// View renders the cart with its totals.
func (cc *CartController) View(c *gin.Context) {
	cart := cc.pageCart(c)
	cc.render(c, http.StatusOK, "cart.tmpl", cc.Content.Text("cartTitle"), gin.H{
		"Items":  cart.Items(),
		"Totals": cart.Totals(),
	})
}

// AddItem handles the grid and carousel "Add to cart" buttons.
func (cc *CartController) AddItem(c *gin.Context) {
	item, err := cc.lookup(c.PostForm("id"))
	if err != nil {
		cc.productError(c)
		return
	}
	if err := cc.pageCart(c).Add(c.Request.Context(), item.ID, item.Name, item.Price, item.Image); err != nil {
		utils.Error().Errorf("Error adding to cart: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	redirect(c, returnTo(c, "/cart"))
}

// AddFromProduct handles the product page: an item already in the cart gets
// the selected quantity, otherwise that many units are added.
func (cc *CartController) AddFromProduct(c *gin.Context) {
	id := c.PostForm("id")
	item, err := cc.lookup(id)
	if err != nil {
		cc.productError(c)
		return
	}
	qty, err := parseQuantity(c.PostForm("quantity"))
	if err != nil {
		qty = 1
	}
	qty = clampQuantity(qty)

	ctx := c.Request.Context()
	cart := cc.pageCart(c)
	if cart.Quantity(id) > 0 {
		err = cart.SetQuantity(ctx, id, qty)
	} else {
		err = cart.AddN(ctx, item.ID, item.Name, item.Price, item.Image, qty)
	}
	if err != nil {
		utils.Error().Errorf("Error updating cart from product page: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	redirect(c, "/product?id="+url.QueryEscape(id))
}

// UpdateQuantity handles the +/- controls. Going below one asks for
// confirmation first: without confirm=yes the prompt page is rendered.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	id := c.Param("id")
	qty, err := parseQuantity(c.PostForm("quantity"))
	if err != nil {
		redirect(c, returnTo(c, "/cart"))
		return
	}

	cart := cc.pageCart(c)
	if qty < 1 && cart.Quantity(id) > 0 && c.PostForm("confirm") != "yes" {
		cc.confirmRemove(c, cart, "/cart/items/"+url.PathEscape(id)+"/quantity", true)
		return
	}
	if err := cart.SetQuantity(c.Request.Context(), id, qty); err != nil {
		utils.Error().Errorf("Error updating quantity: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	redirect(c, returnTo(c, "/cart"))
}

// RemoveItem handles the Remove button.
func (cc *CartController) RemoveItem(c *gin.Context) {
	id := c.Param("id")
	cart := cc.pageCart(c)

	removed, err := cart.Remove(c.Request.Context(), id, false, nil)
	if err != nil {
		utils.Error().Errorf("Error removing item: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if !removed && cart.Quantity(id) > 0 {
		cc.confirmRemove(c, cart, "/cart/items/"+url.PathEscape(id)+"/remove", false)
		return
	}
	redirect(c, returnTo(c, "/cart"))
}

func (cc *CartController) confirmRemove(c *gin.Context, cart *services.CartStore, action string, viaQuantity bool) {
	id := c.Param("id")
	items := cart.Items()
	i := items.Find(id)
	cc.render(c, http.StatusOK, "confirm_remove.tmpl", cc.Content.Text("confirmTitle"), gin.H{
		"Message":   cc.Content.Text("removeItemConfirm"),
		"Item":      items[i],
		"Action":    action,
		"Quantity":  viaQuantity,
		"ReturnURL": returnTo(c, "/cart"),
	})
}

func (cc *CartController) productError(c *gin.Context) {
	msg := cc.Content.TextOr("productNotFound", "Product not found")
	cc.render(c, http.StatusNotFound, "product_error.tmpl", msg, gin.H{"Message": msg})
}

type cartPayload struct {
	Items  models.Cart           `json:"items"`
	Count  int                   `json:"count"`
	Totals models.TotalsSnapshot `json:"totals"`
}

func cartJSON(cart *services.CartStore) cartPayload {
	return cartPayload{
		Items:  cart.Items(),
		Count:  cart.Count(),
		Totals: cart.Totals().Snapshot(),
	}
}

// GetCart
func (cc *CartController) GetCart(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Cart", cartJSON(cc.apiCart(c)))
}

type addItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// APIAddItem adds a catalog product or special offer by id.
func (cc *CartController) APIAddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := cc.lookup(req.ID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	cart := cc.apiCart(c)
	if err := cart.AddN(c.Request.Context(), item.ID, item.Name, item.Price, item.Image, clampQuantity(req.Quantity)); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, cc.Content.Text("itemAdded"), cartJSON(cart))
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

var errConfirmationRequired = errors.New("confirmation required: repeat with confirm=yes to remove the item")

// APIUpdateQuantity sets a quantity. Zero removes only with ?confirm=yes.
func (cc *CartController) APIUpdateQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	id := c.Param("id")
	cart := cc.apiCart(c)
	if cart.Quantity(id) == 0 {
		utils.RespondError(c, http.StatusNotFound, ErrUnknownProduct)
		return
	}
	if err := cart.SetQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if *req.Quantity < 1 && cart.Quantity(id) > 0 {
		utils.RespondJSON(c, http.StatusConflict, errConfirmationRequired.Error(), cartJSON(cart))
		return
	}
	utils.RespondJSON(c, http.StatusOK, cc.Content.Text("quantityUpdated"), cartJSON(cart))
}

// APIRemoveItem removes an item; requires ?confirm=yes.
func (cc *CartController) APIRemoveItem(c *gin.Context) {
	id := c.Param("id")
	cart := cc.apiCart(c)
	if cart.Quantity(id) == 0 {
		utils.RespondError(c, http.StatusNotFound, ErrUnknownProduct)
		return
	}
	removed, err := cart.Remove(c.Request.Context(), id, false, nil)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !removed {
		utils.RespondJSON(c, http.StatusConflict, errConfirmationRequired.Error(), cartJSON(cart))
		return
	}
	utils.RespondJSON(c, http.StatusOK, cc.Content.Text("itemRemoved"), cartJSON(cart))
}
