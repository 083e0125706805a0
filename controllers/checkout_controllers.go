package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/burger-storefront/middlewares"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
)

type CheckoutController struct {
	*Storefront
	Flows *services.CheckoutRegistry
}

func NewCheckoutController(sf *Storefront, flows *services.CheckoutRegistry) *CheckoutController {
	return &CheckoutController{Storefront: sf, Flows: flows}
}

// Form renders the checkout form. An empty cart goes back to the cart page,
// where the checkout button is disabled.
func (cc *CheckoutController) Form(c *gin.Context) {
	cart := cc.pageCart(c)
	if len(cart.Items()) == 0 {
		redirect(c, "/cart")
		return
	}
	cc.renderForm(c, http.StatusOK, cart, services.CheckoutForm{PaymentMethod: models.PaymentCash}, "")
}

func (cc *CheckoutController) renderForm(c *gin.Context, code int, cart *services.CartStore, form services.CheckoutForm, formErr string) {
	flow := cc.Flows.For(middlewares.SessionID(c))
	cc.render(c, code, "checkout.tmpl", cc.Content.Text("checkoutTitle"), gin.H{
		"Form":           form,
		"Error":          formErr,
		"Items":          cart.Items(),
		"Totals":         cart.Totals(),
		"SubmitLabel":    flow.SubmitLabel(),
		"SubmitDisabled": flow.SubmitDisabled() || len(cart.Items()) == 0,
	})
}

// Submit places the order. Invalid input and delivery failures re-render the
// form with what was typed; success shows the thank-you page with an empty form
// behind it.
func (cc *CheckoutController) Submit(c *gin.Context) {
	var form services.CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart := cc.pageCart(c)
	flow := cc.Flows.For(middlewares.SessionID(c))
	receipt, err := flow.Submit(c.Request.Context(), form, cart)

	var verr *services.ValidationError
	switch {
	case err == nil:
		cc.render(c, http.StatusOK, "thank_you.tmpl", cc.Content.Text("thankYouTitle"), gin.H{
			"Phone":     receipt.Phone,
			"Reference": receipt.Reference,
		})
	case errors.As(err, &verr):
		if errors.Is(err, services.ErrEmptyCart) {
			redirect(c, "/cart")
			return
		}
		cc.renderForm(c, http.StatusUnprocessableEntity, cart, form, verr.Message)
	case errors.Is(err, services.ErrSubmissionInFlight):
		cc.renderForm(c, http.StatusConflict, cart, form, "")
	default:
		cc.renderForm(c, http.StatusBadGateway, cart, form, cc.Content.Text("orderFailed"))
	}
}

// APISubmit is Submit for JSON clients.
func (cc *CheckoutController) APISubmit(c *gin.Context) {
	var form services.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	flow := cc.Flows.For(middlewares.SessionID(c))
	receipt, err := flow.Submit(c.Request.Context(), form, cc.apiCart(c))

	var verr *services.ValidationError
	switch {
	case err == nil:
		utils.RespondJSON(c, http.StatusCreated, cc.Content.Text("thankYouMessage"), receipt)
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, utils.JSONResponse{
			Status:  false,
			Message: verr.Message,
			Data:    gin.H{"fields": verr.Fields},
		})
	case errors.Is(err, services.ErrSubmissionInFlight):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusBadGateway, errors.New(cc.Content.Text("orderFailed")))
	}
}
