package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/burger-storefront/live"
	"github.com/yeremiapane/burger-storefront/middlewares"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
)

// LiveController serves the /live websocket: cart and toast pushes for the
// session, plus the special offers carousel of this page.
type LiveController struct {
	*Storefront
	Upgrader websocket.Upgrader
}

func NewLiveController(sf *Storefront, allowOrigin string) *LiveController {
	return &LiveController{
		Storefront: sf,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowOrigin || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

type slidePayload struct {
	Index int `json:"index"`
}

// Handler upgrades the request and runs until the page goes away.
func (lc *LiveController) Handler(c *gin.Context) {
	ws, err := lc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Error().Errorf("Error upgrading live connection: %v", err)
		return
	}

	sessionID := middlewares.SessionID(c)
	client := lc.Hub.Register(ws, sessionID)
	defer lc.Hub.Unregister(client)

	carousel := services.NewCarousel(len(lc.Content.SpecialOffers), lc.Content.Constants.CarouselInterval, func(index int) {
		if err := client.Send(live.Message{Event: live.EventCarouselSlide, Data: slidePayload{Index: index}}); err != nil {
			utils.Info().WithField("session", sessionID).Debugf("Carousel push failed: %v", err)
		}
	})
	carousel.Start()
	defer carousel.Stop()

	// first paint of the badge
	cart := services.NewCartStore(lc.Storage, sessionID, lc.Content)
	items := cart.Load(c.Request.Context())
	lc.Hub.PushCart(sessionID, items, cart.Totals())

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			break
		}
		var msg live.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Event {
		case live.EventCarouselPause:
			carousel.Stop()
		case live.EventCarouselResume:
			carousel.Start()
		case live.EventCarouselGoTo:
			carousel.GoTo(msg.Index)
			carousel.Start()
		case live.EventCarouselNext:
			carousel.Next()
			carousel.Start()
		case live.EventCarouselPrev:
			carousel.Prev()
			carousel.Start()
		}
	}
}
