package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/burger-storefront/config"
	"github.com/yeremiapane/burger-storefront/controllers"
	"github.com/yeremiapane/burger-storefront/database"
	"github.com/yeremiapane/burger-storefront/live"
	"github.com/yeremiapane/burger-storefront/router"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

const integrationFeed = `[
 {"id":"classic","dsc":"Classic Cheeseburger","name":"Joe's","img":"https://img.example/c.jpg","price":5,"rate":4,"country":"United States"},
 {"id":"maple","dsc":"Maple Bacon Burger","name":"North","img":"https://img.example/m.jpg","price":"10","rate":5,"country":"Canada"}
]`

// TestEndToEndIntegration walks the main flow over a real listener:
// browse the menu, add items, watch the live badge, check out.
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(integrationFeed))
	}))
	defer feed.Close()

	posted := make(chan map[string]interface{}, 1)
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		posted <- body
	}))
	defer endpoint.Close()

	storage := database.NewSnapshotStore(openTestDB(t))

	t.Setenv("CAROUSEL_INTERVAL", "50ms")
	cfg, err := config.Parse()
	require.NoError(t, err)
	store, err := loadContent(cfg)
	require.NoError(t, err)

	catalog := services.NewCatalog(feed.URL, feed.Client())
	require.NoError(t, catalog.FetchAll(context.Background()))

	sender := services.NewOrderSubmitter(endpoint.URL, nil)
	flows := services.NewCheckoutRegistry(func(sessionID string) *services.CheckoutFlow {
		return services.NewCheckoutFlow(sender, store, services.WithCheckoutNotifier(services.NewFlashStore(storage, sessionID)))
	})

	r, err := router.SetupRouter(&controllers.Storefront{
		Storage: storage,
		Content: store,
		Catalog: catalog,
		Hub:     live.NewHub(),
	}, router.Options{
		Signer:                utils.NewSessionSigner("integration", time.Hour),
		Flows:                 flows,
		CheckoutRatePerMinute: 10,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	defer srv.Close()

	jarClient := newClient(t)

	// 1. Menu renders the feed
	resp, err := jarClient.Get(srv.URL + "/menu?sort=price-desc")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Less(t, strings.Index(body, "Maple Bacon Burger"), strings.Index(body, "Classic Cheeseburger"))

	// 2. Open the live channel with the same session
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	header := http.Header{}
	for _, c := range jarClient.Jar.Cookies(mustURL(t, srv.URL)) {
		header.Add("Cookie", c.String())
	}
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer ws.Close()

	events := make(chan live.Message, 32)
	go func() {
		for {
			var msg live.Message
			if err := ws.ReadJSON(&msg); err != nil {
				close(events)
				return
			}
			events <- msg
		}
	}()
	waitFor(t, events, live.EventCarouselSlide)

	// 3. Add to cart: the badge is pushed
	resp, err = jarClient.PostForm(srv.URL+"/cart/items", url.Values{"id": {"maple"}})
	require.NoError(t, err)
	readBody(t, resp)
	update := waitFor(t, events, live.EventCartUpdate)
	assert.Equal(t, float64(1), update.Data.(map[string]interface{})["count"])

	// 4. Checkout
	resp, err = jarClient.PostForm(srv.URL+"/checkout", url.Values{
		"name": {"Rana"}, "phone": {"791234567"}, "address": {"Home"}, "city": {"Amman"},
		"street": {"Main"}, "building": {"7"}, "paymentMethod": {"online"},
	})
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "962791234567")

	select {
	case got := <-posted:
		order := got["orderData"].(map[string]interface{})
		assert.Equal(t, "online", order["paymentMethod"])
		assert.Equal(t, "14.10", order["totals"].(map[string]interface{})["total"])
	case <-time.After(2 * time.Second):
		t.Fatal("order was not posted")
	}
}

func TestLoadContentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("texts:\n  heroTitle: Hello\nconstants:\n  deliveryFee: 1\n  taxRate: 0.1\n"), 0o644))

	store, err := loadContent(config.Config{ContentFile: path, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", store.Text("heroTitle"))
	assert.Equal(t, 1.0, store.Constants.DeliveryFee)
	assert.Equal(t, "USD", store.Constants.Currency)

	free := 0.0
	store, err = loadContent(config.Config{ContentFile: path, DeliveryFee: &free})
	require.NoError(t, err)
	assert.Zero(t, store.Constants.DeliveryFee)
	assert.Equal(t, 0.1, store.Constants.TaxRate)

	_, err = loadContent(config.Config{ContentFile: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func waitFor(t *testing.T, events <-chan live.Message, name string) live.Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg, ok := <-events:
			require.True(t, ok, "live channel closed")
			if msg.Event == name {
				return msg
			}
		case <-timeout:
			t.Fatalf("no %s event", name)
		}
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

// openTestDB opens a migrated in-memory sqlite database private to the test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}
