package Controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/burger-storefront/content"
	"github.com/yeremiapane/burger-storefront/controllers"
	"github.com/yeremiapane/burger-storefront/database"
	"github.com/yeremiapane/burger-storefront/live"
	"github.com/yeremiapane/burger-storefront/middlewares"
	"github.com/yeremiapane/burger-storefront/router"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// feedProducts builds n feed records; even ones come from Canada.
func feedProducts(n int) string {
	var records []string
	for i := 1; i <= n; i++ {
		country := "United States"
		if i%2 == 0 {
			country = "Canada"
		}
		records = append(records, fmt.Sprintf(
			`{"id":"b%d","dsc":"Burger %d with a long description of the patty and bun","name":"Grill %d","img":"https://img.example/%d.jpg","price":%d.5,"rate":4.5,"country":%q}`,
			i, i, i, i, i, country))
	}
	return "[" + strings.Join(records, ",") + "]"
}

// orderEndpoint records every posted envelope.
type orderEndpoint struct {
	mu     sync.Mutex
	bodies []map[string]interface{}
}

func (o *orderEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)
	o.mu.Lock()
	o.bodies = append(o.bodies, body)
	o.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (o *orderEndpoint) received() []map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]map[string]interface{}(nil), o.bodies...)
}

type testApp struct {
	router   *gin.Engine
	orders   *orderEndpoint
	orderURL string
}

type appOptions struct {
	feedStatus int
	feedBody   string
	orderDown  bool
}

func setupApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	if opts.feedStatus == 0 {
		opts.feedStatus = http.StatusOK
	}
	if opts.feedBody == "" {
		opts.feedBody = feedProducts(30)
	}
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(opts.feedStatus)
		w.Write([]byte(opts.feedBody))
	}))
	t.Cleanup(feed.Close)

	orders := &orderEndpoint{}
	orderSrv := httptest.NewServer(http.HandlerFunc(orders.handler))
	orderURL := orderSrv.URL
	if opts.orderDown {
		orderSrv.Close()
	} else {
		t.Cleanup(orderSrv.Close)
	}

	storage := database.NewSnapshotStore(openTestDB(t))

	store := content.MustDefault()
	catalog := services.NewCatalog(feed.URL, feed.Client())
	_ = catalog.FetchAll(context.Background())

	sender := services.NewOrderSubmitter(orderURL, &http.Client{Timeout: 2 * time.Second})
	flows := services.NewCheckoutRegistry(func(sessionID string) *services.CheckoutFlow {
		return services.NewCheckoutFlow(sender, store, services.WithCheckoutNotifier(services.NewFlashStore(storage, sessionID)))
	})

	r, err := router.SetupRouter(&controllers.Storefront{
		Storage: storage,
		Content: store,
		Catalog: catalog,
		Hub:     live.NewHub(),
	}, router.Options{
		Signer:                utils.NewSessionSigner("test-secret", time.Hour),
		Flows:                 flows,
		CheckoutRatePerMinute: 100,
	})
	require.NoError(t, err)

	return &testApp{router: r, orders: orders, orderURL: orderURL}
}

// browser keeps the session cookie between requests.
type browser struct {
	t      *testing.T
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) newBrowser(t *testing.T) *browser {
	return &browser{t: t, app: a}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) sendJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

// envelope decodes a utils.JSONResponse body.
func envelope(t *testing.T, w *httptest.ResponseRecorder) (bool, string, map[string]interface{}) {
	t.Helper()
	var resp struct {
		Status  bool                   `json:"status"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Status, resp.Message, resp.Data
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
