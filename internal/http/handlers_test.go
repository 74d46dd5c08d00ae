package httpapi

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"friterie/internal/auth"
	"friterie/internal/domain"
	"friterie/internal/payment"
	"friterie/internal/repository"
	"friterie/internal/service"
)

const (
	testWebhookSecret = "whsec_handlers_test"
	testAdminEmail    = "staff@friterie.be"
	testAdminPassword = "frietjes-met"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProvider stands in for Stripe on the checkout path so handler
// tests never leave the process.
type stubProvider struct {
	lastItems   []payment.LineItem
	lastOrderID string
}

func (f *stubProvider) CreateSession(ctx context.Context, items []payment.LineItem, successURL, cancelURL, orderID string) (*payment.Session, error) {
	f.lastItems = items
	f.lastOrderID = orderID
	return &payment.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}

func (f *stubProvider) VerifyWebhook(payload []byte, sigHeader string) (*payment.Event, error) {
	panic("checkout stub must not verify webhooks")
}

type testEnv struct {
	engine   *gin.Engine
	store    *repository.MemoryStore
	orders   *repository.MemoryOrders
	tokens   *repository.MemoryTokens
	provider *stubProvider
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := repository.NewMemoryStore()
	orders := repository.NewMemoryOrders(store)
	tokens := repository.NewMemoryTokens(store)
	tx := repository.NewMemoryTx(store)

	provider := &stubProvider{}
	// webhook deliveries go through real signature verification
	verifier := payment.NewStripeProvider("sk_test_key", testWebhookSecret)

	svc := Services{
		Checkout:  service.NewCheckoutService(store, orders, provider, "https://friterie.example", log),
		Kiosk:     service.NewKioskService(store, orders, tokens, tx, log),
		Orders:    service.NewOrderService(orders, log),
		Catalog:   service.NewCatalogService(store),
		Terminals: service.NewTerminalService(tokens, log),
		Settings:  service.NewSettingsService(store),
		Webhooks:  service.NewWebhookService(orders, verifier, log),
	}
	srv := NewServer(svc, auth.NewManager("test-secret"), AdminCredentials{
		Email:    testAdminEmail,
		Password: testAdminPassword,
	}, log)

	env := &testEnv{engine: srv.Engine(), store: store, orders: orders, tokens: tokens, provider: provider}
	env.seed(t)
	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	m, l, xl, drink := int64(900), int64(1300), int64(1700), int64(250)
	products := []domain.Product{
		{ID: "dish-1", Category: domain.CategoryDish, Name: "Original", PriceM: &m, PriceL: &l, PriceXL: &xl, IsAvailable: true},
		{ID: "drink-1", Category: domain.CategoryDrink, Name: "Coca-Cola", Price: &drink, IsAvailable: true},
	}
	for i := range products {
		if err := e.store.Create(ctx, &products[i]); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
}

func (e *testEnv) doJSON(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func (e *testEnv) login(t *testing.T) map[string]string {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/v1/admin/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, testAdminEmail, testAdminPassword), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	return map[string]string{"Authorization": "Bearer " + resp.Token}
}

func stripeSignature(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestCheckout_ForgedPricesIgnored(t *testing.T) {
	env := setupServer(t)

	// the client claims everything costs one cent; those fields do not
	// exist on any cart item and must not survive decoding
	body := `{
		"customer_name": "Marie",
		"items": [
			{"type": "dish", "product_id": "dish-1", "size": "L", "supplements": ["Cheddar"], "quantity": 1, "price": 1, "total": 1},
			{"type": "drink", "product_id": "drink-1", "quantity": 2, "price": 1}
		],
		"total": 3
	}`
	w := env.doJSON(t, http.MethodPost, "/api/v1/checkout", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkout = %d: %s", w.Code, w.Body)
	}
	var resp struct {
		URL string `json:"url"`
	}
	decodeBody(t, w, &resp)
	if resp.URL == "" {
		t.Fatalf("no redirect url")
	}

	o, err := env.orders.GetByID(context.Background(), env.provider.lastOrderID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	// dish L 13.00 + Cheddar 2.90 = 15.90, drinks 2 × 2.50
	if o.TotalCents != 1590+500 {
		t.Fatalf("total_cents = %d, want 2090", o.TotalCents)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("status = %s", o.Status)
	}
	for _, li := range env.provider.lastItems {
		if li.UnitCents <= 1 {
			t.Fatalf("forged price reached the payment provider: %+v", li)
		}
	}
}

func TestCheckout_BadRequests(t *testing.T) {
	env := setupServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty cart", `{"customer_name":"Marie","items":[]}`},
		{"unknown product", `{"customer_name":"Marie","items":[{"type":"drink","product_id":"ghost","quantity":1}]}`},
		{"unknown item kind", `{"customer_name":"Marie","items":[{"type":"pizza","product_id":"dish-1","quantity":1}]}`},
		{"missing customer name", `{"items":[{"type":"drink","product_id":"drink-1","quantity":1}]}`},
		{"zero quantity", `{"customer_name":"Marie","items":[{"type":"drink","product_id":"drink-1","quantity":0}]}`},
	}
	for _, c := range cases {
		w := env.doJSON(t, http.MethodPost, "/api/v1/checkout", c.body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d: %s", c.name, w.Code, w.Body)
		}
	}
	if list, _ := env.orders.List(context.Background(), repository.OrderFilter{}); len(list) != 0 {
		t.Fatalf("rejected checkouts wrote %d orders", len(list))
	}
}

func TestGetOrder(t *testing.T) {
	env := setupServer(t)
	o := &domain.Order{Status: domain.StatusPaid, OrderType: domain.OrderTypeOnline, CustomerName: "Marie"}
	if err := env.orders.Create(context.Background(), o); err != nil {
		t.Fatal(err)
	}

	w := env.doJSON(t, http.MethodGet, "/api/v1/orders/"+o.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d: %s", w.Code, w.Body)
	}
	var got domain.Order
	decodeBody(t, w, &got)
	if got.ID != o.ID || got.Status != domain.StatusPaid {
		t.Fatalf("got %+v", got)
	}

	if w := env.doJSON(t, http.MethodGet, "/api/v1/orders/missing", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing order = %d", w.Code)
	}
}

func TestKioskOrderEndpoint(t *testing.T) {
	env := setupServer(t)
	tok := &domain.KioskToken{Token: "kiosk-credential", Name: "Front", IsActive: true}
	if err := env.tokens.Create(context.Background(), tok); err != nil {
		t.Fatal(err)
	}

	body := `{"items":[{"type":"dish","product_id":"dish-1","size":"M","quantity":1}]}`

	w := env.doJSON(t, http.MethodPost, "/api/v1/kiosk/orders", body,
		map[string]string{"X-Kiosk-Token": "kiosk-credential"})
	if w.Code != http.StatusCreated {
		t.Fatalf("kiosk order = %d: %s", w.Code, w.Body)
	}
	var resp struct {
		OrderNumber int64 `json:"order_number"`
	}
	decodeBody(t, w, &resp)
	if resp.OrderNumber == 0 {
		t.Fatalf("no ticket number in response")
	}

	if w := env.doJSON(t, http.MethodPost, "/api/v1/kiosk/orders", body, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing credential = %d", w.Code)
	}
	if w := env.doJSON(t, http.MethodPost, "/api/v1/kiosk/orders", body,
		map[string]string{"X-Kiosk-Token": "stolen"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown credential = %d", w.Code)
	}
}

func TestKioskVerifyEndpoint(t *testing.T) {
	env := setupServer(t)
	tok := &domain.KioskToken{Token: "kiosk-credential", Name: "Front", IsActive: true}
	if err := env.tokens.Create(context.Background(), tok); err != nil {
		t.Fatal(err)
	}

	var resp struct {
		Valid bool `json:"valid"`
	}
	w := env.doJSON(t, http.MethodPost, "/api/v1/kiosk/verify", `{"token":"kiosk-credential"}`, nil)
	decodeBody(t, w, &resp)
	if w.Code != http.StatusOK || !resp.Valid {
		t.Fatalf("active credential: %d valid=%v", w.Code, resp.Valid)
	}

	w = env.doJSON(t, http.MethodPost, "/api/v1/kiosk/verify", `{"token":"stolen"}`, nil)
	decodeBody(t, w, &resp)
	if w.Code != http.StatusOK || resp.Valid {
		t.Fatalf("unknown credential: %d valid=%v", w.Code, resp.Valid)
	}
}

func TestStripeWebhookEndpoint(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)
	o := &domain.Order{Status: domain.StatusPending, OrderType: domain.OrderTypeOnline, CustomerName: "Marie"}
	if err := env.orders.Create(ctx, o); err != nil {
		t.Fatal(err)
	}

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"metadata": {"order_id": %q},
			"payment_intent": "pi_1"
		}}
	}`, o.ID))

	// unsigned and mis-signed deliveries are rejected without touching state
	if w := env.doJSON(t, http.MethodPost, "/webhooks/stripe", string(payload), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unsigned = %d", w.Code)
	}
	w := env.doJSON(t, http.MethodPost, "/webhooks/stripe", string(payload),
		map[string]string{"Stripe-Signature": stripeSignature(payload, "whsec_wrong")})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad signature = %d: %s", w.Code, w.Body)
	}
	if got, _ := env.orders.GetByID(ctx, o.ID); got.Status != domain.StatusPending {
		t.Fatalf("rejected delivery changed status to %s", got.Status)
	}

	w = env.doJSON(t, http.MethodPost, "/webhooks/stripe", string(payload),
		map[string]string{"Stripe-Signature": stripeSignature(payload, testWebhookSecret)})
	if w.Code != http.StatusOK {
		t.Fatalf("signed delivery = %d: %s", w.Code, w.Body)
	}
	got, _ := env.orders.GetByID(ctx, o.ID)
	if got.Status != domain.StatusPaid || got.PaymentIntentID != "pi_1" {
		t.Fatalf("order after delivery: %s / %q", got.Status, got.PaymentIntentID)
	}

	// Stripe redelivers; the replay must ack without effect
	w = env.doJSON(t, http.MethodPost, "/webhooks/stripe", string(payload),
		map[string]string{"Stripe-Signature": stripeSignature(payload, testWebhookSecret)})
	if w.Code != http.StatusOK {
		t.Fatalf("replay = %d: %s", w.Code, w.Body)
	}
}

func TestAdminAuth(t *testing.T) {
	env := setupServer(t)

	if w := env.doJSON(t, http.MethodGet, "/api/v1/admin/orders", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", w.Code)
	}
	if w := env.doJSON(t, http.MethodGet, "/api/v1/admin/orders", "",
		map[string]string{"Authorization": "Bearer bogus"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bogus token = %d", w.Code)
	}
	if w := env.doJSON(t, http.MethodPost, "/api/v1/admin/login",
		`{"email":"staff@friterie.be","password":"wrong"}`, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d", w.Code)
	}

	hdr := env.login(t)
	if w := env.doJSON(t, http.MethodGet, "/api/v1/admin/orders", "", hdr); w.Code != http.StatusOK {
		t.Fatalf("authorized list = %d: %s", w.Code, w.Body)
	}
}

func TestAdminOrderFlow(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)
	hdr := env.login(t)

	o := &domain.Order{Status: domain.StatusPendingPayment, OrderType: domain.OrderTypeKiosk, CustomerName: "Kiosk"}
	if err := env.orders.Create(ctx, o); err != nil {
		t.Fatal(err)
	}

	if w := env.doJSON(t, http.MethodPost, "/api/v1/admin/orders/"+o.ID+"/paid", "", hdr); w.Code != http.StatusNoContent {
		t.Fatalf("mark paid = %d: %s", w.Code, w.Body)
	}
	if w := env.doJSON(t, http.MethodPost, "/api/v1/admin/orders/"+o.ID+"/status",
		`{"status":"preparing"}`, hdr); w.Code != http.StatusNoContent {
		t.Fatalf("paid→preparing = %d: %s", w.Code, w.Body)
	}
	if w := env.doJSON(t, http.MethodPost, "/api/v1/admin/orders/"+o.ID+"/status",
		`{"status":"paid"}`, hdr); w.Code != http.StatusConflict {
		t.Fatalf("reverting = %d: %s", w.Code, w.Body)
	}
	if w := env.doJSON(t, http.MethodGet, "/api/v1/admin/orders?status=bogus", "", hdr); w.Code != http.StatusBadRequest {
		t.Fatalf("bogus status filter = %d", w.Code)
	}

	got, _ := env.orders.GetByID(ctx, o.ID)
	if got.Status != domain.StatusPreparing {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestAdminCatalog(t *testing.T) {
	env := setupServer(t)
	hdr := env.login(t)

	w := env.doJSON(t, http.MethodPost, "/api/v1/admin/products",
		`{"category":"dessert","name":"Dame blanche","price":450,"is_available":true}`, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body)
	}
	var created domain.Product
	decodeBody(t, w, &created)
	if created.ID == "" || created.Price == nil || *created.Price != 450 {
		t.Fatalf("created = %+v", created)
	}

	// a dish without per-size prices is not a sellable product
	if w := env.doJSON(t, http.MethodPost, "/api/v1/admin/products",
		`{"category":"dish","name":"Broken","is_available":true}`, hdr); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid dish = %d: %s", w.Code, w.Body)
	}

	w = env.doJSON(t, http.MethodPatch, "/api/v1/admin/products/"+created.ID+"/availability",
		`{"available":false}`, hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("availability = %d: %s", w.Code, w.Body)
	}

	// sold-out products drop off the public menu
	w = env.doJSON(t, http.MethodGet, "/api/v1/products?category=dessert", "", nil)
	var public []domain.Product
	decodeBody(t, w, &public)
	if len(public) != 0 {
		t.Fatalf("unavailable product visible to customers: %+v", public)
	}

	if w := env.doJSON(t, http.MethodDelete, "/api/v1/admin/products/"+created.ID, "", hdr); w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	if w := env.doJSON(t, http.MethodDelete, "/api/v1/admin/products/"+created.ID, "", hdr); w.Code != http.StatusNotFound {
		t.Fatalf("double delete = %d", w.Code)
	}
}

func TestAdminTerminals(t *testing.T) {
	env := setupServer(t)
	hdr := env.login(t)

	w := env.doJSON(t, http.MethodPost, "/api/v1/admin/terminals", `{"name":"Front counter"}`, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("activate = %d: %s", w.Code, w.Body)
	}
	var created domain.KioskToken
	decodeBody(t, w, &created)
	if created.Token == "" || !created.IsActive {
		t.Fatalf("created = %+v", created)
	}

	body := `{"items":[{"type":"drink","product_id":"drink-1","quantity":1}]}`
	if w := env.doJSON(t, http.MethodPost, "/api/v1/kiosk/orders", body,
		map[string]string{"X-Kiosk-Token": created.Token}); w.Code != http.StatusCreated {
		t.Fatalf("fresh terminal rejected: %d: %s", w.Code, w.Body)
	}

	if w := env.doJSON(t, http.MethodPatch, "/api/v1/admin/terminals/"+created.ID,
		`{"active":false}`, hdr); w.Code != http.StatusNoContent {
		t.Fatalf("deactivate = %d: %s", w.Code, w.Body)
	}
	if w := env.doJSON(t, http.MethodPost, "/api/v1/kiosk/orders", body,
		map[string]string{"X-Kiosk-Token": created.Token}); w.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated terminal still accepted: %d", w.Code)
	}
}

func TestClickCollectSetting(t *testing.T) {
	env := setupServer(t)
	hdr := env.login(t)

	var resp struct {
		Enabled bool `json:"enabled"`
	}
	w := env.doJSON(t, http.MethodGet, "/api/v1/settings/click-collect", "", nil)
	decodeBody(t, w, &resp)
	if w.Code != http.StatusOK || !resp.Enabled {
		t.Fatalf("default switch: %d enabled=%v", w.Code, resp.Enabled)
	}

	if w := env.doJSON(t, http.MethodPut, "/api/v1/admin/settings/click-collect",
		`{"enabled":false}`, hdr); w.Code != http.StatusNoContent {
		t.Fatalf("set = %d: %s", w.Code, w.Body)
	}
	w = env.doJSON(t, http.MethodGet, "/api/v1/settings/click-collect", "", nil)
	decodeBody(t, w, &resp)
	if resp.Enabled {
		t.Fatalf("switch not persisted")
	}
}
