package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/clock"
	"github.com/lodgerhq/lodger/internal/config"
	"github.com/lodgerhq/lodger/internal/currency"
	"github.com/lodgerhq/lodger/internal/exchange"
	"github.com/lodgerhq/lodger/internal/gateway/flutterwave"
	licensedomain "github.com/lodgerhq/lodger/internal/license/domain"
	licenserepo "github.com/lodgerhq/lodger/internal/license/repository"
	licenseservice "github.com/lodgerhq/lodger/internal/license/service"
	paymentdomain "github.com/lodgerhq/lodger/internal/payment/domain"
	paymentservice "github.com/lodgerhq/lodger/internal/payment/service"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
	planrepo "github.com/lodgerhq/lodger/internal/plan/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price_quarterly REAL,
			price_yearly REAL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE licenses (
			id BIGINT PRIMARY KEY,
			plan_id TEXT NOT NULL,
			owner_id TEXT,
			licence_key TEXT,
			payment_status TEXT NOT NULL,
			billing_period TEXT,
			transaction_id TEXT,
			expires_at DATETIME,
			metadata TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_licenses_licence_key ON licenses(licence_key) WHERE licence_key IS NOT NULL`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}
	return db
}

func seedPlan(t *testing.T, db *gorm.DB, id, name string, quarterly, yearly *float64) {
	t.Helper()
	now := time.Now().UTC()
	err := db.Exec(
		`INSERT INTO plans (id, name, price_quarterly, price_yearly, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, quarterly, yearly, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
}

func seedLicense(t *testing.T, db *gorm.DB, license licensedomain.License) {
	t.Helper()
	if license.PaymentStatus == "" {
		license.PaymentStatus = licensedomain.PaymentStatusPending
	}
	now := time.Now().UTC()
	if license.CreatedAt.IsZero() {
		license.CreatedAt = now
	}
	if license.UpdatedAt.IsZero() {
		license.UpdatedAt = now
	}
	err := db.Exec(
		`INSERT INTO licenses (id, plan_id, owner_id, licence_key, payment_status, billing_period, transaction_id, expires_at, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		license.ID, license.PlanID, license.OwnerID, license.LicenceKey, license.PaymentStatus,
		license.BillingPeriod, license.TransactionID, license.ExpiresAt, license.Metadata,
		license.CreatedAt, license.UpdatedAt,
	).Error
	if err != nil {
		t.Fatalf("seed license: %v", err)
	}
}

func assertCount(t *testing.T, db *gorm.DB, query string, want int64) {
	t.Helper()
	var got int64
	if err := db.Raw(query).Scan(&got).Error; err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if got != want {
		t.Fatalf("%s = %d, want %d", query, got, want)
	}
}

type fixedRateProvider struct {
	name  string
	rate  float64
	err   error
	calls atomic.Int64
}

func (p *fixedRateProvider) Name() string { return p.name }

func (p *fixedRateProvider) Rate(ctx context.Context, to string) (float64, error) {
	p.calls.Add(1)
	if p.err != nil {
		return 0, p.err
	}
	return p.rate, nil
}

type fixture struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	payments *paymentservice.Service
	licenses *licenseservice.Service
}

func newFixture(t *testing.T, cfg config.Config, rateProviders ...exchange.Provider) *fixture {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	licenseSvc := licenseservice.New(licenseservice.Params{
		DB:    db,
		Repo:  licenserepo.Provide(),
		GenID: node,
		Clock: fakeClock,
		Log:   zap.NewNop(),
	})

	paymentSvc := paymentservice.New(paymentservice.Params{
		DB:          db,
		Config:      cfg,
		Plans:       planrepo.Provide(),
		LicenseRepo: licenserepo.Provide(),
		Licenses:    licenseSvc,
		Resolver:    currency.NewResolver(),
		Rates:       exchange.NewChain(rateProviders, nil, time.Second, nil, nil),
		Gateway:     flutterwave.New(cfg),
		Clock:       fakeClock,
		Log:         zap.NewNop(),
	})

	return &fixture{db: db, clock: fakeClock, payments: paymentSvc, licenses: licenseSvc}
}

func gatewayConfig(baseURL string) config.Config {
	return config.Config{
		Gateway: config.GatewayConfig{
			SecretKey:   "FLWSECK_TEST-xxxx",
			BaseURL:     baseURL,
			RedirectURL: "https://app.lodgerhq.io/billing/return",
			Timeout:     2 * time.Second,
		},
	}
}

func ptr[T any](v T) *T { return &v }

func TestInitiateCheckoutConvertsCurrency(t *testing.T) {
	ctx := context.Background()

	var captured flutterwave.CheckoutRequest
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode checkout body: %v", err)
		}
		w.Write([]byte(`{"status":"success","data":{"link":"https://checkout.flutterwave.com/v3/hosted/pay/abc123"}}`))
	}))
	defer gateway.Close()

	f := newFixture(t, gatewayConfig(gateway.URL), &fixedRateProvider{name: "gateway", rate: 1500})
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))

	resp, err := f.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID:   "P1",
		Email:    "a@b.com",
		Currency: "NGN",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	if resp.PaymentLink != "https://checkout.flutterwave.com/v3/hosted/pay/abc123" {
		t.Fatalf("payment link = %q", resp.PaymentLink)
	}

	if captured.Currency != "NGN" {
		t.Fatalf("currency = %q, want NGN", captured.Currency)
	}
	if captured.Amount != 150000 {
		t.Fatalf("amount = %v, want 150000", captured.Amount)
	}
	if !regexp.MustCompile(`^plan_P1_\d+$`).MatchString(captured.TxRef) {
		t.Fatalf("tx_ref = %q, want plan_P1_<digits>", captured.TxRef)
	}
	if captured.Customer.Email != "a@b.com" {
		t.Fatalf("customer email = %q", captured.Customer.Email)
	}
	if captured.Meta["planId"] != "P1" || captured.Meta["planName"] != "Pro" {
		t.Fatalf("meta = %v", captured.Meta)
	}
	if captured.Meta["billingPeriod"] != "yearly" {
		t.Fatalf("meta billingPeriod = %v, want yearly", captured.Meta["billingPeriod"])
	}

	assertCount(t, f.db, `SELECT COUNT(1) FROM licenses WHERE payment_status = 'PENDING' AND plan_id = 'P1'`, 1)
}

func TestInitiateCheckoutUSDSkipsConversion(t *testing.T) {
	ctx := context.Background()

	var captured flutterwave.CheckoutRequest
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"status":"success","data":{"link":"https://pay.example/x"}}`))
	}))
	defer gateway.Close()

	provider := &fixedRateProvider{name: "gateway", rate: 1500}
	f := newFixture(t, gatewayConfig(gateway.URL), provider)
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))

	_, err := f.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID: "P1", Email: "a@b.com", Currency: "USD",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	if captured.Amount != 100 || captured.Currency != "USD" {
		t.Fatalf("got amount=%v currency=%q, want 100 USD", captured.Amount, captured.Currency)
	}
	if provider.calls.Load() != 0 {
		t.Fatal("USD checkout should not consult rate providers")
	}
}

func TestInitiateCheckoutIdentityFallbackChargesUSD(t *testing.T) {
	ctx := context.Background()

	var captured flutterwave.CheckoutRequest
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"status":"success","data":{"link":"https://pay.example/x"}}`))
	}))
	defer gateway.Close()

	f := newFixture(t, gatewayConfig(gateway.URL),
		&fixedRateProvider{name: "gateway", err: errors.New("down")},
	)
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))

	_, err := f.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID: "P1", Email: "a@b.com", Currency: "NGN",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	// no real rate: charge the USD list price instead of a bogus 1:1 NGN price
	if captured.Amount != 100 || captured.Currency != "USD" {
		t.Fatalf("got amount=%v currency=%q, want 100 USD", captured.Amount, captured.Currency)
	}
}

func TestInitiateCheckoutQuarterlyOnlyPlan(t *testing.T) {
	ctx := context.Background()

	var captured flutterwave.CheckoutRequest
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"status":"success","data":{"link":"https://pay.example/x"}}`))
	}))
	defer gateway.Close()

	f := newFixture(t, gatewayConfig(gateway.URL))
	seedPlan(t, f.db, "starter", "Starter", ptr(30.0), nil)

	_, err := f.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID: "starter", Email: "a@b.com", Currency: "USD",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	if captured.Amount != 30 || captured.Meta["billingPeriod"] != "quarterly" {
		t.Fatalf("got amount=%v billingPeriod=%v, want 30 quarterly", captured.Amount, captured.Meta["billingPeriod"])
	}
}

func TestInitiateCheckoutFailures(t *testing.T) {
	ctx := context.Background()

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"link":"https://pay.example/x"}}`))
	}))
	defer gateway.Close()

	f := newFixture(t, gatewayConfig(gateway.URL))
	seedPlan(t, f.db, "enterprise", "Enterprise", nil, nil)

	if _, err := f.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID: "missing", Email: "a@b.com",
	}); !errors.Is(err, plandomain.ErrNotFound) {
		t.Fatalf("unknown plan: err = %v, want ErrNotFound", err)
	}

	if _, err := f.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID: "enterprise", Email: "a@b.com",
	}); !errors.Is(err, plandomain.ErrNoPricing) {
		t.Fatalf("contact-sales plan: err = %v, want ErrNoPricing", err)
	}

	unconfigured := newFixture(t, config.Config{})
	seedPlan(t, unconfigured.db, "P1", "Pro", nil, ptr(100.0))
	if _, err := unconfigured.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID: "P1", Email: "a@b.com",
	}); !errors.Is(err, paymentdomain.ErrGatewayNotConfigured) {
		t.Fatalf("no secret key: err = %v, want ErrGatewayNotConfigured", err)
	}
}

func TestInitiateCheckoutGatewayFailure(t *testing.T) {
	ctx := context.Background()

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","message":"secret sauce leaked"}`, http.StatusBadRequest)
	}))
	defer gateway.Close()

	f := newFixture(t, gatewayConfig(gateway.URL))
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))

	_, err := f.payments.InitiateCheckout(ctx, paymentdomain.CheckoutRequest{
		PlanID: "P1", Email: "a@b.com", Currency: "USD",
	})
	var upstream *flutterwave.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	// raw gateway bodies must never surface
	if msg := upstream.Error(); regexp.MustCompile(`secret sauce`).MatchString(msg) {
		t.Fatalf("upstream body leaked: %q", msg)
	}
	// a failed checkout must not leave a PENDING row for verify to find
	assertCount(t, f.db, `SELECT COUNT(1) FROM licenses`, 0)
}

func TestVerifyActivatesPendingLicense(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, config.Config{})
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))
	seedLicense(t, f.db, licensedomain.License{ID: 1001, PlanID: "P1"})

	result, err := f.payments.Verify(ctx, paymentdomain.VerifyRequest{
		TransactionID: "TX1",
		TxRef:         "plan_P1_1748779200000",
		Status:        "successful",
		BillingPeriod: "yearly",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.LicenceKey == "" {
		t.Fatal("expected a licence key")
	}
	if result.BillingPeriod != "yearly" {
		t.Fatalf("billingPeriod = %q, want yearly", result.BillingPeriod)
	}
	if result.PlanName != "Pro" {
		t.Fatalf("planName = %q, want Pro", result.PlanName)
	}
	wantExpiry := f.clock.Now().Add(365 * 24 * time.Hour)
	if !result.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expiresAt = %v, want %v", result.ExpiresAt, wantExpiry)
	}

	assertCount(t, f.db, `SELECT COUNT(1) FROM licenses WHERE payment_status = 'PAID' AND transaction_id = 'TX1'`, 1)
}

func TestVerifyIdempotentReplay(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, config.Config{})
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))
	seedLicense(t, f.db, licensedomain.License{ID: 1002, PlanID: "P1"})

	first, err := f.payments.Verify(ctx, paymentdomain.VerifyRequest{
		TransactionID: "TX2", TxRef: "plan_P1_1748779200000", Status: "successful",
	})
	if err != nil {
		t.Fatalf("first Verify: %v", err)
	}

	var updatedAfterFirst time.Time
	if err := f.db.Raw(`SELECT updated_at FROM licenses WHERE id = 1002`).Scan(&updatedAfterFirst).Error; err != nil {
		t.Fatalf("read updated_at: %v", err)
	}

	// replay with a contradictory status still returns the stored result
	second, err := f.payments.Verify(ctx, paymentdomain.VerifyRequest{
		TransactionID: "TX2", Status: "failed",
	})
	if err != nil {
		t.Fatalf("second Verify: %v", err)
	}

	if first.LicenceKey != second.LicenceKey {
		t.Fatalf("licence key changed on replay: %q vs %q", first.LicenceKey, second.LicenceKey)
	}
	if !first.ExpiresAt.Equal(second.ExpiresAt) || first.BillingPeriod != second.BillingPeriod {
		t.Fatalf("replay result differs: %+v vs %+v", first, second)
	}

	var updatedAfterSecond time.Time
	if err := f.db.Raw(`SELECT updated_at FROM licenses WHERE id = 1002`).Scan(&updatedAfterSecond).Error; err != nil {
		t.Fatalf("read updated_at: %v", err)
	}
	if !updatedAfterFirst.Equal(updatedAfterSecond) {
		t.Fatal("replay mutated the license")
	}
}

func TestVerifyFailedStatusLeavesPending(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, config.Config{})
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))
	seedLicense(t, f.db, licensedomain.License{ID: 1003, PlanID: "P1"})

	_, err := f.payments.Verify(ctx, paymentdomain.VerifyRequest{
		TxRef: "plan_P1_1748779200000", Status: "failed",
	})
	if !errors.Is(err, paymentdomain.ErrPaymentNotSuccessful) {
		t.Fatalf("err = %v, want ErrPaymentNotSuccessful", err)
	}

	assertCount(t, f.db, `SELECT COUNT(1) FROM licenses WHERE id = 1003 AND payment_status = 'PENDING' AND licence_key IS NULL`, 1)
}

func TestVerifyMissingIdentifiers(t *testing.T) {
	f := newFixture(t, config.Config{})
	_, err := f.payments.Verify(context.Background(), paymentdomain.VerifyRequest{Status: "successful"})
	if !errors.Is(err, paymentdomain.ErrMissingIdentifiers) {
		t.Fatalf("err = %v, want ErrMissingIdentifiers", err)
	}
}

func TestVerifyLicenseNotFound(t *testing.T) {
	f := newFixture(t, config.Config{})
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))

	_, err := f.payments.Verify(context.Background(), paymentdomain.VerifyRequest{
		TransactionID: "TX404", TxRef: "plan_P1_1748779200000", Status: "successful",
	})
	if !errors.Is(err, licensedomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestVerifyTerminalStateCannotProcess(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, config.Config{})
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))
	seedLicense(t, f.db, licensedomain.License{
		ID:            1004,
		PlanID:        "P1",
		PaymentStatus: licensedomain.PaymentStatusCancelled,
		TransactionID: ptr("TX5"),
	})

	_, err := f.payments.Verify(ctx, paymentdomain.VerifyRequest{
		TransactionID: "TX5", Status: "successful",
	})
	if !errors.Is(err, licensedomain.ErrCannotProcess) {
		t.Fatalf("err = %v, want ErrCannotProcess", err)
	}
}

func TestVerifyBillingPeriodDefaultsFromPlan(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, config.Config{})
	seedPlan(t, f.db, "starter", "Starter", ptr(30.0), nil)
	seedLicense(t, f.db, licensedomain.License{ID: 1005, PlanID: "starter"})

	result, err := f.payments.Verify(ctx, paymentdomain.VerifyRequest{
		TxRef: "plan_starter_1748779200000", Status: "success",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	// quarterly-only plan: the default must match what initiation advertised
	if result.BillingPeriod != "quarterly" {
		t.Fatalf("billingPeriod = %q, want quarterly", result.BillingPeriod)
	}
	wantExpiry := f.clock.Now().Add(90 * 24 * time.Hour)
	if !result.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expiresAt = %v, want %v", result.ExpiresAt, wantExpiry)
	}
}

func TestVerifyInvalidBillingPeriod(t *testing.T) {
	f := newFixture(t, config.Config{})
	seedPlan(t, f.db, "P1", "Pro", nil, ptr(100.0))
	seedLicense(t, f.db, licensedomain.License{ID: 1006, PlanID: "P1"})

	_, err := f.payments.Verify(context.Background(), paymentdomain.VerifyRequest{
		TxRef: "plan_P1_1748779200000", Status: "successful", BillingPeriod: "weekly",
	})
	if !errors.Is(err, licensedomain.ErrInvalidBillingPeriod) {
		t.Fatalf("err = %v, want ErrInvalidBillingPeriod", err)
	}
}
