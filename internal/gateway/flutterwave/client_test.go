package flutterwave

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lodgerhq/lodger/internal/config"
)

func testClient(baseURL string) *Client {
	return New(config.Config{
		Gateway: config.GatewayConfig{
			SecretKey: "FLWSECK_TEST-xxxx",
			BaseURL:   baseURL,
			Timeout:   2 * time.Second,
		},
	})
}

func TestCreatePaymentLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments" {
			t.Errorf("path = %q, want /payments", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer FLWSECK_TEST-xxxx" {
			t.Errorf("authorization = %q", auth)
		}
		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.TxRef == "" || req.Currency == "" {
			t.Errorf("incomplete request: %+v", req)
		}
		w.Write([]byte(`{"status":"success","data":{"link":"https://checkout.flutterwave.com/v3/hosted/pay/xyz"}}`))
	}))
	defer srv.Close()

	link, err := testClient(srv.URL).CreatePaymentLink(context.Background(), CheckoutRequest{
		TxRef:    "plan_P1_1748779200000",
		Amount:   150000,
		Currency: "NGN",
		Customer: Customer{Email: "a@b.com"},
	})
	if err != nil {
		t.Fatalf("CreatePaymentLink: %v", err)
	}
	if link != "https://checkout.flutterwave.com/v3/hosted/pay/xyz" {
		t.Fatalf("link = %q", link)
	}
}

func TestCreatePaymentLinkUpstreamError(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"status":"error","message":"invalid key"}`, http.StatusUnauthorized)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway maintenance</html>`))
		}},
		{"success without link", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"success","data":{}}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := testClient(srv.URL).CreatePaymentLink(context.Background(), CheckoutRequest{
				TxRef: "plan_P1_1", Amount: 1, Currency: "USD",
			})
			if err == nil {
				t.Fatal("expected error")
			}
			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("err = %T, want *UpstreamError", err)
			}
		})
	}
}

func TestNumberParsing(t *testing.T) {
	var payload struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
		E Number `json:"e"`
	}
	raw := `{"a": 1500.5, "b": "1450", "c": null, "d": "not a number", "e": 0}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !payload.A.Positive() || payload.A.Value != 1500.5 {
		t.Fatalf("a = %+v", payload.A)
	}
	if !payload.B.Positive() || payload.B.Value != 1450 {
		t.Fatalf("b = %+v", payload.B)
	}
	if payload.C.Valid {
		t.Fatalf("null should not be valid: %+v", payload.C)
	}
	if payload.D.Valid {
		t.Fatalf("garbage should not be valid: %+v", payload.D)
	}
	// zero parses but is not positive; callers treat it as unusable
	if !payload.E.Valid || payload.E.Positive() {
		t.Fatalf("e = %+v", payload.E)
	}
}
