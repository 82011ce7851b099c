package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// dailyRatesProvider hits a public daily-rate endpoint shaped like
// open.er-api.com: {"result":"success","rates":{"NGN":1540.2,...}}.
type dailyRatesProvider struct {
	url        string
	httpClient *http.Client
}

func newDailyRatesProvider(url string, client *http.Client) *dailyRatesProvider {
	return &dailyRatesProvider{url: url, httpClient: client}
}

func (p *dailyRatesProvider) Name() string { return "daily-rates" }

func (p *dailyRatesProvider) Rate(ctx context.Context, to string) (float64, error) {
	var payload struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := fetchJSON(ctx, p.httpClient, p.url, &payload); err != nil {
		return 0, err
	}
	if payload.Result != "success" {
		return 0, fmt.Errorf("exchange: daily rates result %q", payload.Result)
	}
	rate, ok := payload.Rates[strings.ToUpper(to)]
	if !ok || !isUsable(rate) {
		return 0, fmt.Errorf("exchange: daily rates missing %s", to)
	}
	return rate, nil
}

// datasetProvider hits an alternate public dataset shaped like the jsDelivr
// currency-api snapshot: {"date":"...","usd":{"ngn":1540.2,...}}.
type datasetProvider struct {
	url        string
	httpClient *http.Client
}

func newDatasetProvider(url string, client *http.Client) *datasetProvider {
	return &datasetProvider{url: url, httpClient: client}
}

func (p *datasetProvider) Name() string { return "dataset" }

func (p *datasetProvider) Rate(ctx context.Context, to string) (float64, error) {
	var payload struct {
		USD map[string]float64 `json:"usd"`
	}
	if err := fetchJSON(ctx, p.httpClient, p.url, &payload); err != nil {
		return 0, err
	}
	rate, ok := payload.USD[strings.ToLower(to)]
	if !ok || !isUsable(rate) {
		return 0, fmt.Errorf("exchange: dataset missing %s", to)
	}
	return rate, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("exchange: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("exchange: fetch %s: %w", url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("exchange: fetch %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("exchange: decode %s: %w", url, err)
	}
	return nil
}
