package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/metrics"
	"github.com/midasbot/midas/midas/utils"
)

const (
	goldFeedURL    = "https://api.gold-api.com/price/XAU"
	cryptoFeedURL  = "https://api.coingecko.com/api/v3/simple/price"
	quoteCacheSize = 256
)

// GoldQuote is one spot gold reading.
type GoldQuote struct {
	Price     float64
	FetchedAt time.Time
}

// CryptoQuote is one crypto price reading with its 24h move.
type CryptoQuote struct {
	Coin      string
	PriceUSD  float64
	Change24h float64
	FetchedAt time.Time
}

// MarketDataService quotes external reference prices shown alongside
// the in-game instruments. Each asset caches for
// utils.CacheExpiration; a feed failure surfaces as a retryable error,
// never a stale made-up price.
type MarketDataService struct {
	client *http.Client
	cache  *lru.Cache
	met    *metrics.Metrics

	goldURL   string
	cryptoURL string
	now       func() time.Time
}

func NewMarketDataService(met *metrics.Metrics) *MarketDataService {
	cache, _ := lru.New(quoteCacheSize)
	return &MarketDataService{
		client:    &http.Client{Timeout: utils.MarketDataTimeout},
		cache:     cache,
		met:       met,
		goldURL:   goldFeedURL,
		cryptoURL: cryptoFeedURL,
		now:       time.Now,
	}
}

// GoldPrice returns the spot price of gold in USD per ounce.
func (s *MarketDataService) GoldPrice(ctx context.Context) (*GoldQuote, error) {
	if cached, ok := s.cache.Get("gold:XAU"); ok {
		if q, ok := cached.(GoldQuote); ok && s.now().Sub(q.FetchedAt) < utils.CacheExpiration {
			s.met.IncrementMarketData("gold", "hit")
			return &q, nil
		}
	}

	var payload struct {
		Price float64 `json:"price"`
	}
	if err := s.fetchJSON(ctx, s.goldURL, &payload); err != nil {
		s.met.IncrementMarketData("gold", "error")
		return nil, err
	}

	quote := GoldQuote{Price: payload.Price, FetchedAt: s.now()}
	s.cache.Add("gold:XAU", quote)
	s.met.IncrementMarketData("gold", "ok")
	return &quote, nil
}

// CryptoPrice returns the USD price and 24h change for a coin by its
// feed identifier, for example "bitcoin" or "ethereum".
func (s *MarketDataService) CryptoPrice(ctx context.Context, coin string) (*CryptoQuote, error) {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		return nil, apperrors.NewValidation("coin name is required")
	}

	cacheKey := "crypto:" + coin
	if cached, ok := s.cache.Get(cacheKey); ok {
		if q, ok := cached.(CryptoQuote); ok && s.now().Sub(q.FetchedAt) < utils.CacheExpiration {
			s.met.IncrementMarketData("crypto", "hit")
			return &q, nil
		}
	}

	endpoint := fmt.Sprintf("%s?ids=%s&vs_currencies=usd&include_24hr_change=true",
		s.cryptoURL, url.QueryEscape(coin))
	payload := map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
	}{}
	if err := s.fetchJSON(ctx, endpoint, &payload); err != nil {
		s.met.IncrementMarketData("crypto", "error")
		return nil, err
	}
	s.met.IncrementMarketData("crypto", "ok")

	entry, ok := payload[coin]
	if !ok {
		return nil, apperrors.NewValidation(fmt.Sprintf("the price feed does not list %q", coin))
	}

	quote := CryptoQuote{Coin: coin, PriceUSD: entry.USD, Change24h: entry.Change24h, FetchedAt: s.now()}
	s.cache.Add(cacheKey, quote)
	return &quote, nil
}

func (s *MarketDataService) fetchJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.NewTransient("price feed unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewTransient(fmt.Sprintf("price feed returned status %d", resp.StatusCode), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewTransient("price feed sent a malformed response", err)
	}
	return nil
}
