package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"

	"fitscout-base/pkg/adapters"
	"fitscout-base/pkg/adapters/gymradar"
	"fitscout-base/pkg/adapters/muscleking"
	"fitscout-base/pkg/adapters/powerfood"
	"fitscout-base/pkg/adapters/shopsearch"
	"fitscout-base/pkg/adapters/sportprofi"
	"fitscout-base/pkg/adapters/urbanfit"
	"fitscout-base/pkg/aggregate"
	"fitscout-base/pkg/api"
	"fitscout-base/pkg/cache"
	"fitscout-base/pkg/config"
	"fitscout-base/pkg/fallback"
	"fitscout-base/pkg/history"
	"fitscout-base/pkg/logger"
	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
	"fitscout-base/pkg/rank"
)

const gymDirectoryKey = "gymdir:v1"

type server struct {
	cfg       config.Config
	chain     *fallback.Chain
	compare   *cache.Memory[fallback.OfferResult]
	directory *cache.Directory
	prices    *history.Store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv, err := newServer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer srv.close()

	log.Printf("Directory cache at %s with TTL %v", cfg.CacheDBPath, cfg.DirectoryTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("/offers", srv.offersHandler)
	mux.HandleFunc("/offers/top", srv.topHandler)
	mux.HandleFunc("/offers/history", srv.historyHandler)
	mux.HandleFunc("/gyms", srv.gymsHandler)
	mux.HandleFunc("/healthz", srv.healthHandler)
	mux.HandleFunc("/", docsHandler)

	if ip := outboundIP(); ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), cfg.Port)
	}
	fmt.Printf("Access URL: http://localhost:%s\n", cfg.Port)
	fmt.Printf("API Docs: http://localhost:%s/\n", cfg.Port)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Fatal(httpServer.ListenAndServe())
}

func newServer(cfg config.Config) (*server, error) {
	client := adapters.NewClient(cfg.AdapterTimeout)

	primary := []aggregate.OfferSource{
		muscleking.New(client, cfg.MuscleKingBaseURL),
		powerfood.New(cfg.PowerFoodBaseURL, cfg.AdapterTimeout),
		sportprofi.New(cfg.SportProfiBaseURL, cfg.AdapterTimeout),
	}
	var secondary []aggregate.OfferSource
	if cfg.ShopSearchAPIKey != "" {
		secondary = append(secondary, shopsearch.New(client, cfg.ShopSearchBaseURL, cfg.ShopSearchAPIKey))
	}
	gymSources := []aggregate.GymSource{
		gymradar.New(client, cfg.GymRadarBaseURL),
		urbanfit.New(client, cfg.UrbanFitBaseURL),
	}

	directory, err := cache.NewDirectory(cfg.CacheDBPath, cfg.DirectoryTTL)
	if err != nil {
		return nil, err
	}

	srv := &server{
		cfg:       cfg,
		chain:     fallback.NewChain(aggregate.New(cfg.AdapterTimeout), primary, secondary, gymSources),
		compare:   cache.NewMemory[fallback.OfferResult](cfg.CompareTTL),
		directory: directory,
	}

	if cfg.HistoryDBPath != "" {
		srv.prices, err = history.Open(cfg.HistoryDBPath)
		if err != nil {
			directory.Close()
			return nil, err
		}
	}
	return srv, nil
}

func (s *server) close() {
	s.directory.Close()
	if s.prices != nil {
		s.prices.Close()
	}
}

type offersResponse struct {
	Query      string                        `json:"query"`
	ServedFrom models.Tier                   `json:"served_from"`
	Count      int                           `json:"count"`
	Records    []models.Offer                `json:"records"`
	Summaries  []models.ProductSummary       `json:"summaries,omitempty"`
	Lowest     map[string]history.PricePoint `json:"lowest_recorded,omitempty"`
}

func (s *server) offersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteMethodNotAllowed(w, r.URL.Path)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		api.WriteBadRequest(w, "Missing query parameter: q", r.URL.Path)
		return
	}
	limit, ok := limitParam(r, s.cfg.DefaultLimit)
	if !ok {
		api.WriteBadRequest(w, "Invalid limit: must be a positive integer", r.URL.Path)
		return
	}

	key := fmt.Sprintf("offers:%s:%d", normalize.Fold(query), limit)
	res, hit, err := s.compare.GetOrFetch(key, func() (fallback.OfferResult, error) {
		return s.chain.Offers(r.Context(), query, limit), nil
	})
	if err != nil {
		api.WriteInternalServerError(w, err, r.URL.Path)
		return
	}
	if hit {
		logger.Dedup("Cache hit for %s", key)
	}
	if res.Tier != models.TierAPI {
		logger.Dedup("Query %q served from tier %s", query, res.Tier)
	}

	body := offersResponse{
		Query:      query,
		ServedFrom: res.Tier,
		Count:      len(res.Records),
		Records:    res.Records,
		Summaries:  rank.Summaries(res.Records),
	}
	if s.prices != nil {
		body.Lowest = s.lowestRecorded(res.Records)
	}
	api.WriteJSON(w, body)
}

func (s *server) lowestRecorded(records []models.Offer) map[string]history.PricePoint {
	out := make(map[string]history.PricePoint)
	for _, o := range records {
		if o.ProductID == "" {
			continue
		}
		if _, ok := out[o.ProductID]; ok {
			continue
		}
		if p, ok := s.prices.Lowest(o.ProductID); ok {
			out[o.ProductID] = p
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *server) topHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteMethodNotAllowed(w, r.URL.Path)
		return
	}
	limit, ok := limitParam(r, 10)
	if !ok {
		api.WriteBadRequest(w, "Invalid limit: must be a positive integer", r.URL.Path)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	key := fmt.Sprintf("top:%s", normalize.Fold(query))
	res, _, err := s.compare.GetOrFetch(key, func() (fallback.OfferResult, error) {
		return s.chain.Offers(r.Context(), query, 0), nil
	})
	if err != nil {
		api.WriteInternalServerError(w, err, r.URL.Path)
		return
	}

	top := rank.TopPromotions(res.Records, limit)
	api.WriteJSON(w, offersResponse{
		Query:      query,
		ServedFrom: res.Tier,
		Count:      len(top),
		Records:    top,
	})
}

type historyResponse struct {
	ProductID string               `json:"product_id"`
	Count     int                  `json:"count"`
	Records   []history.PricePoint `json:"records"`
}

func (s *server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteMethodNotAllowed(w, r.URL.Path)
		return
	}
	if s.prices == nil {
		api.WriteNotFound(w, "Price history is not configured", r.URL.Path)
		return
	}

	productID := strings.TrimSpace(r.URL.Query().Get("product_id"))
	if productID == "" {
		api.WriteBadRequest(w, "Missing query parameter: product_id", r.URL.Path)
		return
	}
	limit, ok := limitParam(r, 30)
	if !ok {
		api.WriteBadRequest(w, "Invalid limit: must be a positive integer", r.URL.Path)
		return
	}

	records, err := s.prices.Recent(productID, limit)
	if err != nil {
		api.WriteInternalServerError(w, err, r.URL.Path)
		return
	}
	api.WriteJSON(w, historyResponse{ProductID: productID, Count: len(records), Records: records})
}

type gymsResponse struct {
	ServedFrom      models.Tier          `json:"served_from"`
	Count           int                  `json:"count"`
	Total           int                  `json:"total"`
	AvailableCities []string             `json:"available_cities"`
	Records         []models.GymLocation `json:"records"`
}

func (s *server) gymsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteMethodNotAllowed(w, r.URL.Path)
		return
	}

	filters, problem := gymFilters(r)
	if problem != "" {
		api.WriteBadRequest(w, problem, r.URL.Path)
		return
	}

	all, hit := s.directory.Get(gymDirectoryKey)
	tier := models.TierAPI
	if hit {
		logger.Dedup("Cache hit for %s", gymDirectoryKey)
	} else {
		all, tier = s.chain.Directory(r.Context())
		// only live provider data is worth keeping for a day
		if tier == models.TierAPI {
			s.directory.Set(gymDirectoryKey, all)
		}
	}

	res := fallback.FilterGyms(all, tier, filters)
	api.WriteJSON(w, gymsResponse{
		ServedFrom:      res.Tier,
		Count:           res.Count,
		Total:           res.Total,
		AvailableCities: res.AvailableCities,
		Records:         res.Records,
	})
}

func gymFilters(r *http.Request) (fallback.GymFilters, string) {
	q := r.URL.Query()
	f := fallback.GymFilters{City: strings.TrimSpace(q.Get("city"))}

	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if (latStr == "") != (lngStr == "") {
		return f, "lat and lng must be supplied together"
	}
	if latStr != "" {
		lat, err1 := strconv.ParseFloat(latStr, 64)
		lng, err2 := strconv.ParseFloat(lngStr, 64)
		if err1 != nil || err2 != nil {
			return f, "Invalid coordinates: lat and lng must be numbers"
		}
		f.Lat, f.Lng = models.Float(lat), models.Float(lng)
	}
	if maxStr := q.Get("max_distance_km"); maxStr != "" {
		max, err := strconv.ParseFloat(maxStr, 64)
		if err != nil || max < 0 {
			return f, "Invalid max_distance_km: must be a non-negative number"
		}
		f.MaxDistanceKm = models.Float(max)
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return f, "Invalid limit: must be a positive integer"
		}
		f.Limit = limit
	}
	return f, ""
}

func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, map[string]string{"status": "ok"})
}

func docsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		api.WriteNotFound(w, "Unknown path. See the API docs at /", r.URL.Path)
		return
	}

	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("FitScout API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func limitParam(r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	return limit, true
}

func outboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP
}
