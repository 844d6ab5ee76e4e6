package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"market-scout/config"
	"market-scout/models"
	"market-scout/scraper/vinted"
	"market-scout/services"
	"market-scout/storage"
	"market-scout/utils"
)

const (
	maxUploadBytes     = 10 << 20
	adminSearchLimit   = 300
	adminRequestLimit  = 200
	defaultRequestUser = "admin"
	formatCSV          = "csv"
	resultsCSVFilename = "vinted_results.csv"
)

// MarketSearcher runs a market search. *services.MarketService implements it.
type MarketSearcher interface {
	Search(ctx context.Context, req services.SearchRequest) (*models.SearchResult, error)
}

// SearchDefaults fill in parameters a search request leaves out.
type SearchDefaults struct {
	Pages int
	Pause time.Duration
}

// Handlers serves every /api/v1 endpoint.
type Handlers struct {
	market      MarketSearcher
	events      storage.EventStore
	subscribers *storage.SubscriberStore
	describer   *services.Describer
	advisor     *services.Advisor
	catalog     *config.Catalog
	defaults    SearchDefaults
	logger      *utils.Logger
	now         func() time.Time
}

// Deps groups what NewHandlers needs.
type Deps struct {
	Market      MarketSearcher
	Events      storage.EventStore
	Subscribers *storage.SubscriberStore
	Describer   *services.Describer
	Advisor     *services.Advisor
	Catalog     *config.Catalog
	Defaults    SearchDefaults
	Logger      *utils.Logger
}

func NewHandlers(d Deps) *Handlers {
	if d.Defaults.Pages < 1 {
		d.Defaults.Pages = 2
	}
	return &Handlers{
		market:      d.Market,
		events:      d.Events,
		subscribers: d.Subscribers,
		describer:   d.Describer,
		advisor:     d.Advisor,
		catalog:     d.Catalog,
		defaults:    d.Defaults,
		logger:      d.Logger,
		now:         time.Now,
	}
}

func (h *Handlers) log(r *http.Request) *utils.Logger {
	return LoggerFromContext(r.Context(), h.logger)
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Brands handles GET /api/v1/brands.
func (h *Handlers) Brands(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.catalog.Brands)
}

// Search handles GET /api/v1/search. format=csv returns the export file instead of JSON.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := services.SearchRequest{
		Query: q.Get("q"),
		Filter: services.Filter{
			Brand: q.Get("brand"),
		},
		Pages: h.defaults.Pages,
		Pause: h.defaults.Pause,
		User:  q.Get("user"),
	}

	var err error
	if req.MinPrice, err = floatParam(q.Get("min_price"), 0); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "min_price must be a number")
		return
	}
	if req.MaxPrice, err = floatParam(q.Get("max_price"), 0); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "max_price must be a number")
		return
	}
	if v := q.Get("pages"); v != "" {
		if req.Pages, err = strconv.Atoi(v); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "pages must be an integer")
			return
		}
	}
	if v := q.Get("pause"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs < 0 {
			WriteJSONError(w, http.StatusBadRequest, "pause must be a non-negative number of seconds")
			return
		}
		req.Pause = time.Duration(secs * float64(time.Second))
	}

	res, err := h.market.Search(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if wantsCSV(r) {
		h.sendCSV(w, r, resultsCSVFilename, func(w io.Writer) error {
			return storage.WriteResultsCSV(w, res.Listings)
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, res)
}

type favoriteRequest struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Link  string  `json:"link"`
	User  string  `json:"user"`
}

// AddFavorite handles POST /api/v1/favorites.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var body favoriteRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Link) == "" {
		WriteJSONError(w, http.StatusBadRequest, "link is required")
		return
	}
	if body.User == "" {
		body.User = defaultRequestUser
	}

	fav := models.Favorite{Timestamp: h.now().UTC(), Title: body.Title, Price: body.Price, Link: body.Link, User: body.User}
	if err := h.events.AddFavorite(r.Context(), fav); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, fav)
}

// Describe handles POST /api/v1/describe (multipart: photo, purchase_price).
func (h *Handlers) Describe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "expected a multipart upload")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "photo is required")
		return
	}
	defer file.Close()

	price, err := floatParam(r.FormValue("purchase_price"), 10)
	if err != nil || price < 0 {
		WriteJSONError(w, http.StatusBadRequest, "purchase_price must be a non-negative number")
		return
	}

	draft, err := h.describer.Describe(header.Filename, file, price)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, draft)
}

// Stats handles POST /api/v1/stats (multipart: file).
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "expected a multipart upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	report, err := services.AnalyzeCSV(file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, report)
}

type adviceRequest struct {
	Question string `json:"question"`
}

// Advice handles POST /api/v1/advice.
func (h *Handlers) Advice(w http.ResponseWriter, r *http.Request) {
	var body adviceRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	answer, err := h.advisor.Answer(body.Question)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type accessRequestBody struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// RequestAccess handles POST /api/v1/access-requests.
func (h *Handlers) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var body accessRequestBody
	if err := decodeJSON(w, r, &body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		h.writeError(w, r, storage.ErrEmptyEmail)
		return
	}

	req := models.AccessRequest{Email: email, Message: body.Message, Timestamp: h.now().UTC()}
	if err := h.events.LogAccessRequest(r.Context(), req); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, req)
}

// CheckAccess handles GET /api/v1/access?email=.
func (h *Handlers) CheckAccess(w http.ResponseWriter, r *http.Request) {
	access, err := h.subscribers.CheckAccess(r.URL.Query().Get("email"), h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, access)
}

// AdminSearches handles GET /api/v1/admin/searches (format=csv for a download).
func (h *Handlers) AdminSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.events.Searches(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	searches = head(searches, limitParam(r, adminSearchLimit))
	if wantsCSV(r) {
		h.sendCSV(w, r, storage.SearchLogFile, func(w io.Writer) error {
			return storage.WriteSearchLogCSV(w, searches)
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, searches)
}

// AdminSubscribers handles GET /api/v1/admin/subscribers (format=csv for a download).
func (h *Handlers) AdminSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subscribers.List()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if wantsCSV(r) {
		h.sendCSV(w, r, storage.SubscribersFile, func(w io.Writer) error {
			return storage.WriteSubscribersCSV(w, subs)
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, subs)
}

type subscriberRequest struct {
	Email string `json:"email"`
	Days  int    `json:"days"`
}

// AdminAddSubscriber handles POST /api/v1/admin/subscribers.
func (h *Handlers) AdminAddSubscriber(w http.ResponseWriter, r *http.Request) {
	var body subscriberRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Days == 0 {
		body.Days = storage.DefaultSubscriptionDays
	}
	sub, err := h.subscribers.AddOrRenew(body.Email, body.Days, h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log(r).Info("[api] Subscriber %s active until %s", sub.Email, sub.ExpiryDate.Format(time.DateOnly))
	RespondWithJSON(w, http.StatusOK, sub)
}

// AdminAccessRequests handles GET /api/v1/admin/requests.
func (h *Handlers) AdminAccessRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.events.AccessRequests(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, head(reqs, limitParam(r, adminRequestLimit)))
}

// AdminClearAccessRequests handles DELETE /api/v1/admin/requests.
func (h *Handlers) AdminClearAccessRequests(w http.ResponseWriter, r *http.Request) {
	if err := h.events.ClearAccessRequests(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminFavorites handles GET /api/v1/admin/favorites.
func (h *Handlers) AdminFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.events.Favorites(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, favs)
}

// AdminClearFavorites handles DELETE /api/v1/admin/favorites.
func (h *Handlers) AdminClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := h.events.ClearFavorites(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps domain errors to 4xx; anything else is logged and reported as 500
// together with the request trace id.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, vinted.ErrEmptyQuery),
		errors.Is(err, vinted.ErrInvalidPages),
		errors.Is(err, services.ErrMissingPriceColumn),
		errors.Is(err, services.ErrEmptyPrompt),
		errors.Is(err, storage.ErrEmptyEmail),
		errors.Is(err, storage.ErrInvalidDays):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnsupportedImage):
		WriteJSONError(w, http.StatusUnsupportedMediaType, services.ErrUnsupportedImage.Error())
	case errors.Is(err, services.ErrImageTooLarge):
		WriteJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		h.log(r).Error("[api] %s %s failed: %v", r.Method, r.URL.Path, err)
		RespondWithJSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "internal error",
			"trace_id": TraceIDFromContext(r.Context()),
		})
	}
}

func wantsCSV(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), formatCSV)
}

// sendCSV streams a CSV attachment. Headers are already sent when write fails, so the
// error is only logged.
func (h *Handlers) sendCSV(w http.ResponseWriter, r *http.Request, filename string, write func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := write(w); err != nil {
		h.log(r).Error("[api] CSV export %s failed: %v", filename, err)
	}
}

func floatParam(v string, fallback float64) (float64, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func limitParam(r *http.Request, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func head[T any](items []T, n int) []T {
	if items == nil {
		return []T{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
