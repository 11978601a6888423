// Package handlers provides HTTP request handlers for the StatCan tables API
// endpoints. This file implements the HTTPHandler interface with dependency
// injection.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shinysc/statcan-tables-api/interfaces"
	"github.com/shinysc/statcan-tables-api/logging"
	"github.com/shinysc/statcan-tables-api/metrics"
	"github.com/shinysc/statcan-tables-api/statcan"
	"github.com/shinysc/statcan-tables-api/statcan/entities"
	"github.com/shinysc/statcan-tables-api/tablequery"
)

// pageSize is the number of cubes returned per page of /tables.
const pageSize = 50

// Query parameters of /table/{productId}/url that are not dimension filters.
var reservedURLParams = map[string]bool{
	"latestN":   true,
	"startDate": true,
	"endDate":   true,
	"locale":    true,
}

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	client        interfaces.MetadataClient
	validator     interfaces.InputValidator
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, client interfaces.MetadataClient, validator interfaces.InputValidator, healthChecker interfaces.HealthChecker) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		client:        client,
		validator:     validator,
		healthChecker: healthChecker,
	}
}

// ServeHTTP implements the http.Handler interface
func (h *HTTPHandlerImpl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// This is a placeholder - the actual routing is handled by chi
	http.Error(w, "Not implemented", http.StatusNotImplemented)
}

// HealthResponseImpl defines the structure for consistent JSON ordering
type HealthResponseImpl struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// URLResponse is the payload of the URL building endpoints.
type URLResponse struct {
	ProductID int    `json:"productId"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Archived  bool   `json:"archived,omitempty"`
}

// DescribeResponse lists a table's dimensions and members, in the order the
// download URL expects them.
type DescribeResponse struct {
	ProductID  int                    `json:"productId"`
	Title      string                 `json:"title"`
	Source     string                 `json:"source"`
	Archived   bool                   `json:"archived,omitempty"`
	Dimensions []tablequery.Dimension `json:"dimensions"`
}

// urlRequest is the JSON body accepted by POST /table/{productId}/url.
type urlRequest struct {
	Filters   map[string][]string `json:"filters"`
	LatestN   int                 `json:"latestN"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Locale    string              `json:"locale"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// indexFor resolves a productId to a member index. The built-in registry is
// checked first, then the metadata cache, and finally the WDS itself.
func (h *HTTPHandlerImpl) indexFor(r *http.Request, productID int) (*tablequery.MemberIndex, string, error) {
	if idx, ok := tablequery.Lookup(productID); ok {
		return idx, "registry", nil
	}

	if md, ok := h.dataStore.CachedMetadata(productID); ok {
		metrics.MetadataCacheHits.Inc()
		idx, err := tablequery.FromMetadata(md, "en")
		if err != nil {
			return nil, "", err
		}
		return idx, "metadata", nil
	}
	metrics.MetadataCacheMisses.Inc()

	md, err := h.client.CubeMetadata(r.Context(), productID)
	if err != nil {
		return nil, "", err
	}
	h.dataStore.StoreMetadata(productID, md)

	idx, err := tablequery.FromMetadata(md, "en")
	if err != nil {
		return nil, "", err
	}
	return idx, "metadata", nil
}

// isArchived reports whether the cube list marks the table archived.
func (h *HTTPHandlerImpl) isArchived(productID int) bool {
	cube, ok := h.dataStore.GetCubesMap()[productID]
	return ok && cube.Archived == "1"
}

// respondWithBuildError maps URL building failures to HTTP error codes.
func (h *HTTPHandlerImpl) respondWithBuildError(w http.ResponseWriter, productID int, err error) {
	var unknownMember *tablequery.UnknownMemberError
	var invalidID *tablequery.InvalidIdentifierError
	var unknownTable *tablequery.UnknownTableError

	switch {
	case errors.As(err, &unknownMember):
		h.RespondWithError(w, http.StatusBadRequest, unknownMember.Error())
	case errors.As(err, &invalidID):
		h.RespondWithError(w, http.StatusBadRequest, invalidID.Error())
	case errors.As(err, &unknownTable):
		h.RespondWithError(w, http.StatusNotFound, unknownTable.Error())
	default:
		logging.Error("Failed to resolve table metadata", "productId", productID, "error", err)
		h.RespondWithError(w, http.StatusBadGateway,
			fmt.Sprintf("Could not fetch metadata for table %d", productID))
	}
}

// ServePagedTables returns one page of the cube list
func (h *HTTPHandlerImpl) ServePagedTables(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	cubes := h.dataStore.GetCubes()
	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= len(cubes) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	if end > len(cubes) {
		end = len(cubes)
	}

	totalItems := len(cubes)
	maxPage := (totalItems + pageSize - 1) / pageSize

	response := map[string]any{
		"data":       cubes[start:end],
		"page":       page,
		"pageSize":   pageSize,
		"totalItems": totalItems,
		"maxPage":    maxPage,
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// DescribeTable returns a table's dimensions and members
func (h *HTTPHandlerImpl) DescribeTable(w http.ResponseWriter, r *http.Request) {
	productID, err := h.validator.ValidateProductID(chi.URLParam(r, "productId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	idx, source, err := h.indexFor(r, productID)
	if err != nil {
		h.respondWithBuildError(w, productID, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, DescribeResponse{
		ProductID:  productID,
		Title:      idx.Title,
		Source:     source,
		Archived:   h.isArchived(productID),
		Dimensions: idx.Dimensions,
	})
}

// BuildTableURL builds a download URL from query parameters. Reserved
// parameters tune the extract; every other parameter names a dimension, with
// comma-separated member labels.
func (h *HTTPHandlerImpl) BuildTableURL(w http.ResponseWriter, r *http.Request) {
	productID, err := h.validator.ValidateProductID(chi.URLParam(r, "productId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()

	req := tablequery.Request{
		ProductID: productID,
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Locale:    query.Get("locale"),
	}

	if latestN := query.Get("latestN"); latestN != "" {
		n, err := strconv.Atoi(latestN)
		if err != nil || n < 1 {
			h.RespondWithError(w, http.StatusBadRequest, "latestN must be a positive integer")
			return
		}
		req.LatestN = n
	}

	filters := make(map[string][]string)
	for key, values := range query {
		if reservedURLParams[key] {
			continue
		}
		for _, v := range values {
			for _, label := range strings.Split(v, ",") {
				if label = strings.TrimSpace(label); label != "" {
					filters[key] = append(filters[key], label)
				}
			}
		}
	}
	if len(filters) > 0 {
		req.Filters = filters
	}

	h.buildAndRespond(w, r, req)
}

// BuildFilteredTableURL builds a download URL from a JSON request body
func (h *HTTPHandlerImpl) BuildFilteredTableURL(w http.ResponseWriter, r *http.Request) {
	productID, err := h.validator.ValidateProductID(chi.URLParam(r, "productId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body urlRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	if body.LatestN < 0 {
		h.RespondWithError(w, http.StatusBadRequest, "latestN must be a positive integer")
		return
	}

	h.buildAndRespond(w, r, tablequery.Request{
		ProductID: productID,
		Filters:   body.Filters,
		LatestN:   body.LatestN,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		Locale:    body.Locale,
	})
}

// buildAndRespond validates the shared request fields, builds the URL and
// writes the response.
func (h *HTTPHandlerImpl) buildAndRespond(w http.ResponseWriter, r *http.Request, req tablequery.Request) {
	if err := h.validator.ValidateDate(req.StartDate); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.ValidateDate(req.EndDate); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Locale != "" && req.Locale != "en" && req.Locale != "fr" {
		h.RespondWithError(w, http.StatusBadRequest, "locale must be en or fr")
		return
	}

	idx, source, err := h.indexFor(r, req.ProductID)
	if err != nil {
		h.respondWithBuildError(w, req.ProductID, err)
		return
	}

	downloadURL, err := idx.BuildURL(req)
	if err != nil {
		h.respondWithBuildError(w, req.ProductID, err)
		return
	}

	metrics.URLsBuiltTotal.WithLabelValues(source).Inc()

	h.RespondWithJSON(w, http.StatusOK, URLResponse{
		ProductID: req.ProductID,
		Title:     idx.Title,
		URL:       downloadURL,
		Source:    source,
		Archived:  h.isArchived(req.ProductID),
	})
}

// SearchTables searches the cube list by title and code-set descriptions
func (h *HTTPHandlerImpl) SearchTables(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if query == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing search term")
		return
	}

	if err := h.validator.ValidateInput(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := statcan.SearchOptions{
		Status: r.URL.Query().Get("status"),
		Lang:   r.URL.Query().Get("lang"),
	}
	if strings.EqualFold(r.URL.Query().Get("mode"), "or") {
		opts.Mode = statcan.ModeOr
	}

	results := statcan.SearchCubes(h.dataStore.GetCubes(), h.dataStore.GetCodeSets(), query, opts)
	if results == nil {
		results = []entities.Cube{}
	}

	response := map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.dataStore.GetServerStartTime())

	status, data, httpStatus := h.healthChecker.HealthCheck()
	data["api_version"] = "1.0"
	data["registered_tables"] = len(tablequery.RegisteredTables())
	data["next_update"] = h.healthChecker.CalculateNextUpdate().Format(time.RFC3339)

	response := HealthResponseImpl{
		Status:        status,
		UptimeSeconds: uptime.Seconds(),
		Data:          data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
