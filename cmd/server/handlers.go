package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/adapters"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/cache"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/narrator"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/resilience"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/security"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/types"
)

const (
	topProspects = 10
	testAPILimit = "5"

	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// handleChat answers a free-text question about the leads API records.
//
// @Summary  Ask about student leads
// @Accept   x-www-form-urlencoded
// @Produce  json
// @Param    user_input formData string true  "Question"
// @Param    filters    formData string false "JSON object of leads API filters"
// @Success  200 {object} types.ChatResponse
// @Failure  400 {object} map[string]interface{}
// @Failure  429 {object} map[string]interface{}
// @Router   /chat [post]
func (a *app) handleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		errors.Respond(c, errors.NewBindingError(err))
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		errors.Respond(c, errors.NewValidationError("Input cannot be empty"))
		return
	}
	if err := a.guard.ValidateQuery(req.UserInput); err != nil {
		errors.Respond(c, errors.NewValidationError(err.Error()))
		return
	}
	query := security.SanitizeInput(req.UserInput)

	filters := parseFilters(req.Filters)
	fetch := a.leads.Fetch(c.Request.Context(), fetchParams(filters))
	if fetch.Failed() {
		a.logger.Warn("Leads fetch failed, narrating the error", "error", fetch.Error)
	}

	c.JSON(http.StatusOK, types.ChatResponse{
		Response: a.narrator.Narrate(c.Request.Context(), fetch, query, filters),
	})
}

// parseFilters decodes the filters form field. Anything that is not a JSON
// object becomes an empty filter set.
func parseFilters(raw string) map[string]interface{} {
	filters := map[string]interface{}{}
	if strings.TrimSpace(raw) == "" {
		return filters
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&filters); err != nil || filters == nil {
		return map[string]interface{}{}
	}
	return filters
}

// fetchParams renders filter values as query parameters, dropping null and
// empty ones.
func fetchParams(filters map[string]interface{}) map[string]string {
	params := make(map[string]string, len(filters))
	for k, v := range filters {
		var s string
		switch val := v.(type) {
		case nil:
			continue
		case string:
			s = val
		case json.Number:
			s = val.String()
		case bool:
			s = strconv.FormatBool(val)
		default:
			b, err := json.Marshal(val)
			if err != nil {
				continue
			}
			s = string(b)
		}
		if s == "" {
			continue
		}
		params[k] = s
	}
	return params
}

// handleHealth reports dependency status.
//
// @Summary  Service health
// @Produce  json
// @Success  200 {object} types.HealthResponse
// @Failure  503 {object} types.HealthResponse
// @Router   /health [get]
func (a *app) handleHealth(c *gin.Context) {
	resp := types.HealthResponse{
		Status:         "healthy",
		ExternalAPI:    a.leads.URL(),
		AIModel:        "unavailable",
		Redis:          a.redis.Status(c.Request.Context()),
		CircuitBreaker: a.leads.Pool().CircuitBreaker().State().String(),
		Services:       map[string]interface{}{},
	}
	if a.aiAvailable() {
		resp.AIModel = "available"
	}

	status := http.StatusOK
	for name, h := range a.health.GetAllServiceHealth() {
		resp.Services[name] = h
		if name == adapters.LeadsService && h.Level == resilience.LevelEmergency {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		if name == narrator.EnhancerService && h.Level == resilience.LevelEmergency {
			resp.AIModel = "degraded"
		}
	}

	c.JSON(status, resp)
}

// handleTestAPI fetches a handful of records to check upstream connectivity.
//
// @Summary  Probe the leads API
// @Produce  json
// @Success  200 {object} types.TestAPIResponse
// @Router   /test-api [get]
func (a *app) handleTestAPI(c *gin.Context) {
	fetch := a.leads.Fetch(c.Request.Context(), map[string]string{"limit": testAPILimit})
	c.JSON(http.StatusOK, types.TestAPIResponse{Status: "success", SampleData: fetch})
}

// handleOptions lists the selectable choices per factor.
//
// @Summary  Scoring choices
// @Produce  json
// @Success  200 {array} scoring.OptionSet
// @Router   /api/options [get]
func (a *app) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, scoring.OptionSets())
}

// handleScore scores one raw factor vector.
//
// @Summary  Score one lead from factor values
// @Accept   json
// @Produce  json
// @Param    lead body scoring.FactorVector true "Factor values in [0, 100]"
// @Success  200 {object} scoring.Result
// @Failure  400 {object} map[string]interface{}
// @Router   /api/score [post]
func (a *app) handleScore(c *gin.Context) {
	var fv scoring.FactorVector
	if err := c.ShouldBindJSON(&fv); err != nil {
		errors.Respond(c, errors.NewBindingError(err))
		return
	}
	a.respondScore(c, fv)
}

// handleScoreOptions scores one lead described by option labels.
//
// @Summary  Score one lead from choices
// @Accept   json
// @Produce  json
// @Param    lead body scoring.Choices true "One option label per factor"
// @Success  200 {object} scoring.Result
// @Failure  400 {object} map[string]interface{}
// @Router   /api/score/options [post]
func (a *app) handleScoreOptions(c *gin.Context) {
	var choices scoring.Choices
	if err := c.ShouldBindJSON(&choices); err != nil {
		errors.Respond(c, errors.NewBindingError(err))
		return
	}
	fv, err := choices.Vector()
	if err != nil {
		errors.Respond(c, errors.NewValidationError(err.Error()))
		return
	}
	a.respondScore(c, fv)
}

func (a *app) respondScore(c *gin.Context, fv scoring.FactorVector) {
	res := scoring.Evaluate(fv)
	a.metrics.RecordScored(map[string]int{string(res.Category): 1})
	c.JSON(http.StatusOK, res)
}

// scoreUpload reads the multipart file field and aggregates it.
func (a *app) scoreUpload(c *gin.Context) (adapters.Table, analysis.Result, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		errors.Respond(c, errors.NewValidationError("A csv or xlsx file is required in the file field", err))
		return adapters.Table{}, analysis.Result{}, false
	}
	f, err := fh.Open()
	if err != nil {
		errors.Respond(c, errors.NewInternalError("failed to open upload", err))
		return adapters.Table{}, analysis.Result{}, false
	}
	defer errors.SafeClose(f, "upload")

	table, err := adapters.ReadTable(fh.Filename, f)
	if err != nil {
		errors.Respond(c, err)
		return adapters.Table{}, analysis.Result{}, false
	}

	start := time.Now()
	res := analysis.Aggregate(table.Records)
	counts := categoryCounts(res.Summary)
	a.metrics.RecordScored(counts)
	a.logger.ScoringLogger(fh.Filename, len(res.Records), counts, time.Since(start))
	return table, res, true
}

func categoryCounts(s analysis.Summary) map[string]int {
	out := make(map[string]int, len(s.CategoryCounts))
	for k, v := range s.CategoryCounts {
		out[string(k)] = v
	}
	return out
}

// handleBulk scores an uploaded table.
//
// @Summary  Score a csv or xlsx table
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "Table with the eight factor columns"
// @Success  200 {object} analysis.Result
// @Failure  400 {object} map[string]interface{}
// @Router   /api/score/bulk [post]
func (a *app) handleBulk(c *gin.Context) {
	_, res, ok := a.scoreUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleBulkCSV returns the uploaded table with lead_score and lead_category appended.
//
// @Summary  Score a table and download csv
// @Accept   multipart/form-data
// @Produce  text/csv
// @Param    file formData file true "Table with the eight factor columns"
// @Success  200 {file} file
// @Router   /api/score/bulk.csv [post]
func (a *app) handleBulkCSV(c *gin.Context) {
	table, res, ok := a.scoreUpload(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := adapters.WriteCSV(&buf, table.Header, res.Records); err != nil {
		errors.Respond(c, errors.NewInternalError("failed to write csv", err))
		return
	}
	attach(c, "scored_leads.csv", csvContentType, buf.Bytes())
}

// handleBulkXLSX is handleBulkCSV with a spreadsheet response.
//
// @Summary  Score a table and download xlsx
// @Accept   multipart/form-data
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param    file formData file true "Table with the eight factor columns"
// @Success  200 {file} file
// @Router   /api/score/bulk.xlsx [post]
func (a *app) handleBulkXLSX(c *gin.Context) {
	table, res, ok := a.scoreUpload(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := adapters.WriteXLSX(&buf, table.Header, res.Records); err != nil {
		errors.Respond(c, errors.NewInternalError("failed to write xlsx", err))
		return
	}
	attach(c, "scored_leads.xlsx", xlsxContentType, buf.Bytes())
}

func attach(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, body)
}

// sampleFilter reads category, class, min and max query parameters.
func sampleFilter(c *gin.Context) (analysis.Filter, error) {
	var f analysis.Filter
	for _, raw := range c.QueryArray("category") {
		cat, ok := scoring.ParseCategory(raw)
		if !ok {
			return f, errors.NewValidationError(fmt.Sprintf("unknown category %q", raw))
		}
		f.Categories = append(f.Categories, cat)
	}
	for _, class := range c.QueryArray("class") {
		if class != "" {
			f.Classes = append(f.Classes, class)
		}
	}

	var err error
	if f.MinScore, err = scoreBound(c, "min"); err != nil {
		return f, err
	}
	if f.MaxScore, err = scoreBound(c, "max"); err != nil {
		return f, err
	}
	return f, nil
}

func scoreBound(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("%s must be a number", name), err)
	}
	return &v, nil
}

type sampleResponse struct {
	Seed            uint64                  `json:"seed"`
	Summary         analysis.Summary        `json:"summary"`
	FilteredSummary analysis.Summary        `json:"filtered_summary"`
	Records         []analysis.ScoredRecord `json:"records"`
	TopProspects    []analysis.ScoredRecord `json:"top_prospects"`
	Classes         []string                `json:"classes"`
}

func (a *app) sample(c *gin.Context) (uint64, analysis.Result, []analysis.ScoredRecord, bool) {
	f, err := sampleFilter(c)
	if err != nil {
		errors.Respond(c, err)
		return 0, analysis.Result{}, nil, false
	}
	records, seed := a.sessions.Sample(cache.SessionID(c))
	res := analysis.Aggregate(records)
	return seed, res, f.Apply(res.Records), true
}

// handleSample analyses this session's generated applicants.
//
// @Summary  Analyse the session sample
// @Produce  json
// @Param    category query string false "Hot, Warm or Cold; repeatable"
// @Param    class    query string false "Class applied for; repeatable"
// @Param    min      query number false "Minimum score"
// @Param    max      query number false "Maximum score"
// @Success  200 {object} sampleResponse
// @Router   /api/sample [get]
func (a *app) handleSample(c *gin.Context) {
	seed, res, filtered, ok := a.sample(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sampleResponse{
		Seed:            seed,
		Summary:         res.Summary,
		FilteredSummary: analysis.Summarize(filtered),
		Records:         filtered,
		TopProspects:    analysis.TopProspects(filtered, topProspects),
		Classes:         analysis.Classes(res.Records),
	})
}

// handleSampleCSV downloads the filtered session sample.
//
// @Summary  Download the session sample
// @Produce  text/csv
// @Success  200 {file} file
// @Router   /api/sample.csv [get]
func (a *app) handleSampleCSV(c *gin.Context) {
	_, _, filtered, ok := a.sample(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := adapters.WriteCSV(&buf, a.sessions.Header(), filtered); err != nil {
		errors.Respond(c, errors.NewInternalError("failed to write csv", err))
		return
	}
	attach(c, "lead_analysis.csv", csvContentType, buf.Bytes())
}

// handleSampleReset draws a new sample for this session.
//
// @Summary  Regenerate the session sample
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /api/sample/reset [post]
func (a *app) handleSampleReset(c *gin.Context) {
	records, seed := a.sessions.Reset(cache.SessionID(c))
	c.JSON(http.StatusOK, gin.H{"seed": seed, "count": len(records)})
}

// handleTemplate downloads the factor columns of the first session records.
//
// @Summary  Download a scoring template
// @Produce  text/csv
// @Success  200 {file} file
// @Router   /api/template [get]
func (a *app) handleTemplate(c *gin.Context) {
	records, _ := a.sessions.Sample(cache.SessionID(c))
	var buf bytes.Buffer
	if err := adapters.WriteTemplate(&buf, records); err != nil {
		errors.Respond(c, errors.NewInternalError("failed to write template", err))
		return
	}
	attach(c, "lead_scoring_template.csv", csvContentType, buf.Bytes())
}

// handleStats returns the JSON counterpart of /metrics.
//
// @Summary  Runtime statistics
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /stats [get]
func (a *app) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":          a.metrics.GetStats(),
		"external_apis":    a.metrics.GetExternalAPIStats(),
		"rate_limit":       a.limiter.GetStats(),
		"circuit_breakers": a.breakers.GetStats(),
		"connection_pool":  a.leads.Pool().GetStats(),
		"response_cache":   a.responses.Stats(),
		"sessions":         a.sessions.Stats(),
		"compression":      a.compressor.GetStats(),
		"redis":            a.redis.PoolStats(),
	})
}
