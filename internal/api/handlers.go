package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"casetracker/internal/engine"
	"casetracker/internal/models"
	"casetracker/internal/render"
	"casetracker/internal/upstream"

	"github.com/labstack/echo/v4"
)

// RegionLister supplies the filter catalog.
type RegionLister interface {
	FetchRegionList(ctx context.Context) ([]models.Region, error)
}

type Handler struct {
	ctrl    *engine.Controller
	regions RegionLister
	// fetches triggered over HTTP outlive the request that asked for them
	baseCtx context.Context
	chart   render.ChartOptions
}

func NewHandler(baseCtx context.Context, ctrl *engine.Controller, regions RegionLister) *Handler {
	return &Handler{
		ctrl:    ctrl,
		regions: regions,
		baseCtx: baseCtx,
		chart:   render.ChartOptions{Width: 960},
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/view", h.GetView)
	api.GET("/rows", h.GetRows)
	api.GET("/chart", h.GetChart)
	api.GET("/chart.png", h.GetChartPNG)
	api.GET("/records", h.GetRecords)
	api.GET("/regions", h.GetRegions)
	api.PUT("/scope", h.PutScope)
	api.POST("/refresh", h.PostRefresh)
}

type scopeRequest struct {
	Code string `json:"code"`
}

type scopeResponse struct {
	State models.State `json:"state"`
	Label string       `json:"label"`
	Scope string       `json:"scope,omitempty"`
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// full snapshot: state, label, rows, chart
func (h *Handler) GetView(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ctrl.View())
}

// loadedView returns 503 until the first series has arrived, or 502 when
// the first fetch failed.
func (h *Handler) loadedView() (models.View, error) {
	v := h.ctrl.View()
	if v.UpdatedAt.IsZero() {
		if v.State == models.StateFailed {
			return v, echo.NewHTTPError(http.StatusBadGateway, "upstream fetch failed: "+v.Error)
		}
		return v, echo.NewHTTPError(http.StatusServiceUnavailable, "data is loading")
	}
	return v, nil
}

func (h *Handler) GetRows(c echo.Context) error {
	v, err := h.loadedView()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v.Rows)
}

func (h *Handler) GetChart(c echo.Context) error {
	v, err := h.loadedView()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v.Chart)
}

func (h *Handler) GetChartPNG(c echo.Context) error {
	v := h.ctrl.View()

	opts := h.chart
	opts.Title = v.Label
	var buf bytes.Buffer
	if err := render.BarChart(&buf, v.Chart, opts); err != nil {
		if errors.Is(err, render.ErrNoData) {
			return echo.NewHTTPError(http.StatusNotFound, "no chart data yet")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "rendering chart").SetInternal(err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) GetRecords(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ctrl.Records())
}

func (h *Handler) GetRegions(c echo.Context) error {
	regions, err := h.regions.FetchRegionList(c.Request().Context())
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, regions)
}

// PutScope switches between national ("" code) and a region from the catalog.
func (h *Handler) PutScope(c echo.Context) error {
	var req scopeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scope request").SetInternal(err)
	}

	var scope models.Scope = models.National{}
	if code := strings.TrimSpace(req.Code); code != "" {
		regions, err := h.regions.FetchRegionList(c.Request().Context())
		if err != nil {
			return upstreamError(err)
		}
		region, ok := findRegion(regions, code)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "unknown region "+code)
		}
		scope = models.RegionScope{Region: region}
	}

	h.ctrl.SetScope(h.baseCtx, scope)
	return c.JSON(http.StatusAccepted, scopeResponse{
		State: models.StateLoading,
		Label: engine.Label(scope),
		Scope: models.ScopeCode(scope),
	})
}

func (h *Handler) PostRefresh(c echo.Context) error {
	scope := h.ctrl.Scope()
	h.ctrl.Refresh(h.baseCtx)
	return c.JSON(http.StatusAccepted, scopeResponse{
		State: models.StateLoading,
		Label: engine.Label(scope),
		Scope: models.ScopeCode(scope),
	})
}

func findRegion(regions []models.Region, code string) (models.Region, bool) {
	for _, r := range regions {
		if strings.EqualFold(r.Code, code) {
			return r, true
		}
	}
	return models.Region{}, false
}

func upstreamError(err error) error {
	switch {
	case upstream.IsNetworkError(err):
		return echo.NewHTTPError(http.StatusBadGateway, "upstream unavailable").SetInternal(err)
	case upstream.IsDecodeError(err):
		return echo.NewHTTPError(http.StatusBadGateway, "upstream returned malformed data").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
}
