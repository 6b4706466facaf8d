// Package httpapi exposes the build-time catalog and duration calculator over HTTP.
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/napolitain/lastwar-buildtime/internal/calc"
	"github.com/napolitain/lastwar-buildtime/internal/catalog"
	"github.com/napolitain/lastwar-buildtime/internal/converter"
	"github.com/napolitain/lastwar-buildtime/internal/models"
	"github.com/napolitain/lastwar-buildtime/internal/plan"
)

// Options configures a Handler. Zero values fall back to the default policy,
// UTC and time.Now.
type Options struct {
	Policy   *calc.Policy
	Location *time.Location
	Now      func() time.Time
}

// Handler serves the /v1 routes
type Handler struct {
	catalog *catalog.Catalog
	policy  calc.Policy
	planner *plan.Planner
	loc     *time.Location
	now     func() time.Time
}

func NewHandler(cat *catalog.Catalog, opts Options) *Handler {
	h := &Handler{
		catalog: cat,
		policy:  calc.DefaultPolicy(),
		loc:     time.UTC,
		now:     time.Now,
	}
	if opts.Policy != nil {
		h.policy = *opts.Policy
	}
	if opts.Location != nil {
		h.loc = opts.Location
	}
	if opts.Now != nil {
		h.now = opts.Now
	}
	h.planner = plan.NewPlanner(cat, h.policy)
	return h
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	buildings := group.Group("/buildings")
	buildings.GET("", h.ListBuildings)
	buildings.GET("/:id/transitions", h.ListTransitions)
	buildings.GET("/:id/transitions/lookup", h.LookupTransition)

	group.POST("/calculate", h.Calculate)
	group.POST("/plan", h.Plan)
}

func (h *Handler) ListBuildings(c *gin.Context) {
	ids := h.catalog.Buildings()
	out := make([]converter.BuildingDTO, 0, len(ids))
	for _, id := range ids {
		b, err := h.catalog.Building(id)
		if err != nil {
			h.fail(c, err)
			return
		}
		out = append(out, converter.BuildingToDTO(b))
	}
	c.JSON(http.StatusOK, gin.H{"buildings": out})
}

// ListTransitions returns a building's rows from the highest level down
func (h *Handler) ListTransitions(c *gin.Context) {
	id := models.BuildingID(c.Param("id"))
	entries, err := h.catalog.Entries(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"building":    string(id),
		"transitions": converter.EntriesToDTO(id, entries),
	})
}

func (h *Handler) LookupTransition(c *gin.Context) {
	id := models.BuildingID(c.Param("id"))
	key := c.Query("key")
	if key == "" {
		h.fail(c, fmt.Errorf("%w: query parameter key is required", models.ErrInvalidInput))
		return
	}
	entry, err := h.catalog.Lookup(id, key)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.EntryToDTO(id, entry))
}

func (h *Handler) Calculate(c *gin.Context) {
	var req converter.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	base, entry, err := h.resolveBase(req)
	if err != nil {
		h.fail(c, err)
		return
	}

	ref := h.now()
	if req.Reference != nil {
		ref = *req.Reference
	}

	result, err := h.policy.ReduceAcceleration(base, converter.RequestAcceleration(req), ref)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := converter.ResultToDTO(result, h.loc)
	resp.Entry = entry
	c.JSON(http.StatusOK, resp)
}

// Plan schedules consecutive upgrades of one building back to back
func (h *Handler) Plan(c *gin.Context) {
	var req converter.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	ref := h.now()
	if req.Reference != nil {
		ref = *req.Reference
	}

	p, err := h.planner.Plan(models.BuildingID(req.Building), req.From, req.To, converter.PlanAcceleration(req), ref)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.PlanToDTO(p, h.loc))
}

// resolveBase picks the base duration from exactly one of the request's sources
func (h *Handler) resolveBase(req converter.CalculateRequest) (int64, *converter.EntryDTO, error) {
	sources := 0
	if req.Building != "" {
		sources++
	}
	if req.BaseSeconds != nil {
		sources++
	}
	if req.Base != "" {
		sources++
	}
	if sources != 1 {
		return 0, nil, fmt.Errorf("%w: give exactly one of building+transition, base_seconds or base", models.ErrInvalidInput)
	}

	switch {
	case req.Building != "":
		id := models.BuildingID(req.Building)
		e, err := h.catalog.Lookup(id, req.Transition)
		if err != nil {
			return 0, nil, err
		}
		dto := converter.EntryToDTO(id, e)
		return e.BaseSeconds, &dto, nil
	case req.BaseSeconds != nil:
		return *req.BaseSeconds, nil, nil
	default:
		base, err := calc.ParseBaseDuration(req.Base)
		return base, nil, err
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	body := converter.ErrorToDTO(err)
	c.Set(errorKindKey, body.Error.Kind)
	c.AbortWithStatusJSON(statusFor(body.Error.Kind), body)
}

func statusFor(kind string) int {
	switch kind {
	case converter.KindNotFound:
		return http.StatusNotFound
	case converter.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
