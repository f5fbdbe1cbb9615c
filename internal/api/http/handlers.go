package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nilsson-hagberg/warehouse/internal/allocator"
	"github.com/nilsson-hagberg/warehouse/internal/filter"
	"github.com/nilsson-hagberg/warehouse/internal/item"
	"github.com/nilsson-hagberg/warehouse/internal/manager"
	"github.com/nilsson-hagberg/warehouse/internal/warehouse"
)

type handlers struct {
	log       *zap.Logger
	m         *manager.Manager
	listCache *sortedNameCache
}

// itemRequest is the wire shape accepted by POST /api/items. Quality is
// discriminated by which of fragile/oversized is present; omitting both
// requests a Normal item.
type itemRequest struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name" binding:"required"`
	Quantity  int               `json:"quantity" binding:"required"`
	Fragile   *fragileRequest   `json:"fragile,omitempty"`
	Oversized *oversizedRequest `json:"oversized,omitempty"`
}

type fragileRequest struct {
	ExpiryDay int `json:"expiry_day"`
	MaxRow    int `json:"max_row"`
}

type oversizedRequest struct {
	Span int `json:"span"`
}

func (r itemRequest) toItem() item.Item {
	quality := item.Normal()
	switch {
	case r.Fragile != nil:
		quality = item.NewFragile(r.Fragile.ExpiryDay, r.Fragile.MaxRow)
	case r.Oversized != nil:
		quality = item.NewOversized(r.Oversized.Span)
	}
	return item.Item{ID: r.ID, Name: r.Name, Quantity: r.Quantity, Quality: quality}
}

type locationResponse struct {
	Row   int `json:"row"`
	Shelf int `json:"shelf"`
	Zone  int `json:"zone"`
}

func locationOf(loc warehouse.Location) locationResponse {
	return locationResponse{Row: loc.Row, Shelf: loc.Shelf, Zone: loc.Zone}
}

func (h *handlers) add(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	loc, err := h.m.Add(req.toItem())
	if err != nil {
		h.writeAddError(c, err)
		return
	}
	h.listCache.invalidate()
	c.JSON(http.StatusCreated, locationOf(loc))
}

func (h *handlers) writeAddError(c *gin.Context, err error) {
	var rej *filter.RejectedError
	switch {
	case errors.As(err, &rej):
		c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error(), "filter": rej.Filter})
	case errors.Is(err, allocator.ErrNoSpace):
		c.Error(err)
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	}
}

func (h *handlers) remove(c *gin.Context) {
	loc, err := parseLocation(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	it, err := h.m.Remove(loc)
	if err != nil {
		h.writeLocationError(c, err)
		return
	}
	h.listCache.invalidate()
	c.JSON(http.StatusOK, it)
}

func (h *handlers) writeLocationError(c *gin.Context, err error) {
	c.Error(err)
	switch {
	case errors.Is(err, warehouse.ErrInvalidLocation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, warehouse.ErrNotAnchor), errors.Is(err, warehouse.ErrEmpty):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

func parseLocation(c *gin.Context) (warehouse.Location, error) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		return warehouse.Location{}, err
	}
	shelf, err := strconv.Atoi(c.Param("shelf"))
	if err != nil {
		return warehouse.Location{}, err
	}
	zone, err := strconv.Atoi(c.Param("zone"))
	if err != nil {
		return warehouse.Location{}, err
	}
	return warehouse.Location{Row: row, Shelf: shelf, Zone: zone}, nil
}

func (h *handlers) locateByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	present, count := h.m.CountByID(id)
	locs := h.m.LocateByID(id)
	c.JSON(http.StatusOK, gin.H{"present": present, "count": count, "locations": locationsOf(locs)})
}

func (h *handlers) locateByName(c *gin.Context) {
	name := c.Param("name")
	present, count := h.m.CountByName(name)
	locs := h.m.LocateByName(name)
	c.JSON(http.StatusOK, gin.H{"present": present, "count": count, "locations": locationsOf(locs)})
}

func locationsOf(locs []warehouse.Location) []locationResponse {
	out := make([]locationResponse, len(locs))
	for i, l := range locs {
		out[i] = locationOf(l)
	}
	return out
}

func (h *handlers) listSortedByName(c *gin.Context) {
	entries, cacheHit, err := h.listCache.get(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.Header("X-Cache-Hit", strconv.FormatBool(cacheHit))
	c.JSON(http.StatusOK, entries)
}

func (h *handlers) allocate(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	loc, err := h.m.Allocate(req.toItem())
	if err != nil {
		if errors.Is(err, allocator.ErrNoSpace) {
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, locationOf(loc))
}

func (h *handlers) countExpiringBy(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.m.CountExpiringBy(day)})
}
