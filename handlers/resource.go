package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/virajo/backoffice/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// coder decodes one JSON field of an update body into its stored value.
type coder func(raw json.RawMessage) (any, error)

func decodeAs[V any](raw json.RawMessage) (any, error) {
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var (
	stringField  coder = decodeAs[string]
	stringsField coder = decodeAs[[]string]
	boolField    coder = decodeAs[bool]
	timeField    coder = decodeAs[time.Time]
)

// resource wires list/get/create/update/delete for one collection.
type resource[T any, P interface {
	*T
	store.Record
}] struct {
	noun string
	col  store.Collection[T]
	// newRecord returns a record with schema defaults, nil for collections
	// whose records are only created through submissions.
	newRecord func() *T
	updatable map[string]coder
	// listFilter restricts the public listing.
	listFilter bson.M
	// wrapList responds {success, count, data} instead of a bare array.
	wrapList bool
	// lookup resolves ids that are not record ids, e.g. blog slugs.
	lookup func(ctx context.Context, id string) (*T, error)
	// release removes files owned by a deleted record.
	release func(ctx context.Context, rec *T)
}

func (h *resource[T, P]) register(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.GET("/:id", h.get)
	if h.newRecord != nil {
		g.POST("", h.create)
	}
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func parseLimit(c *gin.Context) int64 {
	n, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil || n <= 0 {
		return store.DefaultLimit
	}
	return n
}

func (h *resource[T, P]) list(c *gin.Context) {
	items, err := h.col.List(c.Request.Context(), store.ListOptions{Limit: parseLimit(c), Filter: h.listFilter})
	if err != nil {
		respondError(c, h.noun, err)
		return
	}
	h.respondList(c, items)
}

func (h *resource[T, P]) respondList(c *gin.Context, items []*T) {
	if h.wrapList {
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *resource[T, P]) get(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.col.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) && h.lookup != nil {
		rec, err = h.lookup(ctx, c.Param("id"))
	}
	if err != nil {
		respondError(c, h.noun, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *resource[T, P]) create(c *gin.Context) {
	rec := h.newRecord()
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	// ids and creation times are always assigned by the store
	P(rec).SetRecordID(primitive.NilObjectID)
	P(rec).ClearCreated()
	if err := h.col.Create(c.Request.Context(), rec); err != nil {
		respondError(c, h.noun, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// update applies the whitelisted fields of the JSON body. Other keys are
// ignored.
func (h *resource[T, P]) update(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	set := bson.M{}
	for k, raw := range body {
		dec, ok := h.updatable[k]
		if !ok {
			continue
		}
		v, err := dec(raw)
		if err != nil {
			respondError(c, h.noun, &store.ValidationError{Fields: map[string]string{k: k + " has the wrong type"}})
			return
		}
		set[k] = v
	}
	rec, err := h.col.Update(c.Request.Context(), c.Param("id"), set)
	if err != nil {
		respondError(c, h.noun, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *resource[T, P]) delete(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.col.Delete(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.noun, err)
		return
	}
	if h.release != nil {
		h.release(context.WithoutCancel(ctx), rec)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": h.noun + " deleted successfully"})
}
