package handlers

import (
	"context"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-wardrobe-api/internal/items"
	"github.com/imrishuroy/go-wardrobe-api/internal/validation"
)

// ItemService is what the item routes need; *items.Service implements it.
type ItemService interface {
	Create(ctx context.Context, f items.Fields) (*items.Item, error)
	FindAll(ctx context.Context, q items.Query) (items.Page, error)
	FindOne(ctx context.Context, id string) (*items.Item, error)
	Update(ctx context.Context, id string, p items.Patch) (*items.Item, error)
	Remove(ctx context.Context, id string) error
}

type itemsHandler struct {
	svc ItemService
	v   *validatorv10.Validate
}

// RegisterItemsRoutes registers the item routes at the root and again under /v1.
func RegisterItemsRoutes(r *gin.Engine, svc ItemService) {
	h := &itemsHandler{svc: svc, v: validation.New()}
	for _, g := range []*gin.RouterGroup{r.Group("/"), r.Group("/v1")} {
		g.POST("/items", h.create)
		g.GET("/items", h.list)
		g.GET("/items/:id", h.get)
		g.PATCH("/items/:id", h.update)
		g.DELETE("/items/:id", h.remove)
	}
}

func (h *itemsHandler) create(c *gin.Context) {
	var req validation.CreateItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		// BindAndValidate already wrote a 400
		return
	}
	fields, err := req.ToFields()
	if err != nil {
		writeError(c, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	it, err := h.svc.Create(c.Request.Context(), fields)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// keeps the /v1 prefix when the client used it
	c.Header("Location", path.Join(c.FullPath(), it.ID))
	c.JSON(http.StatusCreated, it)
}

func (h *itemsHandler) list(c *gin.Context) {
	var q validation.ListItemsQuery
	if err := validation.BindQueryAndValidate(c, &q, h.v); err != nil {
		return
	}

	page, err := h.svc.FindAll(c.Request.Context(), q.ToQuery())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *itemsHandler) get(c *gin.Context) {
	it, err := h.svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *itemsHandler) update(c *gin.Context) {
	var req validation.UpdateItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		writeError(c, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	it, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *itemsHandler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
