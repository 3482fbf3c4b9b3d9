package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// ModelHandler handles HTTP requests for aquifer model operations.
type ModelHandler struct {
	service ports.ModelService
}

func NewModelHandler(service ports.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

type createModelRequest struct {
	Name          string         `json:"name" validate:"required"`
	Description   string         `json:"description"`
	ModelType     string         `json:"model_type" validate:"required,oneof=aquifer well optimization"`
	Configuration map[string]any `json:"configuration"`
}

type updateModelRequest struct {
	Name          *string        `json:"name"`
	Description   *string        `json:"description"`
	Configuration map[string]any `json:"configuration"`
	Status        *string        `json:"status" validate:"omitempty,oneof=active inactive running error"`
}

type listModelsResponse struct {
	Items []*domain.Model `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// Create handles POST /v1/models.
//
// @Summary      Create an aquifer model
// @Tags         models
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createModelRequest  true  "Model definition"
// @Success      201   {object}  domain.Model
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/models [post]
func (h *ModelHandler) Create(c echo.Context) error {
	var req createModelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	model, err := h.service.Create(c.Request().Context(), ports.CreateModelInput{
		Name:          req.Name,
		Description:   req.Description,
		ModelType:     req.ModelType,
		Configuration: req.Configuration,
		UserID:        user.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, model)
}

// Get handles GET /v1/models/:id.
//
// @Summary      Get a model by id
// @Tags         models
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Model id"
// @Success      200  {object}  domain.Model
// @Failure      404  {object}  map[string]string
// @Router       /v1/models/{id} [get]
func (h *ModelHandler) Get(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	model, err := h.service.Get(c.Request().Context(), c.Param("id"), ownerScope(user))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model)
}

// List handles GET /v1/models.
//
// @Summary      List models owned by the caller
// @Tags         models
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listModelsResponse
// @Router       /v1/models [get]
func (h *ModelHandler) List(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	models, total, err := h.service.List(c.Request().Context(), ownerScope(user), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listModelsResponse{Items: models, Total: total, Page: page, Limit: limit})
}

// Update handles PUT /v1/models/:id.
//
// @Summary      Update a model
// @Tags         models
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Model id"
// @Param        body  body      updateModelRequest  true  "Fields to update"
// @Success      200   {object}  domain.Model
// @Failure      404   {object}  map[string]string
// @Router       /v1/models/{id} [put]
func (h *ModelHandler) Update(c echo.Context) error {
	var req updateModelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	model, err := h.service.Update(c.Request().Context(), c.Param("id"), ownerScope(user), ports.UpdateModelInput{
		Name:          req.Name,
		Description:   req.Description,
		Configuration: req.Configuration,
		Status:        req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model)
}

// Delete handles DELETE /v1/models/:id.
//
// @Summary      Delete a model
// @Tags         models
// @Security     BearerAuth
// @Param        id  path  string  true  "Model id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/models/{id} [delete]
func (h *ModelHandler) Delete(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ownerScope(user)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
