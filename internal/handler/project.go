package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/repository"
)

// ProjectHandler serves the creator's project script CRUD.  Slot
// cascade on delete lives in the repository.
type ProjectHandler struct {
	Projects *repository.ProjectRepo
}

func NewProjectHandler(p *repository.ProjectRepo) *ProjectHandler {
	return &ProjectHandler{Projects: p}
}

type projectReq struct {
	Title             string   `json:"title"`
	DocLink           string   `json:"docLink"`
	DocLink2          string   `json:"doc_link"`
	ProductionWindow  string   `json:"productionWindow"`
	ProductionWindow2 string   `json:"production_window"`
	BudgetTarget      *float64 `json:"budgetTarget"`
	BudgetTarget2     *float64 `json:"budget_target"`
	Genre             string   `json:"genre"`
	AgeStart          int      `json:"ageStart"`
	AgeStart2         int      `json:"age_start"`
	AgeEnd            int      `json:"ageEnd"`
	AgeEnd2           int      `json:"age_end"`
	Gender            string   `json:"gender"`
}

func (req projectReq) toModel(creatorID uint64) (model.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Project{}, echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	ageStart := req.AgeStart
	if ageStart == 0 {
		ageStart = req.AgeStart2
	}
	ageEnd := req.AgeEnd
	if ageEnd == 0 {
		ageEnd = req.AgeEnd2
	}
	if ageStart < 0 || ageEnd < 0 || (ageEnd != 0 && ageEnd < ageStart) {
		return model.Project{}, echo.NewHTTPError(http.StatusBadRequest, "invalid age range")
	}
	return model.Project{
		CreatorID:        creatorID,
		Title:            title,
		DocLink:          pick(req.DocLink, req.DocLink2),
		ProductionWindow: pick(req.ProductionWindow, req.ProductionWindow2),
		BudgetTarget:     pickF(req.BudgetTarget, req.BudgetTarget2),
		Genre:            strings.TrimSpace(req.Genre),
		Demographics: model.Demographics{
			AgeStart: ageStart,
			AgeEnd:   ageEnd,
			Gender:   strings.TrimSpace(req.Gender),
		},
	}, nil
}

// Create registers a new project script for the authenticated creator.
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := req.toModel(userID)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	if err := h.Projects.Create(c.Request().Context(), &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create project failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns the authenticated creator's projects.  Operators get the
// full catalogue; other roles are rejected.
func (h *ProjectHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	var projects []model.Project
	switch getRole(c) {
	case model.RoleCreator:
		projects, err = h.Projects.ListByCreator(ctx, userID)
	case model.RoleOperator:
		projects, err = h.Projects.ListAll(ctx)
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, projects)
}

// Get returns one project.  Any authenticated user may read a project;
// buyers need it to render listing detail pages.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	p, err := h.Projects.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update rewrites a project owned by the authenticated creator.
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := req.toModel(userID)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	if err := h.Projects.Update(c.Request().Context(), id, userID, p); err != nil {
		switch err {
		case repository.ErrProjectNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	stored, err := h.Projects.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stored)
}

// Delete removes a project and cascades to its slots.
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	if err := h.Projects.Delete(c.Request().Context(), id, userID); err != nil {
		switch err {
		case repository.ErrProjectNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
