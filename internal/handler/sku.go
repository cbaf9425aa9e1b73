package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/config"
	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/repository"
	"github.com/avelora/integration-marketplace/internal/utils"
)

// SKUHandler serves the merchant's product catalog.
type SKUHandler struct {
	Cfg  config.Config
	SKUs *repository.SKURepo
}

func NewSKUHandler(cfg config.Config, s *repository.SKURepo) *SKUHandler {
	return &SKUHandler{Cfg: cfg, SKUs: s}
}

type skuReq struct {
	Title  string   `json:"title"`
	Price  *float64 `json:"price"`
	Margin *float64 `json:"margin"`
	Tags   []string `json:"tags"`
}

func (req skuReq) toModel(merchantID uint64) (model.SKU, string) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.SKU{}, "title is required"
	}
	var price, margin float64
	if req.Price != nil {
		price = *req.Price
	}
	if req.Margin != nil {
		margin = *req.Margin
	}
	if price < 0 {
		return model.SKU{}, "price must be >= 0"
	}
	if margin < 0 || margin > 100 {
		return model.SKU{}, "margin must be between 0 and 100"
	}
	return model.SKU{
		MerchantID: merchantID,
		Title:      title,
		Price:      price,
		Margin:     margin,
		Tags:       req.Tags,
	}, ""
}

// Create adds a SKU to the merchant's catalog.
func (h *SKUHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req skuReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, msg := req.toModel(userID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.SKUs.Create(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create sku failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// List returns the merchant's own catalog.
func (h *SKUHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skus, err := h.SKUs.ListByMerchant(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, skus)
}

// Get returns one SKU.  Readable by any authenticated user so creators
// can inspect the product behind a merchant bid.
func (h *SKUHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sku id"})
	}
	s, err := h.SKUs.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrSKUNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sku not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Update rewrites one of the merchant's SKUs.
func (h *SKUHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sku id"})
	}
	var req skuReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, msg := req.toModel(userID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.SKUs.Update(c.Request().Context(), id, userID, s); err != nil {
		switch err {
		case repository.ErrSKUNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sku not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your sku"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	stored, err := h.SKUs.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stored)
}

// Delete removes one of the merchant's SKUs.
func (h *SKUHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sku id"})
	}
	if err := h.SKUs.Delete(c.Request().Context(), id, userID); err != nil {
		switch err {
		case repository.ErrSKUNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sku not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your sku"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage stores a product image on disk under a ULID filename and
// records its public URL on the SKU.
func (h *SKUHandler) UploadImage(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sku id"})
	}
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file is required"})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	name := utils.NewULID() + ext
	dstPath := filepath.Join(h.Cfg.UploadDir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	url := strings.TrimRight(h.Cfg.BaseURL, "/") + "/static/uploads/" + name
	if err := h.SKUs.SetImageURL(c.Request().Context(), id, userID, url); err != nil {
		_ = os.Remove(dstPath)
		switch err {
		case repository.ErrSKUNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sku not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your sku"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	stored, err := h.SKUs.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stored)
}
