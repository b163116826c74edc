package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/service"
)

type CatalogController struct {
	Service *service.CatalogService
	PerPage int
}

func NewCatalogController(s *service.CatalogService, perPage int) *CatalogController {
	return &CatalogController{Service: s, PerPage: perPage}
}

// GET /admin/products
func (ctl *CatalogController) Products(c *gin.Context) {
	var q dto.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, err)
		return
	}
	f := q.Filter(ctl.PerPage)
	products, total, err := ctl.Service.Products(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(products, total, f.Pagination, q))
}

// GET /admin/categories
func (ctl *CatalogController) Categories(c *gin.Context) {
	categories, err := ctl.Service.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if categories == nil {
		categories = []*model.Category{}
	}
	ok(c, http.StatusOK, categories, nil)
}
