package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/middleware"
	"grocery-admin/internal/service"
)

type UserController struct {
	Service *service.UserService
	PerPage int
}

func NewUserController(s *service.UserService, perPage int) *UserController {
	return &UserController{Service: s, PerPage: perPage}
}

// GET /admin/users
func (ctl *UserController) Index(c *gin.Context) {
	q, f, valid := ctl.filter(c)
	if !valid {
		return
	}
	users, total, err := ctl.Service.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(users, total, f.Pagination, q))
}

// GET /admin/customers
func (ctl *UserController) Customers(c *gin.Context) {
	q, f, valid := ctl.filter(c)
	if !valid {
		return
	}
	users, total, err := ctl.Service.Customers(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(users, total, f.Pagination, q))
}

func (ctl *UserController) filter(c *gin.Context) (dto.UserQuery, dto.UserFilter, bool) {
	var q dto.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, err)
		return q, dto.UserFilter{}, false
	}
	f, err := q.Filter(ctl.PerPage)
	if err != nil {
		fail(c, err)
		return q, f, false
	}
	return q, f, true
}

// GET /admin/users/:id
func (ctl *UserController) Show(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	u, err := ctl.Service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, u, nil)
}

// POST /admin/users
func (ctl *UserController) Store(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := ctl.Service.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, u, dto.Success(fmt.Sprintf("Pengguna %s berhasil dibuat", u.Name)))
}

// PUT /admin/users/:id
func (ctl *UserController) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := ctl.Service.Update(c.Request.Context(), id, req, middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, u, dto.Success("Data pengguna diperbarui"))
}

// DELETE /admin/users/:id
func (ctl *UserController) Destroy(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := ctl.Service.Delete(c.Request.Context(), id, middleware.ActorID(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id}, dto.Success("Pengguna dihapus"))
}

// POST /admin/users/bulk-action
func (ctl *UserController) BulkAction(c *gin.Context) {
	var req dto.BulkUserRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctl.Service.Bulk(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, bulkFlash(res, "pengguna"))
}

// GET /admin/users/export
func (ctl *UserController) Export(c *gin.Context) {
	_, f, valid := ctl.filter(c)
	if !valid {
		return
	}
	var buf bytes.Buffer
	if err := ctl.Service.Export(c.Request.Context(), f, &buf); err != nil {
		fail(c, err)
		return
	}
	sendCSV(c, service.ExportFilename("users", time.Now()), buf.Bytes())
}
