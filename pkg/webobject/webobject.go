// Package webobject registers generic CRUD routes for gorm models.
// Each object gets list, get and delete endpoints under its pluralized
// name, intended for lightweight admin surfaces.
package webobject

import (
	"errors"
	"reflect"
	"strings"

	"EchoBoard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/inflection"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// WebObject describes a model exposed through the generic admin CRUD.
type WebObject struct {
	Model      any
	Name       string
	Desc       string
	Orderables []string

	modelType reflect.Type
}

// ListResult is the paginated envelope returned by list endpoints.
type ListResult struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// RegisterObjects mounts CRUD routes for every object on the router.
func RegisterObjects(r *gin.RouterGroup, db *gorm.DB, objs []WebObject) {
	for i := range objs {
		registerObject(r, db, &objs[i])
	}
}

func registerObject(r *gin.RouterGroup, db *gorm.DB, obj *WebObject) {
	obj.modelType = reflect.Indirect(reflect.ValueOf(obj.Model)).Type()
	if obj.Name == "" {
		obj.Name = strings.ToLower(obj.modelType.Name())
	}

	group := r.Group(inflection.Plural(obj.Name))
	group.GET("", obj.handleList(db))
	group.GET("/:id", obj.handleGet(db))
	group.DELETE("/:id", obj.handleDelete(db))
}

func (obj *WebObject) handleList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := queryInt(c, "page", defaultPage)
		limit := queryInt(c, "limit", defaultLimit)
		if page < 1 {
			page = defaultPage
		}
		if limit < 1 || limit > maxLimit {
			limit = defaultLimit
		}

		tx := db.Model(obj.Model)

		var total int64
		if err := tx.Count(&total).Error; err != nil {
			response.Error(c, err)
			return
		}

		if order := obj.orderClause(c.Query("order")); order != "" {
			tx = tx.Order(order)
		}

		items := reflect.New(reflect.SliceOf(obj.modelType)).Interface()
		if err := tx.Offset((page - 1) * limit).Limit(limit).Find(items).Error; err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, "ok", ListResult{
			Items: reflect.ValueOf(items).Elem().Interface(),
			Total: total,
			Page:  page,
			Limit: limit,
		})
	}
}

func (obj *WebObject) handleGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		item := reflect.New(obj.modelType).Interface()
		err := db.First(item, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, obj.Name+" not found")
			return
		}
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, "ok", item)
	}
}

func (obj *WebObject) handleDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		item := reflect.New(obj.modelType).Interface()
		err := db.First(item, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, obj.Name+" not found")
			return
		}
		if err != nil {
			response.Error(c, err)
			return
		}
		if err := db.Delete(item).Error; err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, obj.Name+" deleted", nil)
	}
}

// orderClause maps a requested field onto the declared orderables.
// A "-" prefix requests descending order. Unknown fields are ignored.
func (obj *WebObject) orderClause(field string) string {
	if field == "" {
		return ""
	}
	desc := strings.HasPrefix(field, "-")
	name := strings.TrimPrefix(field, "-")
	for _, allowed := range obj.Orderables {
		if strings.EqualFold(allowed, name) {
			col := toSnake(allowed)
			if desc {
				return col + " desc"
			}
			return col
		}
	}
	return ""
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}
