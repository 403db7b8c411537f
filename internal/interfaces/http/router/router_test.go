package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouter_SetupAppliesRouterMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	}))

	g := NewDomainGroup("test", "/test")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(g).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Api"))
}

func TestDomainGroup_Methods(t *testing.T) {
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	g := NewDomainGroup("items", "/items").
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id", ok).
		DELETE("/:id", ok).
		Handle(http.MethodOptions, "/:id", ok)

	engine := gin.New()
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/items"},
		{http.MethodPost, "/api/v1/items"},
		{http.MethodPut, "/api/v1/items/1"},
		{http.MethodPatch, "/api/v1/items/1"},
		{http.MethodDelete, "/api/v1/items/1"},
		{http.MethodOptions, "/api/v1/items/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	parent := NewDomainGroup("admin", "/admin")
	child := parent.Group("outbox", "/outbox")
	child.Use(mark("child"))
	child.GET("/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
	// Registered after the route, still applies
	parent.Use(mark("parent"))

	engine := gin.New()
	parent.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/admin/outbox/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"parent", "child"}, order)
	assert.Equal(t, "admin", parent.Name())
	assert.Equal(t, "/outbox", child.Prefix())
}
