package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"studygram/internal/models"
	"studygram/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetModules(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Get("/modules", s.GetModules)

	m.modules.On("List", mock.Anything).Return([]models.Module{
		{ID: 1, Name: "Algorithms", Code: "CS201", Type: "Computer Science"},
		{ID: 2, Name: "Databases", Code: "CS305", Type: "Computer Science"},
		{ID: 3, Name: "Linear Algebra", Code: "MA101", Type: "Mathematics"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var groups []service.ModuleGroup
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "Computer Science", groups[0].Type)
	assert.Len(t, groups[0].Modules, 2)
	assert.Equal(t, "Mathematics", groups[1].Type)
}
