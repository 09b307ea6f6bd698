package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

// NotFound answers unmatched routes with the standard error envelope.
func NotFound(c *gin.Context) {
	response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
}
