package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

// SeedHeader echoes the seed used for an exported document.
const SeedHeader = "X-Timetable-Seed"

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error)
	GenerateBatch(ctx context.Context, req dto.BatchGenerateRequest) (*dto.BatchGenerateResponse, error)
	Export(ctx context.Context, req dto.ExportTimetableRequest) (*dto.ExportFile, error)
	Legend() []dto.LegendEntry
	Slots(ctx context.Context) (*dto.SlotsResponse, error)
	Roster(ctx context.Context) (*dto.RosterResponse, error)
}

// TimetableHandler exposes timetable generation endpoints.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate a weekly timetable
// @Description Places the roster's sessions on the weekly grid. Omit seed for a random layout; the seed used is returned.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, resp.RosterCached)
	middleware.SetMeta(c, "seed", resp.Seed)
	middleware.SetMeta(c, "unplaced", len(resp.Unplaced))
	response.JSON(c, http.StatusOK, resp, middleware.ExtractMeta(c))
}

// GenerateBatch godoc
// @Summary Generate timetables for several divisions
// @Description Division i is generated with seed+i.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.BatchGenerateRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetables/batch [post]
func (h *TimetableHandler) GenerateBatch(c *gin.Context) {
	var req dto.BatchGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}
	resp, err := h.service.GenerateBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(resp.Timetables))
	response.JSON(c, http.StatusOK, resp, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download a generated timetable
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/calendar
// @Param branch query string true "Branch"
// @Param division query string true "Division"
// @Param format query string true "csv, pdf, xlsx or ics"
// @Param seed query int false "Seed"
// @Param weekOf query string false "First teaching week (YYYY-MM-DD), ics only"
// @Param weeks query int false "Weekly repetitions, ics only"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /timetables/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var req dto.ExportTimetableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header(SeedHeader, strconv.FormatInt(file.Seed, 10))
	response.Attachment(c, file.ContentType, file.Filename, file.Body)
}

// Legend godoc
// @Summary Session kinds with display tokens
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables/legend [get]
func (h *TimetableHandler) Legend(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Legend())
}

// Slots godoc
// @Summary Teaching days and bell schedule
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables/slots [get]
func (h *TimetableHandler) Slots(c *gin.Context) {
	resp, err := h.service.Slots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Roster godoc
// @Summary Active roster, branches and divisions
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables/roster [get]
func (h *TimetableHandler) Roster(c *gin.Context) {
	resp, err := h.service.Roster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Register mounts the timetable routes on group.
func (h *TimetableHandler) Register(group *gin.RouterGroup) {
	timetables := group.Group("/timetables")
	timetables.POST("/generate", h.Generate)
	timetables.POST("/batch", h.GenerateBatch)
	timetables.GET("/export", h.Export)
	timetables.GET("/legend", h.Legend)
	timetables.GET("/slots", h.Slots)
	timetables.GET("/roster", h.Roster)
}
