package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/salsa-engine/salsa/internal/assistant"
	"github.com/salsa-engine/salsa/internal/engine"
	"github.com/salsa-engine/salsa/internal/model"
	"github.com/salsa-engine/salsa/internal/salsaerr"
	"github.com/salsa-engine/salsa/internal/store"
)

type handler struct {
	store     *store.Store
	assistant *assistant.Assistant
	log       *logrus.Logger
}

// solveRequest is the wire shape of a solve invocation: the three input
// tables, an optional named settings profile to start from, and an optional
// full settings object that, when present, replaces the profile's settings
// as a whole (its fields are not merged into the profile).
type solveRequest struct {
	Calendario      model.Table      `json:"calendario" binding:"required"`
	Estimativas     model.Table      `json:"estimativas" binding:"required"`
	Colaborador     model.Table      `json:"colaborador" binding:"required"`
	SettingsProfile string           `json:"settings_profile"`
	Settings        *model.Settings  `json:"settings"`
	Explain         bool             `json:"explain"`
}

type solveResponse struct {
	RunID          string                   `json:"run_id"`
	Horizon        []int                    `json:"horizon_days"`
	Employees      []int                    `json:"employees"`
	ScheduleMatrix map[int]map[int]string   `json:"schedule_matrix"`
	Report         model.Report             `json:"report"`
	Explanation    string                   `json:"explanation,omitempty"`
}

// Solve runs one full engine invocation and persists its outcome, the same
// way the teacher's OptimizeVacations handler calls into the optimizer and
// stores the result.
func (h *handler) Solve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.resolveSettings(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.New().String()

	raw := model.RawInput{
		Calendario:  req.Calendario,
		Estimativas: req.Estimativas,
		Colaborador: req.Colaborador,
		Settings:    settings,
	}

	schedule, err := engine.Run(raw)

	if h.store != nil {
		if recErr := h.store.RecordRun(runID, schedule, err); recErr != nil {
			h.log.WithError(recErr).Warn("failed to record solve run")
		}
	}

	if err != nil {
		c.JSON(statusForError(err), gin.H{"run_id": runID, "error": err.Error()})
		return
	}

	resp := solveResponse{
		RunID:          runID,
		Horizon:        schedule.Horizon.Days,
		Employees:      schedule.Employees,
		ScheduleMatrix: renderMatrix(schedule),
		Report:         schedule.Report,
	}
	if req.Explain && h.assistant != nil {
		resp.Explanation = h.assistant.ExplainReport(schedule.Report)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) resolveSettings(req solveRequest) (model.Settings, error) {
	settings := model.DefaultSettings()
	if h.store != nil {
		profile := req.SettingsProfile
		if profile == "" {
			profile = "default"
		}
		s, err := h.store.SettingsProfile(profile)
		if err != nil {
			return model.Settings{}, err
		}
		settings = s
	}
	if req.Settings != nil {
		settings = *req.Settings
	}
	return settings, nil
}

func renderMatrix(s *model.Schedule) map[int]map[int]string {
	out := make(map[int]map[int]string, len(s.Employees))
	for _, e := range s.Employees {
		row := make(map[int]string, len(s.Horizon.Days))
		for _, d := range s.Horizon.Days {
			row[d] = string(s.Cell(e, d))
		}
		out[e] = row
	}
	return out
}

func statusForError(err error) int {
	se, ok := err.(*salsaerr.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch se.Kind {
	case salsaerr.KindMissingTable, salsaerr.KindMissingColumn, salsaerr.KindEmptyWorkforce, salsaerr.KindEmptyHorizon:
		return http.StatusBadRequest
	case salsaerr.KindNoFeasibleSchedule, salsaerr.KindNoSolutionWithinBudget:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RecentRuns returns the latest solve-run history.
func (h *handler) RecentRuns(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, []store.RunSummary{})
		return
	}
	runs, err := h.store.RecentRuns(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetSettingsProfile returns a named solver settings profile.
func (h *handler) GetSettingsProfile(c *gin.Context) {
	name := c.Param("name")
	settings, err := h.store.SettingsProfile(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutSettingsProfile creates or updates a named solver settings profile.
func (h *handler) PutSettingsProfile(c *gin.Context) {
	name := c.Param("name")
	var settings model.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SaveSettingsProfile(name, settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}
