package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/skyrota/skyrota/internal/api/models"
	"github.com/skyrota/skyrota/internal/api/response"
	"github.com/skyrota/skyrota/internal/ftl"
)

// DutyHandler handles flight duty period calculations.
type DutyHandler struct{}

// NewDutyHandler creates a new DutyHandler.
func NewDutyHandler() *DutyHandler {
	return &DutyHandler{}
}

// Calculate handles POST /v1/duty:calculate - compute the maximum flight
// duty period for a report time.
func (h *DutyHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input models.DutyCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	hour, minute, fieldErrors := parseDutyInput(&input)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	result := ftl.CalculateMaxDutyPeriod(ftl.Input{
		ReportHour:   hour,
		ReportMinute: minute,
		Sectors:      input.Sectors,
		Acclimatized: input.Acclimatized,
	})

	resp := models.DutyCalculationResponse{
		MaxDutyMinutes:   result.MaxFDPMinutes,
		MaxDutyFormatted: ftl.FormatMinutes(result.MaxFDPMinutes),
		MinRest:          result.MinRest,
		Breakdown:        make([]models.DutyAdjustment, 0, len(result.Breakdown)),
	}
	for _, adj := range result.Breakdown {
		resp.Breakdown = append(resp.Breakdown, models.DutyAdjustment{
			Label:        adj.Label,
			DeltaMinutes: adj.DeltaMinutes,
			Rationale:    adj.Rationale,
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

func parseDutyInput(input *models.DutyCalculationRequest) (hour, minute int, errs []models.FieldError) {
	parts := strings.Split(input.ReportTime, ":")
	if len(parts) != 2 {
		errs = append(errs, models.FieldError{Field: "reportTime", Message: "must be in HH:mm format"})
	} else {
		var hourErr, minuteErr error
		hour, hourErr = strconv.Atoi(parts[0])
		minute, minuteErr = strconv.Atoi(parts[1])
		if hourErr != nil || hour < 0 || hour > 23 {
			errs = append(errs, models.FieldError{Field: "reportTime", Message: "hour must be between 0 and 23"})
		}
		if minuteErr != nil || minute < 0 || minute > 59 {
			errs = append(errs, models.FieldError{Field: "reportTime", Message: "minute must be between 0 and 59"})
		}
	}

	if input.Sectors < 1 || input.Sectors > 8 {
		errs = append(errs, models.FieldError{Field: "sectors", Message: "must be between 1 and 8"})
	}

	return hour, minute, errs
}
