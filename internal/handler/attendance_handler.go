package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/response"
	"github.com/sekolahku/presensi-backend/internal/service"
	"github.com/sekolahku/presensi-backend/internal/validator"
)

// AttendanceHandler exposes the reconciliation reports and the two
// attendance write paths.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// failAttendance maps attendance service errors to API error responses.
func failAttendance(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
	case errors.Is(err, service.ErrInvalidStatus):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidStatus)
	case errors.Is(err, service.ErrInvalidPeriod):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
	case errors.Is(err, service.ErrClassNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
	case errors.Is(err, service.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
	case errors.Is(err, service.ErrEmptyRoster):
		response.Fail(c, http.StatusNotFound, response.ErrEmptyRoster)
	case errors.Is(err, service.ErrBulkWrite):
		response.Fail(c, http.StatusInternalServerError, response.ErrBulkWriteFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func classIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

func periodQuery(c *gin.Context) (year, month, week int, ok bool) {
	var err error
	if year, err = strconv.Atoi(c.Query("year")); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(c.Query("month")); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return 0, 0, 0, false
	}
	week, _ = strconv.Atoi(c.DefaultQuery("week", "0"))
	return year, month, week, true
}

// DailyReport godoc
// GET /api/v1/attendance/classes/:id/daily?date=YYYY-MM-DD
// Whole-class reconciled view for one day.
func (h *AttendanceHandler) DailyReport(c *gin.Context) {
	classID, ok := classIDParam(c)
	if !ok {
		return
	}

	report, err := h.attendanceService.DailyClassReport(c.Request.Context(), classID, c.Query("date"))
	if err != nil {
		failAttendance(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// WeeklyReport godoc
// GET /api/v1/attendance/classes/:id/weekly?year=&month=&week=
// Whole-class reconciled view for one Monday-Saturday window.
func (h *AttendanceHandler) WeeklyReport(c *gin.Context) {
	classID, ok := classIDParam(c)
	if !ok {
		return
	}
	year, month, week, ok := periodQuery(c)
	if !ok {
		return
	}

	report, err := h.attendanceService.WeeklyClassReport(c.Request.Context(), classID, year, month, week)
	if err != nil {
		failAttendance(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// StudentWeeklyReport godoc
// GET /api/v1/attendance/classes/:id/students/:student_id/weekly?year=&month=&week=
// One student's reconciled week plus presence summary.
func (h *AttendanceHandler) StudentWeeklyReport(c *gin.Context) {
	classID, ok := classIDParam(c)
	if !ok {
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, month, week, ok := periodQuery(c)
	if !ok {
		return
	}

	report, err := h.attendanceService.StudentWeeklyReport(c.Request.Context(), classID, studentID, year, month, week)
	if err != nil {
		failAttendance(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// StudentMonthlyReport godoc
// GET /api/v1/attendance/classes/:id/students/:student_id/monthly?year=&month=
// One student's four fixed weekly reports for a month.
func (h *AttendanceHandler) StudentMonthlyReport(c *gin.Context) {
	classID, ok := classIDParam(c)
	if !ok {
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, month, _, ok := periodQuery(c)
	if !ok {
		return
	}

	report, err := h.attendanceService.StudentMonthlyReport(c.Request.Context(), classID, studentID, year, month)
	if err != nil {
		failAttendance(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// Upsert godoc
// POST /api/v1/attendance/records
// Creates or updates the unique row for (student, class, date).
func (h *AttendanceHandler) Upsert(c *gin.Context) {
	var req model.UpsertAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	detail, err := h.attendanceService.UpsertAttendance(c.Request.Context(), req.ClassID, req.StudentID, req.Date, req.Status)
	if err != nil {
		failAttendance(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// BulkStatus returns a handler that marks the whole class roster with
// one fixed status for a day. Mounted once per status.
func (h *AttendanceHandler) BulkStatus(status model.AttendanceStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		classID, ok := classIDParam(c)
		if !ok {
			return
		}

		var req struct {
			Date string `json:"date" binding:"required"`
		}
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}

		result, err := h.attendanceService.SetClassStatusForDate(c.Request.Context(), classID, req.Date, status)
		if err != nil {
			failAttendance(c, err)
			return
		}

		response.Success(c, http.StatusOK, result)
	}
}
