package handler

import (
	"fmt"
	"net/http"

	"github.com/charfaouimohammed/Atend-X/internal/middleware"
	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/session"
	"github.com/charfaouimohammed/Atend-X/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// SessionHandler serves the attendance session lifecycle and stats.
type SessionHandler struct {
	Sessions   *session.Service
	EncryptKey string
}

func NewSessionHandler(sessions *session.Service, encryptKey string) *SessionHandler {
	return &SessionHandler{
		Sessions:   sessions,
		EncryptKey: encryptKey,
	}
}

// decryptRoster swaps stored (encrypted) photos for displayable ones.
func (h *SessionHandler) decryptRoster(view *session.View) {
	for i := range view.PresentStudents {
		if view.PresentStudents[i].Image != "" {
			view.PresentStudents[i].Image = util.DecryptFromBase64(h.EncryptKey, view.PresentStudents[i].Image)
		}
	}
}

// ---------- lifecycle ----------

// Start opens the admin's attendance session; a second active session is a
// 400 conflict.
func (h *SessionHandler) Start(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	s, err := h.Sessions.Start(c.Request.Context(), admin.ID.Hex())
	if err != nil {
		util.WriteError(c, err)
		return
	}

	util.Success(c, util.Response{
		"session": gin.H{
			"id":               s.ID.Hex(),
			"admin_id":         s.AdminID,
			"start_time":       s.StartTime,
			"status":           s.Status,
			"present_students": []session.RosterEntry{},
		},
	})
}

// Current returns the active session with its roster resolved, or a null
// session when there is none.
func (h *SessionHandler) Current(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	view, err := h.Sessions.Current(c.Request.Context(), admin.ID.Hex())
	if err != nil {
		util.WriteError(c, err)
		return
	}
	if view == nil {
		util.Success(c, util.Response{"session": nil})
		return
	}
	h.decryptRoster(view)
	util.Success(c, util.Response{"session": view})
}

type markAttendanceReq struct {
	StudentID string `json:"student_id" binding:"required"`
}

// Mark records one student as present. Re-marking an already present
// student succeeds without mutation, so recognition retries stay painless.
func (h *SessionHandler) Mark(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	sessionID := c.Param("id")
	if err := util.ValidateObjectID(sessionID); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid session ID format")
		return
	}

	var req markAttendanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "student_id is required")
		return
	}
	if err := util.ValidateObjectID(req.StudentID); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid student ID format")
		return
	}

	res, err := h.Sessions.MarkPresent(c.Request.Context(), admin.ID.Hex(), sessionID, req.StudentID)
	if err != nil {
		util.WriteError(c, err)
		return
	}

	if res == session.MarkAlreadyPresent {
		util.Success(c, util.Response{"message": "Student already marked present"})
		return
	}
	util.Success(c, util.Response{"message": "Attendance marked successfully"})
}

// End completes the session and returns the frozen roster with identity
// details resolved.
func (h *SessionHandler) End(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	sessionID := c.Param("id")
	if err := util.ValidateObjectID(sessionID); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid session ID format")
		return
	}

	view, err := h.Sessions.End(c.Request.Context(), admin.ID.Hex(), sessionID)
	if err != nil {
		util.WriteError(c, err)
		return
	}
	util.Success(c, util.Response{"session": view})
}

// ---------- reads ----------

// Stats serves the dashboard aggregates.
func (h *SessionHandler) Stats(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	stats, err := h.Sessions.Stats(c.Request.Context(), admin.ID.Hex())
	if err != nil {
		util.WriteError(c, err)
		return
	}
	util.Success(c, util.Response{"stats": stats})
}

// ExportXLSX downloads a session roster as a spreadsheet.
func (h *SessionHandler) ExportXLSX(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	sessionID := c.Param("id")
	if err := util.ValidateObjectID(sessionID); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid session ID format")
		return
	}

	view, err := h.Sessions.Find(c.Request.Context(), admin.ID.Hex(), sessionID)
	if err != nil {
		util.WriteError(c, err)
		return
	}
	if view.Status != models.SessionCompleted {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "session is still active")
		return
	}

	f := excelize.NewFile()
	sheetName := "Attendance"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Name", "CNE", "Email", "Phone"}
	for i, head := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, entry := range view.PresentStudents {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.CNE)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.Phone)
	}

	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 28)
	f.SetColWidth(sheetName, "D", "D", 16)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"attendance_%s.xlsx\"", uuid.New().String()))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
