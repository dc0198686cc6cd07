package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/face"
	"github.com/charfaouimohammed/Atend-X/internal/middleware"
	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/store"
	"github.com/charfaouimohammed/Atend-X/internal/util"

	"github.com/gin-gonic/gin"
)

// maxPhotoBytes caps the uploaded enrollment/recognition photo size.
const maxPhotoBytes = 8 << 20

// StudentHandler serves student enrollment and lookup.
type StudentHandler struct {
	Students   store.StudentStore
	Embedder   face.Embedder
	EncryptKey string
}

func NewStudentHandler(students store.StudentStore, embedder face.Embedder, encryptKey string) *StudentHandler {
	return &StudentHandler{
		Students:   students,
		Embedder:   embedder,
		EncryptKey: encryptKey,
	}
}

type studentResp struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CNE          string    `json:"cne"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Image        string    `json:"image,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	CreatedBy    string    `json:"created_by"`
}

func (h *StudentHandler) toStudentResp(s *models.Student) studentResp {
	return studentResp{
		ID:           s.ID.Hex(),
		Name:         s.Name,
		CNE:          s.CNE,
		Email:        s.Email,
		Phone:        s.Phone,
		Image:        util.DecryptFromBase64(h.EncryptKey, s.Image),
		RegisteredAt: s.RegisteredAt,
		CreatedBy:    s.CreatedBy,
	}
}

// readPhoto pulls the uploaded image out of the multipart form.
func readPhoto(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "image file is required")
		return nil, false
	}
	if fileHeader.Size > maxPhotoBytes {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "image file too large")
		return nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read image file")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read image file")
		return nil, false
	}
	return data, true
}

// ---------- enroll ----------

// Create enrolls a student: one embedding extraction per enrollment, the
// photo is stored encrypted. Any embedding failure is a 400, matching the
// enrollment contract.
func (h *StudentHandler) Create(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	cne := strings.TrimSpace(c.PostForm("cne"))
	email := strings.TrimSpace(c.PostForm("email"))
	phone := strings.TrimSpace(c.PostForm("phone"))
	if name == "" || email == "" || phone == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name, email and phone are required")
		return
	}
	if err := util.ValidateCNE(cne); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateEmail(email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	imageData, ok := readPhoto(c)
	if !ok {
		return
	}

	embedding, err := h.Embedder.Represent(c.Request.Context(), imageData)
	if err != nil {
		// enrollment photo must contain a detectable face
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "student creation failed: "+err.Error())
		return
	}

	encImage, err := util.EncryptToBase64(h.EncryptKey, imageData)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "photo encryption failed")
		return
	}

	student := models.Student{
		Name:         name,
		CNE:          cne,
		Email:        email,
		Phone:        phone,
		Image:        encImage,
		Embedding:    embedding,
		RegisteredAt: time.Now(),
		CreatedBy:    admin.ID.Hex(),
	}
	if err := h.Students.Insert(c.Request.Context(), &student); err != nil {
		util.WriteError(c, err)
		return
	}

	util.Success(c, util.Response{
		"student": h.toStudentResp(&student),
	})
}

// ---------- lookup ----------

func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.Students.List(c.Request.Context())
	if err != nil {
		util.WriteError(c, err)
		return
	}

	resp := make([]studentResp, 0, len(students))
	for i := range students {
		resp = append(resp, h.toStudentResp(&students[i]))
	}
	util.Success(c, util.Response{
		"students": resp,
	})
}

func (h *StudentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := util.ValidateObjectID(id); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	student, err := h.Students.FindByID(c.Request.Context(), id)
	if err != nil {
		util.WriteError(c, err)
		return
	}
	util.Success(c, util.Response{
		"student": h.toStudentResp(student),
	})
}
