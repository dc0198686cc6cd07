package handler

import (
	"errors"
	"net/http"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/face"
	"github.com/charfaouimohammed/Atend-X/internal/store"
	"github.com/charfaouimohammed/Atend-X/internal/util"

	"github.com/gin-gonic/gin"
)

// RecognizeHandler matches a captured photo against all enrolled students.
type RecognizeHandler struct {
	Students   store.StudentStore
	Embedder   face.Embedder
	Ranker     *face.Ranker
	EncryptKey string
}

func NewRecognizeHandler(students store.StudentStore, embedder face.Embedder, ranker *face.Ranker, encryptKey string) *RecognizeHandler {
	return &RecognizeHandler{
		Students:   students,
		Embedder:   embedder,
		Ranker:     ranker,
		EncryptKey: encryptKey,
	}
}

// Recognize extracts a probe embedding from the uploaded image and returns
// ranked candidates. An empty list is a valid answer (nobody matched); only
// a failed probe extraction is an error.
func (h *RecognizeHandler) Recognize(c *gin.Context) {
	imageData, ok := readPhoto(c)
	if !ok {
		return
	}

	probe, err := h.Embedder.Represent(c.Request.Context(), imageData)
	if err != nil {
		if errors.Is(err, errs.ErrNoFace) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "face recognition failed: no face detected")
			return
		}
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "face recognition failed: "+err.Error())
		return
	}

	// a point-in-time snapshot is enough; a slightly stale student list is
	// acceptable for one recognition attempt
	students, err := h.Students.List(c.Request.Context())
	if err != nil {
		util.WriteError(c, err)
		return
	}

	matches := h.Ranker.Rank(probe, students)
	for i := range matches {
		if matches[i].Image != "" {
			matches[i].Image = util.DecryptFromBase64(h.EncryptKey, matches[i].Image)
		}
	}

	util.Success(c, util.Response{"matches": matches})
}
