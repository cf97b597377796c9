package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
	"github.com/vladimiradmaev/insulin-uploader/internal/imaging"
	"github.com/vladimiradmaev/insulin-uploader/internal/interfaces"
	"github.com/vladimiradmaev/insulin-uploader/internal/services"
)

type handlers struct {
	extractor      interfaces.Extractor
	processor      interfaces.TreatmentProcessor
	errs           *apperrors.Handler
	autoConfirm    bool
	requestTimeout time.Duration
}

// uploadResponse is returned by POST /upload. For the two-step flow Entries
// and Preview carry the unconfirmed candidates; the caller is the sole
// holder of that state between the two calls.
type uploadResponse struct {
	Message string                   `json:"message"`
	Entries []domain.CandidateRecord `json:"entries,omitempty"`
	Preview []string                 `json:"preview,omitempty"`
	Log     []string                 `json:"log,omitempty"`
}

type confirmResponse struct {
	Message string   `json:"message"`
	Log     []string `json:"log"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Insulin uploader is running"})
}

// upload accepts one multipart image, extracts candidate records from it and
// either relays them immediately (auto-confirm) or returns them for review.
// Request-level failures are reported as a 200 with an error body; the
// frontend renders the message either way.
func (h *handlers) upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusOK, errorResponse{Error: "No image uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusOK, errorResponse{Error: "Failed to open uploaded image"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusOK, errorResponse{Error: "Failed to read uploaded image"})
		return
	}

	jpegData, err := imaging.Normalize(data)
	if err != nil {
		h.errs.Handle(c.Request.Context(), err)
		c.JSON(http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	raw, err := h.extractor.ExtractInsulinLog(ctx, jpegData)
	if err != nil {
		h.errs.Handle(ctx, err)
		c.JSON(http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	result := services.ParseModelOutput(raw)
	if result.Kind == domain.KindUnstructured {
		// Nothing extracted; surface the model text as the status message.
		c.JSON(http.StatusOK, uploadResponse{Message: result.Text})
		return
	}

	if h.autoConfirm {
		log := h.processor.Process(ctx, result.Records)
		c.JSON(http.StatusOK, uploadResponse{
			Message: strings.Join(log, "\n"),
			Log:     log,
		})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		Message: "Review the extracted entries and confirm to send",
		Entries: result.Records,
		Preview: services.BuildPreview(result.Records),
	})
}

// confirm accepts either a bare JSON array of structured entries or
// {"entries": [...]} of preview lines, and relays each accepted record.
func (h *handlers) confirm(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, errorResponse{Error: "Failed to read request body"})
		return
	}

	records, log, ok := decodeConfirmBody(body)
	if !ok {
		c.JSON(http.StatusOK, errorResponse{Error: "Body must be a JSON array of entries or {\"entries\": [...]}"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	log = append(log, h.processor.Process(ctx, records)...)

	c.JSON(http.StatusOK, confirmResponse{
		Message: strings.Join(log, "\n"),
		Log:     log,
	})
}

// decodeConfirmBody accepts the two confirmation shapes. Preview lines that
// fail to re-parse become log lines instead of records.
func decodeConfirmBody(body []byte) (records []domain.CandidateRecord, log []string, ok bool) {
	var structured []domain.CandidateRecord
	if err := json.Unmarshal(body, &structured); err == nil {
		return structured, nil, true
	}

	var lines struct {
		Entries []string `json:"entries"`
	}
	if err := json.Unmarshal(body, &lines); err != nil || lines.Entries == nil {
		return nil, nil, false
	}

	for _, line := range lines.Entries {
		rec, err := services.ParsePreviewLine(line)
		if err != nil {
			log = append(log, err.Error())
			continue
		}
		records = append(records, rec)
	}
	return records, log, true
}
