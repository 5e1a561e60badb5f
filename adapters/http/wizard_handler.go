package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	wizardUC "github.com/khoahotran/personal-card/internal/application/usecase/wizard"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/logger"
)

type WizardHandler struct {
	wizardUC        *wizardUC.WizardUseCase
	maxPictureBytes int64
	logger          logger.Logger
}

func NewWizardHandler(uc *wizardUC.WizardUseCase, maxPictureBytes int64, log logger.Logger) *WizardHandler {
	return &WizardHandler{
		wizardUC:        uc,
		maxPictureBytes: maxPictureBytes,
		logger:          log,
	}
}

func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid session ID format", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *WizardHandler) Start(c *gin.Context) {
	s, err := h.wizardUC.Start(c.Request.Context(), GetIdentityFromGinContext(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToSessionDTO(s))
}

func (h *WizardHandler) Get(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	s, err := h.wizardUC.Get(c.Request.Context(), GetIdentityFromGinContext(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(s))
}

func (h *WizardHandler) Navigate(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("direction must be one of next, back, skip", err))
		return
	}

	s, err := h.wizardUC.Navigate(c.Request.Context(), wizardUC.NavigateInput{
		Identity:  GetIdentityFromGinContext(c),
		SessionID: id,
		Direction: wizardUC.Direction(req.Direction),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(s))
}

// UpdateDraft merges a partial draft. Only the keys present in the body change; the picture
// has its own route.
func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	var patch profile.Patch
	if err := c.ShouldBindWith(&patch, strictJSON); err != nil {
		c.Error(apperror.NewInvalidInput("body is not a valid draft patch", err))
		return
	}

	s, err := h.wizardUC.UpdateDraft(c.Request.Context(), wizardUC.UpdateDraftInput{
		Identity:  GetIdentityFromGinContext(c),
		SessionID: id,
		Patch:     patch,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(s))
}

func (h *WizardHandler) SetPicture(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	if h.maxPictureBytes > 0 {
		// room for the multipart envelope
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPictureBytes+1<<20)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if h.maxPictureBytes > 0 && fileHeader.Size > h.maxPictureBytes {
		c.Error(apperror.NewInvalidInput("picture exceeds "+strconv.FormatInt(h.maxPictureBytes, 10)+" bytes", nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.NewInternal("failed to read file", err))
		return
	}

	s, err := h.wizardUC.SetPicture(c.Request.Context(), wizardUC.SetPictureInput{
		Identity:  GetIdentityFromGinContext(c),
		SessionID: id,
		Data:      data,
		Filename:  fileHeader.Filename,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(s))
}

func (h *WizardHandler) ClearPicture(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	s, err := h.wizardUC.ClearPicture(c.Request.Context(), GetIdentityFromGinContext(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(s))
}

func (h *WizardHandler) AddListItem(c *gin.Context) {
	h.editList(c, wizardUC.ListAdd)
}

func (h *WizardHandler) UpdateListItem(c *gin.Context) {
	h.editList(c, wizardUC.ListUpdate)
}

func (h *WizardHandler) RemoveListItem(c *gin.Context) {
	h.editList(c, wizardUC.ListRemove)
}

func (h *WizardHandler) editList(c *gin.Context, op wizardUC.ListOp) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	in := wizardUC.EditListInput{
		Identity:  GetIdentityFromGinContext(c),
		SessionID: id,
		List:      wizardUC.ListName(c.Param("list")),
		Op:        op,
	}
	if op != wizardUC.ListAdd {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.Error(apperror.NewInvalidInput("index must be an integer", err))
			return
		}
		in.Index = index
	}
	if op != wizardUC.ListRemove && c.Request.ContentLength != 0 {
		var req EditListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.NewInvalidInput("invalid list item body", err))
			return
		}
		in.Field, in.Value = req.Field, req.Value
	}

	s, err := h.wizardUC.EditList(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(s))
}

func (h *WizardHandler) Submit(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	out, err := h.wizardUC.Submit(c.Request.Context(), GetIdentityFromGinContext(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, SubmitResponse{
		ProfileID: out.ProfileID,
		PageID:    out.PageID,
		Redirect:  out.Redirect,
	})
}

func (h *WizardHandler) Discard(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	if err := h.wizardUC.Discard(c.Request.Context(), GetIdentityFromGinContext(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
