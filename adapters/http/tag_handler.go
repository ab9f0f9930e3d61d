package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tagUC "github.com/weihsuanlee/guidemap/internal/application/usecase/tag"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
)

type TagHandler struct {
	createTagUseCase        *tagUC.CreateTagUseCase
	updateTagUseCase        *tagUC.UpdateTagUseCase
	deleteTagUseCase        *tagUC.DeleteTagUseCase
	getTagUseCase           *tagUC.GetTagUseCase
	listTagsUseCase         *tagUC.ListTagsUseCase
	listUserTagsUseCase     *tagUC.ListUserTagsUseCase
	updateStatusUseCase     *tagUC.UpdateStatusUseCase
	getLatestStatusUseCase  *tagUC.GetLatestStatusUseCase
	getStatusHistoryUseCase *tagUC.GetStatusHistoryUseCase
	applyVoteUseCase        *tagUC.ApplyVoteUseCase
}

func NewTagHandler(
	createUC *tagUC.CreateTagUseCase,
	updateUC *tagUC.UpdateTagUseCase,
	deleteUC *tagUC.DeleteTagUseCase,
	getUC *tagUC.GetTagUseCase,
	listUC *tagUC.ListTagsUseCase,
	listUserUC *tagUC.ListUserTagsUseCase,
	updateStatusUC *tagUC.UpdateStatusUseCase,
	latestStatusUC *tagUC.GetLatestStatusUseCase,
	statusHistoryUC *tagUC.GetStatusHistoryUseCase,
	applyVoteUC *tagUC.ApplyVoteUseCase,
) *TagHandler {
	return &TagHandler{
		createTagUseCase:        createUC,
		updateTagUseCase:        updateUC,
		deleteTagUseCase:        deleteUC,
		getTagUseCase:           getUC,
		listTagsUseCase:         listUC,
		listUserTagsUseCase:     listUserUC,
		updateStatusUseCase:     updateStatusUC,
		getLatestStatusUseCase:  latestStatusUC,
		getStatusHistoryUseCase: statusHistoryUC,
		applyVoteUseCase:        applyVoteUC,
	}
}

func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(apperror.ToHTTPStatus(err), appErr.ToJSON())
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func parseTagID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'id' is not a valid tag id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := tagUC.CreateTagInput{
		User:           GetUserInfoFromGinContext(c),
		LocationName:   req.LocationName,
		Category:       tag.Category(req.Category),
		Floor:          req.Floor,
		Description:    req.Description,
		Coordinates:    req.ToCoordinates(),
		StreetViewInfo: req.StreetViewInfo,
		ImageCount:     req.ImageCount,
	}

	output, err := h.createTagUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tag":               ToTagDTO(output.Tag),
		"status":            ToStatusDTO(output.DefaultStatus, nil),
		"image_upload_urls": output.ImageUploadURLs,
	})
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
	tagID, ok := parseTagID(c)
	if !ok {
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := tagUC.UpdateTagInput{
		User:           GetUserInfoFromGinContext(c),
		TagID:          tagID,
		LocationName:   req.LocationName,
		Category:       tag.Category(req.Category),
		Floor:          req.Floor,
		Description:    req.Description,
		Coordinates:    req.ToCoordinates(),
		StreetViewInfo: req.StreetViewInfo,
	}

	output, err := h.updateTagUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": ToTagDTO(output.Tag)})
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	tagID, ok := parseTagID(c)
	if !ok {
		return
	}

	input := tagUC.DeleteTagInput{
		User:  GetUserInfoFromGinContext(c),
		TagID: tagID,
	}
	if err := h.deleteTagUseCase.Execute(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tag deleted"})
}

func (h *TagHandler) GetTag(c *gin.Context) {
	tagID, ok := parseTagID(c)
	if !ok {
		return
	}

	t, err := h.getTagUseCase.Execute(c.Request.Context(), tagID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": ToTagDTO(t)})
}

func (h *TagHandler) ListTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	input := tagUC.ListTagsInput{
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}
	tags, err := h.listTagsUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": ToTagDTOs(tags)})
}

func (h *TagHandler) ListMyTags(c *gin.Context) {
	tags, err := h.listUserTagsUseCase.Execute(c.Request.Context(), GetUserInfoFromGinContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": ToTagDTOs(tags)})
}

func (h *TagHandler) UpdateStatus(c *gin.Context) {
	tagID, ok := parseTagID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := tagUC.UpdateStatusInput{
		User:        GetUserInfoFromGinContext(c),
		TagID:       tagID,
		StatusName:  req.StatusName,
		Description: req.Description,
	}
	output, err := h.updateStatusUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": ToStatusDTO(output.Status, nil)})
}

func (h *TagHandler) GetLatestStatus(c *gin.Context) {
	tagID, ok := parseTagID(c)
	if !ok {
		return
	}

	output, err := h.getLatestStatusUseCase.Execute(c.Request.Context(), tagID, GetUserInfoFromGinContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": ToStatusDTO(output.Status, output.HasUpvoted)})
}

func (h *TagHandler) GetStatusHistory(c *gin.Context) {
	tagID, ok := parseTagID(c)
	if !ok {
		return
	}

	history, err := h.getStatusHistoryUseCase.Execute(c.Request.Context(), tagID)
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]StatusDTO, len(history))
	for i, s := range history {
		dtos[i] = ToStatusDTO(s, nil)
	}
	c.JSON(http.StatusOK, gin.H{"statuses": dtos})
}

func (h *TagHandler) ApplyVote(c *gin.Context) {
	tagID, ok := parseTagID(c)
	if !ok {
		return
	}

	var req ApplyVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := tagUC.ApplyVoteInput{
		User:   GetUserInfoFromGinContext(c),
		TagID:  tagID,
		Action: tag.VoteAction(req.Action),
	}
	result, err := h.applyVoteUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToVoteResultDTO(result))
}
