package handler

import (
	"fmt"
	"net/http"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
)

type DeliveriesHandler struct {
	svc  service.DeliveryService
	repo repository.DeliveryRepository
}

func NewDeliveriesHandler(svc service.DeliveryService, repo repository.DeliveryRepository) *DeliveriesHandler {
	return &DeliveriesHandler{svc: svc, repo: repo}
}

func (h *DeliveriesHandler) Create(c *gin.Context) {
	userID, ok := claimsUserID(c)
	if !ok {
		return
	}
	var req dto.CreateDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DeliveriesHandler) List(c *gin.Context) {
	var filter dto.DeliveryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeliveriesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeliveriesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Validate completes the delivery, applying the stock mutation.
func (h *DeliveriesHandler) Validate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := claimsUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Validate(c.Request.Context(), id, userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Slip streams the delivery slip PDF.
func (h *DeliveriesHandler) Slip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, apierror.NotFound("delivery not found"))
		return
	}
	pdf, err := infra.GenerateDeliverySlip(d)
	if err != nil {
		respondErr(c, apierror.Transaction("could not render delivery slip", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", d.DeliveryNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *DeliveriesHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeliveriesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
