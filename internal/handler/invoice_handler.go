package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-builder-service/internal/model"
	"github.com/ridwanfathin/invoice-builder-service/internal/repository"
	"github.com/ridwanfathin/invoice-builder-service/internal/service"
	"github.com/ridwanfathin/invoice-builder-service/internal/session"
)

// InvoiceHandler handles HTTP requests for the invoice builder session
type InvoiceHandler struct {
	builder service.BuilderServicer
}

// NewInvoiceHandler creates a new invoice builder handler
func NewInvoiceHandler(builder service.BuilderServicer) *InvoiceHandler {
	return &InvoiceHandler{builder: builder}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/invoice", h.GetInvoice)
	router.PUT("/v1/invoice/sender", h.UpdateSender)
	router.PUT("/v1/invoice/recipient", h.UpdateRecipient)
	router.PUT("/v1/invoice/metadata", h.UpdateMetadata)
	router.PUT("/v1/invoice/rates", h.UpdateRates)
	router.POST("/v1/invoice/items", h.AddItem)
	router.PUT("/v1/invoice/items/:id", h.UpdateItem)
	router.DELETE("/v1/invoice/items/:id", h.RemoveItem)
	router.GET("/v1/invoice/totals", h.GetTotals)
	router.GET("/v1/invoice/preview", h.GetPreview)
	router.POST("/v1/invoice/export", h.ExportInvoice)
	router.GET("/v1/exports", h.ListExports)
	router.GET("/v1/exports/:id", h.GetExport)
}

// documentResponse builds the combined document + totals payload
func (h *InvoiceHandler) documentResponse() model.DocumentResponse {
	var response model.DocumentResponse
	response.Invoice.FromDomain(h.builder.Document())
	response.Totals.FromDomain(h.builder.Totals())
	return response
}

// applyUpdate runs one update operation and maps its failure modes to
// HTTP responses. On success the refreshed document is returned.
func (h *InvoiceHandler) applyUpdate(c *gin.Context, op session.Op) {
	if err := h.builder.Apply(op); err != nil {
		switch {
		case errors.Is(err, session.ErrItemNotFound):
			respondNotFound(c, ErrResourceNotFound)
		case errors.Is(err, session.ErrUnknownField):
			respondBadRequest(c, err.Error())
		default:
			respondBadRequest(c, err.Error())
		}
		return
	}
	respondOK(c, h.documentResponse())
}

// GetInvoice returns the current document with fresh totals
// @Summary Get the invoice document
// @Description Returns the session's invoice document together with freshly derived totals
// @Tags invoice
// @Produce json
// @Success 200 {object} model.DocumentResponse
// @Router /v1/invoice [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	respondOK(c, h.documentResponse())
}

// UpdateSender updates one field of the sender block
// @Summary Update a sender field
// @Tags invoice
// @Accept json
// @Produce json
// @Param request body model.UpdateFieldRequest true "Field update"
// @Success 200 {object} model.DocumentResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/invoice/sender [put]
func (h *InvoiceHandler) UpdateSender(c *gin.Context) {
	var req model.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}
	h.applyUpdate(c, session.UpdateSender{Field: req.Field, Value: req.Value})
}

// UpdateRecipient updates one field of the "Bill To" block
// @Summary Update a recipient field
// @Tags invoice
// @Accept json
// @Produce json
// @Param request body model.UpdateFieldRequest true "Field update"
// @Success 200 {object} model.DocumentResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/invoice/recipient [put]
func (h *InvoiceHandler) UpdateRecipient(c *gin.Context) {
	var req model.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}
	h.applyUpdate(c, session.UpdateRecipient{Field: req.Field, Value: req.Value})
}

// UpdateMetadata updates one field of the invoice metadata block
// @Summary Update a metadata field
// @Tags invoice
// @Accept json
// @Produce json
// @Param request body model.UpdateFieldRequest true "Field update"
// @Success 200 {object} model.DocumentResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/invoice/metadata [put]
func (h *InvoiceHandler) UpdateMetadata(c *gin.Context) {
	var req model.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}
	h.applyUpdate(c, session.UpdateMetadata{Field: req.Field, Value: req.Value})
}

// UpdateRates updates the tax rate or discount percentage. Empty or
// non-numeric values coerce to 0.
// @Summary Update tax or discount rate
// @Tags invoice
// @Accept json
// @Produce json
// @Param request body model.UpdateFieldRequest true "Field update (tax_rate_percent or discount_percent)"
// @Success 200 {object} model.DocumentResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/invoice/rates [put]
func (h *InvoiceHandler) UpdateRates(c *gin.Context) {
	var req model.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}
	h.applyUpdate(c, session.UpdateRates{Field: req.Field, Value: req.Value})
}

// AddItem appends a new line item
// @Summary Add a line item
// @Description Appends a new line item with a fresh id, empty description, quantity 1 and price 0
// @Tags invoice
// @Produce json
// @Success 200 {object} model.DocumentResponse
// @Router /v1/invoice/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	h.applyUpdate(c, session.AddItem{})
}

// UpdateItem updates one field of one line item
// @Summary Update a line item field
// @Tags invoice
// @Accept json
// @Produce json
// @Param id path int true "Line item id"
// @Param request body model.UpdateFieldRequest true "Field update"
// @Success 200 {object} model.DocumentResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /v1/invoice/items/{id} [put]
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	id, err := getPathInt64(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}
	var req model.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}
	h.applyUpdate(c, session.UpdateItem{ID: id, Field: req.Field, Value: req.Value})
}

// RemoveItem removes one line item
// @Summary Remove a line item
// @Tags invoice
// @Produce json
// @Param id path int true "Line item id"
// @Success 200 {object} model.DocumentResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /v1/invoice/items/{id} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	id, err := getPathInt64(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}
	h.applyUpdate(c, session.RemoveItem{ID: id})
}

// GetTotals returns the freshly derived totals
// @Summary Get invoice totals
// @Tags invoice
// @Produce json
// @Success 200 {object} model.TotalsDTO
// @Router /v1/invoice/totals [get]
func (h *InvoiceHandler) GetTotals(c *gin.Context) {
	var totals model.TotalsDTO
	totals.FromDomain(h.builder.Totals())
	respondOK(c, totals)
}

// GetPreview returns the rendered visual document
// @Summary Get the rendered invoice preview
// @Tags invoice
// @Produce html
// @Success 200 {string} string "Rendered invoice HTML"
// @Failure 500 {object} model.ErrorResponse
// @Router /v1/invoice/preview [get]
func (h *InvoiceHandler) GetPreview(c *gin.Context) {
	visual, err := h.builder.Preview()
	if err != nil {
		log.Printf("Preview rendering failed: %v", err)
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	c.Data(StatusOK, "text/html; charset=utf-8", []byte(visual.HTML))
}

// ExportInvoice runs the paginated export pipeline and streams the PDF
// @Summary Export the invoice as a paginated PDF
// @Description Captures the rendered document, slices it into A4 pages and streams the assembled PDF
// @Tags invoice
// @Produce application/pdf
// @Success 200 {file} file "PDF document"
// @Failure 500 {object} model.ErrorResponse
// @Router /v1/invoice/export [post]
func (h *InvoiceHandler) ExportInvoice(c *gin.Context) {
	artifact, err := h.builder.Export(c.Request.Context())
	if err != nil {
		// Failed exports never mutate the document; the caller can
		// simply retry
		log.Printf("Export failed: %v", err)
		respondInternalServerError(c, ErrExportFailed)
		return
	}

	log.Printf("Exported %s (%d pages, %d bytes)", artifact.Filename, artifact.PageCount, len(artifact.Data))
	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(StatusOK, "application/pdf", artifact.Data)
}

// ListExports lists previously generated export artifacts
// @Summary List stored exports
// @Tags exports
// @Produce json
// @Success 200 {object} model.ExportListResponse
// @Router /v1/exports [get]
func (h *InvoiceHandler) ListExports(c *gin.Context) {
	infos, err := h.builder.ListExports(c.Request.Context())
	if err != nil {
		log.Printf("Listing exports failed: %v", err)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	response := model.ExportListResponse{Data: make([]model.ExportInfoDTO, len(infos))}
	for i, info := range infos {
		response.Data[i] = model.ExportInfoDTO{
			ID:          info.ID,
			Filename:    info.Filename,
			PageCount:   info.PageCount,
			SizeBytes:   info.SizeBytes,
			GeneratedAt: info.GeneratedAt,
		}
	}
	respondOK(c, response)
}

// GetExport re-downloads a stored export artifact
// @Summary Download a stored export
// @Tags exports
// @Produce application/pdf
// @Param id path string true "Export artifact id"
// @Success 200 {file} file "PDF document"
// @Failure 404 {object} model.ErrorResponse
// @Router /v1/exports/{id} [get]
func (h *InvoiceHandler) GetExport(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	artifact, err := h.builder.GetExport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		log.Printf("Fetching export %s failed: %v", id, err)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(StatusOK, "application/pdf", artifact.Data)
}
