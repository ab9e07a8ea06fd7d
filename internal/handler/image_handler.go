package handler

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-builder-service/internal/model"
	"github.com/ridwanfathin/invoice-builder-service/internal/service"
)

// ImageHandler handles HTTP requests for the optional text-to-image
// integration. It is fully independent of the invoice endpoints: its
// failures never affect invoice editing or export.
type ImageHandler struct {
	images service.ImageServicer
}

// NewImageHandler creates a new image generation handler
func NewImageHandler(images service.ImageServicer) *ImageHandler {
	return &ImageHandler{images: images}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *ImageHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/images/generate", h.GenerateImage)
}

// GenerateImage handles a text-to-image generation request
// @Summary Generate an image from a text prompt
// @Description Calls the Hugging Face Inference API and streams back the generated image
// @Tags images
// @Accept json
// @Produce image/png
// @Param request body model.ImageGenerationRequest true "Generation prompt"
// @Success 200 {file} file "Generated image"
// @Failure 400 {object} model.ErrorResponse
// @Failure 502 {object} model.ErrorResponse
// @Router /v1/images/generate [post]
func (h *ImageHandler) GenerateImage(c *gin.Context) {
	var req model.ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	imageData, contentType, err := h.images.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		log.Printf("Image generation failed: %v", err)
		respondBadGateway(c, ErrImageGeneration)
		return
	}

	c.Data(StatusOK, contentType, imageData)
}
