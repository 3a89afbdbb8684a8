package http

import (
	"strconv"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/in"
	"skincheck_server/pkg/apperr"
	"skincheck_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnalysisHandler serves product checks, single resolutions and archived reports.
type AnalysisHandler struct {
	service in.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service in.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Register registers analysis routes.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Post("/check-product", h.CheckProduct)
	router.Get("/ingredients/resolve", h.ResolveIngredient)
	router.Get("/reports/:id", h.GetReport)
}

// CheckProduct analyses a product's ingredient list.
func (h *AnalysisHandler) CheckProduct(c *fiber.Ctx) error {
	var req CheckProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body").WithError(err)
	}
	if req.Ingredients == nil {
		return apperr.MissingField("ingredients")
	}

	result, err := h.service.Analyze(c.UserContext(), &domain.AnalysisRequest{
		Ingredients: req.Ingredients,
		SkinType:    domain.SkinType(req.SkinType),
		ProductName: req.ProductName,
		ProductType: req.ProductType,
	})
	if err != nil {
		return err
	}
	return response.OK(c, result)
}

// ResolveIngredient resolves one name: GET /ingredients/resolve?name=&skin_type=
func (h *AnalysisHandler) ResolveIngredient(c *fiber.Ctx) error {
	resolved, err := h.service.Resolve(c.UserContext(), c.Query("name"), domain.SkinType(c.Query("skin_type")))
	if err != nil {
		return err
	}
	return response.OK(c, resolved)
}

// GetReport returns an archived analysis.
func (h *AnalysisHandler) GetReport(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperr.BadRequest("invalid report id")
	}

	report, err := h.service.Report(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, report)
}
