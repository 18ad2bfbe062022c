package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"quoteserver/database"
	"quoteserver/quote"
	"quoteserver/registry"
	apperrors "quoteserver/server/errors"
	"quoteserver/server/middleware"
	"quoteserver/shortlink"
)

// searchRequest is the multi-item quote search body.
type searchRequest struct {
	Products []quote.RequestedItem `json:"produtos" binding:"required"`
	quote.Requester
}

// productRequest carries product fields for create and update.
type productRequest struct {
	Category string          `json:"categoria"`
	Brand    string          `json:"marca"`
	Name     string          `json:"nome"`
	Price    decimal.Decimal `json:"preco"`
	Quantity int             `json:"quantidade"`
}

// productMutation targets an existing product by (approximate) name.
type productMutation struct {
	Name    string          `json:"nome" binding:"required"`
	Updated *productRequest `json:"dados,omitempty"`
}

type verifyProfessionalRequest struct {
	CPF       string `json:"cpf" binding:"required"`
	BirthDate string `json:"data_nascimento" binding:"required"`
	UF        string `json:"uf"`
	Register  string `json:"inscricao"`
}

type professionalCEPRequest struct {
	Phone string `json:"telefone" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("invalid search request body", err))
		return
	}

	response, err := s.search.Rank(c.Request.Context(), req.Products, req.Requester)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleAddProduct(c *gin.Context) {
	supplierID := c.Param("id")

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("invalid product body", err))
		return
	}

	product, err := s.store.AddProduct(c.Request.Context(), supplierID, database.Product{
		Category: req.Category,
		Brand:    req.Brand,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		s.respondError(c, apperrors.NewValidationError("could not add product", err))
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	supplierID := c.Param("id")

	var req productMutation
	if err := c.ShouldBindJSON(&req); err != nil || req.Updated == nil {
		s.respondError(c, apperrors.NewValidationError("invalid product update body", err))
		return
	}

	update := database.ProductUpdate{}
	if req.Updated.Category != "" {
		update.Category = &req.Updated.Category
	}
	if req.Updated.Brand != "" {
		update.Brand = &req.Updated.Brand
	}
	if req.Updated.Name != "" {
		update.Name = &req.Updated.Name
	}
	if !req.Updated.Price.IsZero() {
		update.Price = &req.Updated.Price
	}
	if req.Updated.Quantity != 0 {
		update.Quantity = &req.Updated.Quantity
	}

	product, err := s.store.UpdateProduct(c.Request.Context(), supplierID, req.Name, update)
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(c, apperrors.NewNotFoundError("no product with a similar name", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("updating product failed", err))
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	supplierID := c.Param("id")

	var req productMutation
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("invalid product delete body", err))
		return
	}

	product, err := s.store.DeleteProduct(c.Request.Context(), supplierID, req.Name)
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(c, apperrors.NewNotFoundError("no product with a similar name", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("deleting product failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": product})
}

func (s *Server) handleProductSearch(c *gin.Context) {
	supplierID := c.Param("id")
	name := c.Query("nome")
	if name == "" {
		s.respondError(c, apperrors.NewValidationError("query parameter nome is required", nil))
		return
	}

	outcome, err := s.store.SearchProducts(c.Request.Context(), supplierID, name)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("product search failed", err))
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleInvoice(c *gin.Context) {
	supplierID := c.Param("id")

	invoice, err := s.store.Invoice(c.Request.Context(), supplierID)
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(c, apperrors.NewNotFoundError("supplier not found", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("loading invoice failed", err))
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleShortLink(c *gin.Context) {
	shortID := c.Param("shortID")

	longURL, err := s.links.Resolve(c.Request.Context(), shortID)
	if errors.Is(err, shortlink.ErrLinkNotFound) {
		s.respondError(c, apperrors.NewNotFoundError("link not found", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("resolving link failed", err))
		return
	}
	c.Redirect(http.StatusFound, longURL)
}

func (s *Server) handleVerifyProfessional(c *gin.Context) {
	var req verifyProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("cpf and data_nascimento are required", err))
		return
	}

	record, err := s.identity.ConsultCPF(c.Request.Context(), req.CPF, req.BirthDate)
	if errors.Is(err, registry.ErrInvalidCPF) {
		s.respondError(c, apperrors.NewValidationError("invalid CPF", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewBadGatewayError("identity verification failed", err))
		return
	}

	result := gin.H{"identidade": record}

	// Council verification is optional; it only runs when a registration is
	// given and a council endpoint is configured.
	if req.Register != "" && s.council != nil {
		registrations, err := s.council.Verify(c.Request.Context(), req.UF, req.Register)
		if err != nil {
			s.respondError(c, apperrors.NewBadGatewayError("council verification failed", err))
			return
		}
		if len(registrations) == 0 {
			s.respondError(c, apperrors.NewNotFoundError("professional registration not found", nil))
			return
		}
		result["conselho"] = registrations
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleProfessionalCEP(c *gin.Context) {
	var req professionalCEPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("telefone is required", err))
		return
	}

	cep, err := s.store.FindProfessionalCEPByPhone(c.Request.Context(), req.Phone)
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(c, apperrors.NewNotFoundError("professional not found", err))
		return
	}
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("looking professional up failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cep": cep})
}

// respondError maps application errors to HTTP responses, logging the full
// cause while only exposing the user message.
func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("unhandled error", err)
	}

	s.logger.Error("request failed",
		"request_id", middleware.GetRequestID(c),
		"path", c.Request.URL.Path,
		"status", appErr.StatusCode(),
		"error", appErr.Error(),
	)
	c.AbortWithStatusJSON(appErr.StatusCode(), gin.H{"error": appErr.UserMessage()})
}
