package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"outlethub-api/internal/model"
	"outlethub-api/internal/service"
	"outlethub-api/pkg/apierror"
	"outlethub-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ProductHandler exposes the product mutation path that feeds the statistics
// aggregator.
type ProductHandler struct {
	productSvc *service.ProductService
}

// NewProductHandler creates a product handler.
func NewProductHandler(productSvc *service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	product, err := h.productSvc.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, product)
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.productSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, product)
}

// Update handles PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var patch model.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	product, err := h.productSvc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.productSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid product id"))
		return 0, false
	}
	return id, true
}
