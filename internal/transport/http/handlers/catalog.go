package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/catalog-service/internal/service"
	"github.com/pribylovaa/catalog-service/internal/transport/http/apierrors"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := ListCategoriesResponse{Categories: make([]CategoryResponse, 0, len(cats))}
	for _, c := range cats {
		out.Categories = append(out.Categories, CategoryResponse{Name: c.Name, Count: c.Count})
	}

	writeJSON(w, http.StatusOK, out)
}

// pageQuery - page и page_size из query.
func pageQuery(r *http.Request) (int64, int64, error) {
	page, err := queryInt64(r, "page", 0)
	if err != nil {
		return 0, 0, err
	}

	size, err := queryInt64(r, "page_size", 0)
	if err != nil {
		return 0, 0, err
	}

	return page, size, nil
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	category := r.URL.Query().Get("category")

	items, err := h.Catalog.ListItems(r.Context(), category, page, size)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	total, err := h.Catalog.CountItems(r.Context(), category)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	size = h.Catalog.PageSize(size)
	writeJSON(w, http.StatusOK, ItemsPageResponse{
		Items:    itemsFromModel(items),
		Total:    total,
		Page:     page,
		PageSize: size,
		Pages:    pages(total, size),
	})
}

func (h *Handlers) SearchItems(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageQuery(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	query := r.URL.Query().Get("query")

	items, err := h.Catalog.SearchItems(r.Context(), query, page, size)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	total, err := h.Catalog.CountSearchItems(r.Context(), query)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	size = h.Catalog.PageSize(size)
	writeJSON(w, http.StatusOK, ItemsPageResponse{
		Items:    itemsFromModel(items),
		Total:    total,
		Page:     page,
		PageSize: size,
		Pages:    pages(total, size),
	})
}

// itemID - целочисленный {id} из пути.
func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, invalidArgument("id")
	}
	return id, nil
}

func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	item, fallback, err := h.Catalog.GetItem(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GetItemResponse{Item: itemFromModel(*item), Fallback: fallback})
}

func (h *Handlers) ListRelated(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt64(r, "limit", 0)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	items, err := h.Catalog.ListRelated(r.Context(), limit)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ListRelatedResponse{Items: itemsFromModel(items)})
}

// AddReview: 201 с отзывом, если товар найден; 404 {applied:false}, если нет.
func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in AddReviewRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("body"))
		return
	}

	res, err := h.Catalog.AddReview(r.Context(), service.AddReviewInput{
		ItemID:  id,
		Name:    in.Name,
		Comment: in.Comment,
		Stars:   in.Stars,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if !res.Applied {
		writeJSON(w, http.StatusNotFound, AddReviewResponse{Applied: false})
		return
	}

	review := reviewFromModel(res.Review)
	writeJSON(w, http.StatusCreated, AddReviewResponse{Applied: true, Review: &review})
}
