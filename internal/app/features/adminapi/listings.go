// internal/app/features/adminapi/listings.go
package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/events"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	q := docstore.Query{OrderBy: "created_at", Descending: true}
	if cat := r.URL.Query().Get("category"); cat != "" {
		q.Filters = map[string]any{"category": cat}
	}

	docs, err := h.docs.QueryCollection(r.Context(), docstore.Path(tenantID, docstore.CollListings), q)
	if err != nil {
		h.logger.Error("listing list failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	listings := make([]models.Listing, 0, len(docs))
	for _, d := range docs {
		var l models.Listing
		if err := docstore.Decode(d, &l); err != nil {
			h.logger.Error("listing decode failed", zap.String("tenant", tenantID), zap.Error(err))
			jsonutil.InternalError(w, "Error interno")
			return
		}
		listings = append(listings, l)
	}
	jsonutil.OK(w, map[string]any{"listings": listings})
}

type listingInput struct {
	Status      string `json:"status" validate:"required,oneof=draft published archived" label:"Estado"`
	Category    string `json:"category" validate:"max=60" label:"Categoría"`
	Title       string `json:"title" validate:"required,max=200" label:"Título"`
	Subtitle    string `json:"subtitle" validate:"max=200" label:"Subtítulo"`
	Description string `json:"description" validate:"max=5000" label:"Descripción"`
	Price       float64 `json:"price"`
	Attributes  map[string]any    `json:"attributes"`
	MainImage   string            `json:"main_image" label:"Imagen principal"`
	Media       []models.MediaRef `json:"media"`
}

func (in *listingInput) validate() map[string]string {
	if res := inputval.Validate(in); res.HasErrors() {
		return res.Fields()
	}
	fields := make(map[string]string)
	if in.Price < 0 {
		fields["price"] = "El precio no puede ser negativo"
	}
	if in.MainImage != "" && !inputval.IsValidHTTPURL(in.MainImage) {
		fields["main_image"] = "URL inválida"
	}
	for i, m := range in.Media {
		if !inputval.IsValidHTTPURL(m.URL) {
			fields["media."+strconv.Itoa(i)+".url"] = "URL inválida"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	var in listingInput
	if err := jsonutil.DecodeLimited(w, r, &in, maxBodyBytes); err != nil {
		jsonutil.BadRequest(w, "Cuerpo inválido")
		return
	}
	if fields := in.validate(); len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	listing := in.toModel(h.now().UTC())
	doc, err := docstore.Encode(listing)
	if err != nil {
		h.logger.Error("listing encode failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	id, err := h.docs.AddDocument(r.Context(), docstore.Path(tenantID, docstore.CollListings), doc)
	if err != nil {
		h.logger.Error("listing create failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	listing.ID = id

	h.cache.InvalidateListings(tenantID)
	h.emitListingUpdated(tenantID, id, "create")

	h.logger.Info("listing created", zap.String("tenant", tenantID), zap.String("id", id))
	jsonutil.Created(w, listing)
}

func (h *Handler) updateListing(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)
	id := chi.URLParam(r, "id")

	existing, err := h.loadListing(r, tenantID, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			jsonutil.NotFound(w, "Elemento no encontrado")
			return
		}
		h.logger.Error("listing load failed", zap.String("tenant", tenantID), zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	var in listingInput
	if err := jsonutil.DecodeLimited(w, r, &in, maxBodyBytes); err != nil {
		jsonutil.BadRequest(w, "Cuerpo inválido")
		return
	}
	if fields := in.validate(); len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	listing := in.toModel(existing.CreatedAt)
	listing.ID = id
	doc, err := docstore.Encode(listing)
	if err != nil {
		h.logger.Error("listing encode failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	delete(doc, "_id")
	if err := h.docs.SetDocument(r.Context(), docstore.Path(tenantID, docstore.CollListings), id, doc, false); err != nil {
		h.logger.Error("listing update failed", zap.String("tenant", tenantID), zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.cache.InvalidateListings(tenantID)
	h.emitListingUpdated(tenantID, id, "update")

	h.logger.Info("listing updated", zap.String("tenant", tenantID), zap.String("id", id))
	jsonutil.OK(w, listing)
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)
	id := chi.URLParam(r, "id")

	err := h.docs.DeleteDocument(r.Context(), docstore.Path(tenantID, docstore.CollListings), id)
	if err != nil {
		h.logger.Error("listing delete failed", zap.String("tenant", tenantID), zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.cache.InvalidateListings(tenantID)
	h.emitListingUpdated(tenantID, id, "delete")

	h.logger.Info("listing deleted", zap.String("tenant", tenantID), zap.String("id", id))
	jsonutil.NoContent(w)
}

func (h *Handler) loadListing(r *http.Request, tenantID, id string) (*models.Listing, error) {
	doc, err := h.docs.GetDocument(r.Context(), docstore.Path(tenantID, docstore.CollListings), id)
	if err != nil {
		return nil, err
	}
	var l models.Listing
	if err := docstore.Decode(doc, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (in *listingInput) toModel(createdAt time.Time) models.Listing {
	return models.Listing{
		Status:      in.Status,
		Category:    in.Category,
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Description: in.Description,
		Price:       in.Price,
		Attributes:  in.Attributes,
		MainImage:   in.MainImage,
		Media:       in.Media,
		CreatedAt:   createdAt,
	}
}

func (h *Handler) emitListingUpdated(tenantID, id, action string) {
	h.bus.Emit(events.ListingUpdated, events.Payload{
		"tenantId":  tenantID,
		"listingId": id,
		"action":    action,
	})
}
