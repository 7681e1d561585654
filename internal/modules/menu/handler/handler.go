package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-pos/internal/common/web"
	"restaurant-pos/internal/modules/menu/service"
)

// Handler exposes dish management and the offer approval workflow.
type Handler struct {
	Menu     *service.MenuService
	Approval *service.ApprovalService
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/dishes", func(r chi.Router) {
		r.Get("/", h.listDishes)
		r.Post("/", h.createDish)
		r.Get("/{id}", h.getDish)
		r.Put("/{id}", h.updateDish)
		r.Delete("/{id}", h.deleteDish)
	})
	r.Route("/offers", func(r chi.Router) {
		r.Get("/", h.listOffers)
		r.Post("/", h.submitOffer)
		r.Get("/pending", h.listPending)
		r.Get("/author/{author}", h.listByAuthor)
		r.Get("/{id}", h.getOffer)
		r.Put("/{id}", h.updateOffer)
		r.Delete("/{id}", h.deleteOffer)
		r.Post("/{id}/accept", h.acceptOffer)
		r.Post("/{id}/reject", h.rejectOffer)
	})
}

func (h *Handler) listDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Menu.List(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, dishes)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var in service.DishInput
	if err := web.Decode(r, &in); err != nil {
		web.WriteError(w, err)
		return
	}
	d, err := h.Menu.Create(r.Context(), in, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	d, err := h.Menu.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var in service.DishInput
	if err := web.Decode(r, &in); err != nil {
		web.WriteError(w, err)
		return
	}
	d, err := h.Menu.Update(r.Context(), chi.URLParam(r, "id"), in, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	if err := h.Menu.Delete(r.Context(), chi.URLParam(r, "id"), actor.Role); err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Approval.List(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, offers)
}

func (h *Handler) submitOffer(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var draft service.OfferDraft
	if err := web.Decode(r, &draft); err != nil {
		web.WriteError(w, err)
		return
	}
	if draft.Author == "" {
		draft.Author = actor.Username
	}
	o, err := h.Approval.Submit(r.Context(), draft, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Approval.ListPending(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, offers)
}

func (h *Handler) listByAuthor(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Approval.ListByAuthor(r.Context(), chi.URLParam(r, "author"))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, offers)
}

func (h *Handler) getOffer(w http.ResponseWriter, r *http.Request) {
	o, err := h.Approval.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updateOffer(w http.ResponseWriter, r *http.Request) {
	var in service.DishInput
	if err := web.Decode(r, &in); err != nil {
		web.WriteError(w, err)
		return
	}
	o, err := h.Approval.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) deleteOffer(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	if err := h.Approval.Delete(r.Context(), chi.URLParam(r, "id"), actor.Role); err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) acceptOffer(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	dish, err := h.Approval.Accept(r.Context(), chi.URLParam(r, "id"), actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "dish": dish})
}

func (h *Handler) rejectOffer(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	o, err := h.Approval.Reject(r.Context(), chi.URLParam(r, "id"), actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "offer": o})
}
