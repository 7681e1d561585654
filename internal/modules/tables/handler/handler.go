package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-pos/internal/common/web"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/modules/tables/service"
)

type Handler struct {
	Tables *service.TableService
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/status", h.setStatus)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.List(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, tables)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var in service.TableInput
	if err := web.Decode(r, &in); err != nil {
		web.WriteError(w, err)
		return
	}
	t, err := h.Tables.Create(r.Context(), in, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tables.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var in service.TableInput
	if err := web.Decode(r, &in); err != nil {
		web.WriteError(w, err)
		return
	}
	t, err := h.Tables.Update(r.Context(), chi.URLParam(r, "id"), in, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	if err := h.Tables.Delete(r.Context(), chi.URLParam(r, "id"), actor.Role); err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var req struct {
		Status domain.TableStatus `json:"status"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	t, err := h.Tables.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, t)
}
