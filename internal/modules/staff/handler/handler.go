package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-pos/internal/common/web"
	"restaurant-pos/internal/modules/staff/service"
)

type Handler struct {
	Staff *service.StaffService
}

// RegisterPublic mounts the login endpoint outside the auth middleware.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/staff/login", h.login)
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	res, err := h.Staff.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Staff.List(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, staff)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var in service.StaffInput
	if err := web.Decode(r, &in); err != nil {
		web.WriteError(w, err)
		return
	}
	st, err := h.Staff.Create(r.Context(), in, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, st)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	st, err := h.Staff.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var in service.StaffInput
	if err := web.Decode(r, &in); err != nil {
		web.WriteError(w, err)
		return
	}
	st, err := h.Staff.Update(r.Context(), chi.URLParam(r, "id"), in, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	if err := h.Staff.Delete(r.Context(), chi.URLParam(r, "id"), actor.Role); err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
