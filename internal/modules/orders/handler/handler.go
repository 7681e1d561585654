package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"restaurant-pos/internal/common/redisx"
	"restaurant-pos/internal/common/web"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/modules/orders/service"
)

// Handler exposes order placement, tracking and kitchen status advances.
// Status reads go through Redis first so polling clients stay off the
// database; the DB remains the source of truth.
type Handler struct {
	Orders *service.OrderService
	Redis  *redis.Client
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.place)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.delete)
		r.Get("/{id}/status", h.getStatus)
		r.Post("/{id}/status", h.advance)
	})
	r.Get("/tables/{number}/active-order", h.activeForTable)
}

func (h *Handler) place(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var req service.PlaceOrderRequest
	if err := web.Decode(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	o, err := h.Orders.Place(r.Context(), req, actor.StaffID, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	h.cacheStatus(r, o.ID, o.Status)
	web.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, id)
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			web.WriteJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	o, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	h.cacheStatus(r, o.ID, o.Status)
	web.WriteJSON(w, http.StatusOK, map[string]any{"order_id": o.ID, "status": o.Status})
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	o, err := h.Orders.Advance(r.Context(), chi.URLParam(r, "id"), req.Status, actor.StaffID, actor.Role)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	h.cacheStatus(r, o.ID, o.Status)
	web.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := web.ActorFrom(r.Context())
	if err := h.Orders.Delete(r.Context(), chi.URLParam(r, "id"), actor.Role); err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) activeForTable(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		web.WriteError(w, domain.Validationf("table number must be an integer"))
		return
	}
	o, err := h.Orders.ActiveForTable(r.Context(), number)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, o)
}

// cacheStatus refreshes the Redis entry best-effort; a cache miss just
// falls back to the database.
func (h *Handler) cacheStatus(r *http.Request, orderID string, status domain.OrderStatus) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"order_id": orderID, "status": status})
	_ = h.Redis.Set(r.Context(), key, body, redisx.TTLStatusCache).Err()
}
