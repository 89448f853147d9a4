package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okravchenko/go-shop/internal/db"
	"github.com/okravchenko/go-shop/internal/handler"
	"github.com/okravchenko/go-shop/internal/item"
	"github.com/okravchenko/go-shop/internal/member"
	"github.com/okravchenko/go-shop/internal/order"
)

// NewRouter wires repositories, services, and handlers onto a chi router.
func NewRouter(database db.Database) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	memberRepo := member.NewRepository()
	itemRepo := item.NewRepository()
	orderRepo := order.NewRepository()

	memberSvc := member.NewService(database, memberRepo)
	itemSvc := item.NewService(database, itemRepo)
	orderSvc := order.NewService(database, orderRepo, memberRepo, itemRepo)

	handler.NewMemberHandler(memberSvc).RegisterRoutes(r)
	handler.NewItemHandler(itemSvc).RegisterRoutes(r)
	handler.NewOrderHandler(orderSvc).RegisterRoutes(r)

	return r
}
