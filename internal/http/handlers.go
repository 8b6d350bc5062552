package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/order-inventory-service/internal/config"
	"github.com/example/order-inventory-service/internal/engine"
	httpopenapi "github.com/example/order-inventory-service/internal/http/openapi"
	"github.com/example/order-inventory-service/internal/model"
	"github.com/example/order-inventory-service/internal/obs"
)

// App wires the HTTP handlers to the reconciliation engine.
type App struct {
	Cfg    config.Config
	Engine *engine.Engine
}

// NewApp builds the handler set around the given engine.
func NewApp(cfg config.Config, eng *engine.Engine) *App {
	return &App{Cfg: cfg, Engine: eng}
}

type addItemRequest struct {
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type orderItemResponse struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	ClientID  int64               `json:"client_id"`
	CreatedAt string              `json:"created_at"`
	Items     []orderItemResponse `json:"items"`
}

func itemResponse(item *model.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price.StringFixed(2),
	}
}

func (a *App) addItemHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteError(w, http.StatusUnsupportedMediaType, "expected application/json")
		return
	}
	var req addItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("field %s must be an integer", typeErr.Field))
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OrderID <= 0 {
		WriteError(w, http.StatusUnprocessableEntity, "order_id must be a positive integer")
		return
	}
	if req.ProductID <= 0 {
		WriteError(w, http.StatusUnprocessableEntity, "product_id must be a positive integer")
		return
	}
	if req.Quantity <= 0 {
		WriteError(w, http.StatusUnprocessableEntity, "quantity must be a positive integer")
		return
	}

	item, err := a.Engine.AddItemToOrder(r.Context(), req.OrderID, req.ProductID, req.Quantity)
	if err != nil {
		a.writeEngineError(w, r, err, req)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(itemResponse(item))
	obs.Logger.Info("order_item_reconciled",
		"request_id", RequestIDFromContext(r.Context()),
		"order_id", item.OrderID,
		"product_id", item.ProductID,
		"added", req.Quantity,
		"total", item.Quantity,
	)
}

func (a *App) writeEngineError(w http.ResponseWriter, r *http.Request, err error, req addItemRequest) {
	var stockErr *engine.InsufficientStockError
	switch {
	case errors.Is(err, engine.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, fmt.Sprintf("order with id %d not found", req.OrderID))
	case errors.Is(err, engine.ErrProductNotFound):
		WriteError(w, http.StatusNotFound, fmt.Sprintf("product with id %d not found", req.ProductID))
	case errors.As(err, &stockErr):
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf(
			"insufficient stock: requested %d, available %d", stockErr.Requested, stockErr.Available))
	default:
		obs.Logger.Error("add_item_failed",
			"request_id", RequestIDFromContext(r.Context()),
			"order_id", req.OrderID,
			"product_id", req.ProductID,
			"error", err,
		)
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (a *App) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/orders/")
	if raw == "" || strings.Contains(raw, "/") {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "order_id must be an integer")
		return
	}

	order, err := a.Engine.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, engine.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("order with id %d not found", orderID))
			return
		}
		obs.Logger.Error("get_order_failed", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := orderResponse{
		ID:        order.ID,
		ClientID:  order.ClientID,
		CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339),
		Items:     make([]orderItemResponse, 0, len(order.Items)),
	}
	for i := range order.Items {
		resp.Items = append(resp.Items, itemResponse(&order.Items[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "order inventory service is running",
		"docs":    "/docs",
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
