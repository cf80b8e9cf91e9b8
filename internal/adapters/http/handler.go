package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/account"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/catalog"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/intelligence"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/order"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/observability"
)

type Server struct {
	catalog  *catalog.Service
	orders   *order.Service
	accounts *account.Service

	adminAssistant *intelligence.Orchestrator
	shopAssistant  *intelligence.Orchestrator

	verifier  domain.SessionVerifier
	weekStart time.Weekday
	now       func() time.Time
}

type Options struct {
	Catalog  *catalog.Service
	Orders   *order.Service
	Accounts *account.Service

	AdminAssistant *intelligence.Orchestrator
	ShopAssistant  *intelligence.Orchestrator

	Verifier  domain.SessionVerifier
	WeekStart time.Weekday
}

func NewServer(opts Options) http.Handler {
	s := &Server{
		catalog:        opts.Catalog,
		orders:         opts.Orders,
		accounts:       opts.Accounts,
		adminAssistant: opts.AdminAssistant,
		shopAssistant:  opts.ShopAssistant,
		verifier:       opts.Verifier,
		weekStart:      opts.WeekStart,
		now:            time.Now,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Storefront
	mux.HandleFunc("GET /api/services", s.handleListServices)
	mux.HandleFunc("GET /api/services/{id}", s.handleGetService)
	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.HandleFunc("GET /api/referrals/{code}", s.handleReferralLookup)
	mux.HandleFunc("POST /api/orders", s.handlePlaceOrder)
	mux.HandleFunc("POST /api/coupons/validate", s.handleValidateCoupon)
	mux.HandleFunc("POST /api/assistant", s.handleShopAssistant)

	// Back office
	mux.HandleFunc("POST /api/admin/services", s.admin(s.handleCreateService))
	mux.HandleFunc("PUT /api/admin/services/{id}", s.admin(s.handleUpdateService))
	mux.HandleFunc("GET /api/admin/orders", s.admin(s.handleListOrders))
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", s.admin(s.handleUpdateOrderStatus))
	mux.HandleFunc("GET /api/admin/users", s.admin(s.handleListUsers))
	mux.HandleFunc("POST /api/admin/coupons", s.admin(s.handleCreateCoupon))
	mux.HandleFunc("POST /api/admin/content/describe", s.admin(s.handleDescribe))
	mux.HandleFunc("POST /api/admin/intelligence", s.admin(s.handleIntelligence))

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type serviceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type createServiceRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type updateServiceRequest struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type registerRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	ReferredBy string `json:"referred_by,omitempty"`
}

type userResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	ReferralCode string    `json:"referral_code"`
	ReferredBy   string    `json:"referred_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type orderItemRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

type placeOrderRequest struct {
	UserID     string             `json:"user_id"`
	Items      []orderItemRequest `json:"items"`
	CouponCode string             `json:"coupon_code,omitempty"`
}

type orderItemResponse struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Items         []orderItemResponse `json:"items"`
	CouponCode    string              `json:"coupon_code,omitempty"`
	Discount      int64               `json:"discount"`
	Total         int64               `json:"total"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	OrderDate     time.Time           `json:"order_date"`
}

type updateOrderStatusRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

type validateCouponRequest struct {
	Code string `json:"code"`
}

type couponResponse struct {
	Code       string     `json:"code"`
	PercentOff int        `json:"percent_off"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	MaxUses    int        `json:"max_uses,omitempty"`
	Uses       int        `json:"uses"`
}

type createCouponRequest struct {
	Code       string     `json:"code"`
	PercentOff int        `json:"percent_off"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	MaxUses    int        `json:"max_uses,omitempty"`
}

type describeRequest struct {
	Name       string   `json:"name"`
	Category   string   `json:"category,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

type describeResponse struct {
	Description string `json:"description"`
}

type chatToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatTurn struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// ─────────────────────────────────────────────
// Storefront handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(r.URL.Query().Get("category"))

	services, err := s.catalog.List(r.Context(), category, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toServicesResponse(services))
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.catalog.Get(r.Context(), domain.ServiceID(r.PathValue("id")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user, err := s.accounts.Register(r.Context(), account.RegisterInput{
		Email:      req.Email,
		Name:       req.Name,
		ReferredBy: req.ReferredBy,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleReferralLookup(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.GetByReferralCode(r.Context(), r.PathValue("code"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Only expose what the signup page needs.
	writeJSON(w, http.StatusOK, map[string]string{
		"referral_code": user.ReferralCode,
		"name":          user.Name,
	})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	items := make([]order.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.ItemInput{
			ServiceID: domain.ServiceID(it.ServiceID),
			Quantity:  it.Quantity,
		})
	}

	placed, err := s.orders.Place(r.Context(), order.PlaceInput{
		UserID:     domain.UserID(req.UserID),
		Items:      items,
		CouponCode: domain.CouponCode(strings.ToUpper(strings.TrimSpace(req.CouponCode))),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(placed))
}

func (s *Server) handleValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	coupon, err := s.orders.CheckCoupon(r.Context(), domain.CouponCode(strings.ToUpper(strings.TrimSpace(req.Code))))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCouponResponse(coupon))
}

func (s *Server) handleShopAssistant(w http.ResponseWriter, r *http.Request) {
	s.handleChat(w, r, s.shopAssistant)
}

// ─────────────────────────────────────────────
// Back-office handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	svc, err := s.catalog.Create(r.Context(), catalog.CreateInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toServiceResponse(svc))
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var req updateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	svc, err := s.catalog.Update(r.Context(), domain.ServiceID(r.PathValue("id")), catalog.UpdateInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Active:      req.Active,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	rng, limit, ok := s.listWindow(w, r)
	if !ok {
		return
	}

	orders, err := s.orders.ListBetween(r.Context(), rng.Start, rng.End, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Status == nil && req.PaymentStatus == nil {
		badRequest(w, "status or payment_status is required")
		return
	}

	var orderStatus *domain.OrderStatus
	if req.Status != nil {
		st, err := parseOrderStatus(*req.Status)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		orderStatus = &st
	}

	var paymentStatus *domain.PaymentStatus
	if req.PaymentStatus != nil {
		ps, err := parsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		paymentStatus = &ps
	}

	updated, err := s.orders.UpdateStatus(r.Context(), domain.OrderID(r.PathValue("id")), orderStatus, paymentStatus)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	rng, limit, ok := s.listWindow(w, r)
	if !ok {
		return
	}

	users, err := s.accounts.ListBetween(r.Context(), rng.Start, rng.End, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	in := order.CouponInput{
		Code:       req.Code,
		PercentOff: req.PercentOff,
		MaxUses:    req.MaxUses,
	}
	if req.ExpiresAt != nil {
		in.ExpiresAt = *req.ExpiresAt
	}

	coupon, err := s.orders.CreateCoupon(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCouponResponse(coupon))
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	text, err := s.catalog.GenerateDescription(r.Context(), catalog.DescribeInput{
		Name:       req.Name,
		Category:   req.Category,
		Highlights: req.Highlights,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, describeResponse{Description: text})
}

func (s *Server) handleIntelligence(w http.ResponseWriter, r *http.Request) {
	s.handleChat(w, r, s.adminAssistant)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, assistant *intelligence.Orchestrator) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}

	reply, err := assistant.Answer(r.Context(), req.Message, toHistory(req.History))
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("assistant failed", "error", err)
		if errors.Is(err, intelligence.ErrToolRoundsExceeded) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": intelligence.ErrToolRoundsExceeded.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "assistant is unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// listWindow reads ?time_frame= and ?limit= for the admin listings.
// An unrecognized time frame is a 400, not a silent default.
func (s *Server) listWindow(w http.ResponseWriter, r *http.Request) (intelligence.DateRange, int, bool) {
	frame, err := intelligence.ParseTimeFrame(r.URL.Query().Get("time_frame"))
	if err != nil {
		badRequest(w, err.Error())
		return intelligence.DateRange{}, 0, false
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return intelligence.DateRange{}, 0, false
		}
	}

	return intelligence.ResolveRange(frame, s.now(), s.weekStart), limit, true
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func toServiceResponse(svc *domain.WeddingService) serviceResponse {
	return serviceResponse{
		ID:          string(svc.ID),
		Name:        svc.Name,
		Slug:        svc.Slug,
		Category:    svc.Category,
		Description: svc.Description,
		Price:       svc.Price,
		Active:      svc.Active,
		CreatedAt:   svc.CreatedAt,
	}
}

func toServicesResponse(services []*domain.WeddingService) []serviceResponse {
	out := make([]serviceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, toServiceResponse(svc))
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           string(u.ID),
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		ReferralCode: u.ReferralCode,
		ReferredBy:   u.ReferredBy,
		CreatedAt:    u.CreatedAt,
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ServiceID: string(it.ServiceID),
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return orderResponse{
		ID:            string(o.ID),
		UserID:        string(o.UserID),
		Items:         items,
		CouponCode:    string(o.CouponCode),
		Discount:      o.Discount,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		OrderDate:     o.OrderDate,
	}
}

func toCouponResponse(c *domain.Coupon) couponResponse {
	resp := couponResponse{
		Code:       string(c.Code),
		PercentOff: c.PercentOff,
		MaxUses:    c.MaxUses,
		Uses:       c.Uses,
	}
	if !c.ExpiresAt.IsZero() {
		t := c.ExpiresAt
		resp.ExpiresAt = &t
	}
	return resp
}

func toHistory(turns []chatTurn) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(turns))
	for _, t := range turns {
		msg := domain.ChatMessage{
			Role:       domain.ChatRole(t.Role),
			Content:    t.Content,
			ToolCallID: t.ToolCallID,
			ToolName:   t.ToolName,
		}
		for _, call := range t.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, domain.ToolCall{
				ID:        call.ID,
				Name:      call.Name,
				Arguments: call.Arguments,
			})
		}
		out = append(out, msg)
	}
	return out
}

func parseOrderStatus(s string) (domain.OrderStatus, error) {
	switch domain.OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case domain.OrderPending:
		return domain.OrderPending, nil
	case domain.OrderConfirmed:
		return domain.OrderConfirmed, nil
	case domain.OrderCompleted:
		return domain.OrderCompleted, nil
	case domain.OrderCancelled:
		return domain.OrderCancelled, nil
	default:
		return "", errors.New("unknown order status: " + s)
	}
}

func parsePaymentStatus(s string) (domain.PaymentStatus, error) {
	switch domain.PaymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case domain.PaymentPending:
		return domain.PaymentPending, nil
	case domain.PaymentPaid:
		return domain.PaymentPaid, nil
	case domain.PaymentFailed:
		return domain.PaymentFailed, nil
	default:
		return "", errors.New("unknown payment status: " + s)
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	case errors.Is(err, catalog.ErrInvalidService),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrServiceUnavailable),
		errors.Is(err, order.ErrCouponInvalid),
		errors.Is(err, account.ErrInvalidUser),
		errors.Is(err, account.ErrUnknownReferral):
		badRequest(w, err.Error())
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}
