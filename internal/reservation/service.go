package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-reservation/internal/events"
	"github.com/rogerio-castellano/inventory-reservation/internal/expiry"
	"github.com/rogerio-castellano/inventory-reservation/internal/metrics"
	"github.com/rogerio-castellano/inventory-reservation/internal/models"
	"github.com/rogerio-castellano/inventory-reservation/internal/repo"
)

const (
	ProductCacheTTL = 300 * time.Second

	tracerName = "github.com/rogerio-castellano/inventory-reservation/internal/reservation"
)

// Cache is the subset of the product cache the engine uses. Implementations swallow their own
// errors; a failed Get is a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, key string)
}

type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, e events.ReservationEvent)
	PublishLowStockEvent(ctx context.Context, productID string, stock int)
}

type Option func(*Service)

// WithClock replaces time.Now for reservation timestamps and expiry windows.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithLowStockThreshold(threshold int) Option {
	return func(s *Service) { s.lowStockThreshold = threshold }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(tracerName) }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Service is the reservation engine. It holds no locks of its own: stock safety rests on the
// store's conditional decrement.
type Service struct {
	products     repo.ProductRepository
	reservations repo.ReservationRepository
	cache        Cache
	events       EventPublisher

	clock             func() time.Time
	cacheTTL          time.Duration
	lowStockThreshold int
	logger            *zap.Logger
	metrics           *metrics.Collector
	tracer            trace.Tracer
}

func NewService(
	products repo.ProductRepository,
	reservations repo.ReservationRepository,
	cache Cache,
	publisher EventPublisher,
	opts ...Option,
) *Service {
	s := &Service{
		products:     products,
		reservations: reservations,
		cache:        cache,
		events:       publisher,
		clock:        time.Now,
		cacheTTL:     ProductCacheTTL,
		logger:       zap.NewNop(),
		tracer:       otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(productID string) string {
	return "product:" + productID
}

// CreateReservation reserves quantity units of a product. Stock is decremented atomically in the
// store; the cached product is invalidated and a reservation event is queued on success.
func (s *Service) CreateReservation(ctx context.Context, productID string, quantity int) (models.Reservation, error) {
	const op = "reservation.create"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("reservation.quantity", quantity),
	))
	defer span.End()

	res, err := s.createReservation(ctx, op, productID, quantity)
	if err != nil {
		s.observe(outcome(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.Reservation{}, err
	}

	s.observe("created")
	span.SetAttributes(attribute.String("reservation.id", res.ID))
	return res, nil
}

func (s *Service) createReservation(ctx context.Context, op, productID string, quantity int) (models.Reservation, error) {
	if strings.TrimSpace(productID) == "" {
		return models.Reservation{}, newError(op, ErrInvalidArgument, errors.New("productId is required"))
	}
	if quantity < 1 {
		return models.Reservation{}, newError(op, ErrInvalidArgument, fmt.Errorf("quantity must be at least 1, got %d", quantity))
	}

	key := cacheKey(productID)
	_, cached := s.cache.Get(ctx, key)
	s.observeCache(cached)

	// The cached copy never decides anything; the store is always read.
	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, repo.ErrProductNotFound) {
		if cached {
			s.cache.Del(ctx, key)
		}
		return models.Reservation{}, newError(op, ErrProductNotFound, fmt.Errorf("product %s", productID))
	}
	if err != nil {
		return models.Reservation{}, newError(op, ErrPersistence, err)
	}

	if !cached {
		s.cacheProduct(ctx, product)
	}

	if product.Stock < quantity {
		return models.Reservation{}, newError(op, ErrInsufficientStock,
			fmt.Errorf("product %s has %d, requested %d", productID, product.Stock, quantity))
	}

	reservationID := uuid.NewString()

	updated, err := s.products.DecrementStock(ctx, productID, quantity)
	switch {
	case errors.Is(err, repo.ErrInsufficientStock):
		return models.Reservation{}, newError(op, ErrInsufficientStock, fmt.Errorf("product %s: %w", productID, err))
	case errors.Is(err, repo.ErrProductNotFound):
		s.cache.Del(ctx, key)
		return models.Reservation{}, newError(op, ErrProductNotFound, fmt.Errorf("product %s", productID))
	case err != nil:
		return models.Reservation{}, newError(op, ErrPersistence, fmt.Errorf("decrement stock: %w", err))
	}

	s.cache.Del(ctx, key)

	res := models.Reservation{
		ID:        reservationID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: s.clock().UTC().Truncate(time.Millisecond),
	}

	// The decrement is committed; losing the record does not undo it.
	if err := s.reservations.Create(ctx, res); err != nil {
		s.logger.Error("failed to store reservation after stock was decremented",
			zap.String("reservation_id", res.ID),
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
	}

	s.events.PublishReservationEvent(ctx, events.ReservationEvent{
		ReservationID: res.ID,
		ProductID:     res.ProductID,
		Quantity:      res.Quantity,
		Timestamp:     res.CreatedAt,
	})

	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("stock_left", updated.Stock),
	)
	return res, nil
}

func (s *Service) cacheProduct(ctx context.Context, p models.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		s.logger.Warn("failed to encode product for cache", zap.String("product_id", p.ID), zap.Error(err))
		return
	}
	s.cache.Set(ctx, cacheKey(p.ID), string(data), s.cacheTTL)
}

func (s *Service) GetReservation(ctx context.Context, id string) (models.Reservation, error) {
	const op = "reservation.get"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("reservation.id", id)))
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return models.Reservation{}, s.fail(span, newError(op, ErrInvalidArgument, errors.New("reservation id is required")))
	}

	res, err := s.reservations.GetByID(ctx, id)
	if errors.Is(err, repo.ErrReservationNotFound) {
		return models.Reservation{}, s.fail(span, newError(op, ErrReservationNotFound, fmt.Errorf("reservation %s", id)))
	}
	if err != nil {
		return models.Reservation{}, s.fail(span, newError(op, ErrPersistence, err))
	}
	return res, nil
}

// GetExpiringProducts returns the ids of products whose expiry falls within the next days days,
// in catalog order.
func (s *Service) GetExpiringProducts(ctx context.Context, days int) ([]string, error) {
	const op = "reservation.expiring"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int("expiry.days", days)))
	defer span.End()

	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, s.fail(span, newError(op, ErrPersistence, err))
	}

	items := make([]expiry.Item, 0, len(products))
	for _, p := range products {
		items = append(items, expiry.Item{ID: p.ID, Expiry: p.ExpiryDate, Stock: p.Stock})
	}

	ids := expiry.Select(items, days, s.clock())
	span.SetAttributes(attribute.Int("expiry.matched", len(ids)))
	return ids, nil
}

// ScanLowStock publishes one low-stock event per product at or below the threshold and returns
// how many were found.
func (s *Service) ScanLowStock(ctx context.Context) (int, error) {
	const op = "reservation.scan_low_stock"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int("low_stock.threshold", s.lowStockThreshold)))
	defer span.End()

	products, err := s.products.GetLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return 0, s.fail(span, newError(op, ErrPersistence, err))
	}

	for _, p := range products {
		s.logger.Warn("low stock detected",
			zap.String("product_id", p.ID),
			zap.String("product_name", p.Name),
			zap.Int("stock", p.Stock),
		)
		s.events.PublishLowStockEvent(ctx, p.ID, p.Stock)
	}

	if s.metrics != nil {
		s.metrics.LowStockScans.Inc()
		s.metrics.LowStockFound.Set(float64(len(products)))
	}
	span.SetAttributes(attribute.Int("low_stock.found", len(products)))
	return len(products), nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.Reservations.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) observeCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "persistence_error"
	}
}
