// Command planner is the thin HTTP wiring binary over the HOS trip
// planner core: it loads configuration, builds the routing client and
// event publisher, and exposes plan_trip as POST /v1/trip-plans.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/domain"
	"github.com/fleetlogix/hos-planner/internal/events"
	"github.com/fleetlogix/hos-planner/internal/planner/coordinator"
	"github.com/fleetlogix/hos-planner/internal/routing"
	"github.com/fleetlogix/hos-planner/internal/rules"
	"github.com/fleetlogix/hos-planner/internal/summary"
	"github.com/fleetlogix/hos-planner/internal/telemetry/config"
	"github.com/fleetlogix/hos-planner/internal/telemetry/logger"
)

func main() {
	log := logger.Default()
	defer log.Sync()

	log.Info("starting hos-planner")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	var routeCache *routing.RouteCache
	if cfg.Routing.CacheEnabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Routing.CacheAddress})
		routeCache = routing.NewRouteCache(redisClient, time.Duration(cfg.Routing.CacheTTLSeconds)*time.Second)
	}

	routingClient := routing.NewClient(routing.Config{
		BaseURL: cfg.Routing.OracleURL,
		Timeout: time.Duration(cfg.Routing.TimeoutSeconds) * time.Second,
		Cache:   routeCache,
	})

	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	} else {
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	h := &handler{
		routing:   routingClient,
		publisher: publisher,
		ruleSet:   cfg.Service.DefaultRuleSet,
		log:       log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/trip-plans", h.planTrip)
	mux.HandleFunc("/healthz", h.health)

	srv := &http.Server{
		Addr:         cfg.Server.BindAddress,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infow("http server listening", "addr", cfg.Server.BindAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down hos-planner")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http server shutdown error")
	}

	log.Info("hos-planner stopped")
}

type handler struct {
	routing   *routing.Client
	publisher events.Publisher
	ruleSet   string
	log       *logger.Logger
}

type tripPlanRequest struct {
	CurrentLocation       locationDTO `json:"current_location"`
	PickupLocation        locationDTO `json:"pickup_location"`
	DropOffLocation       locationDTO `json:"drop_off_location"`
	CurrentCycleUsed      float64     `json:"current_cycle_used"`
	StartTime             string      `json:"start_time"`
	TimezoneOffsetMinutes int         `json:"timezone_offset_minutes"`
}

type locationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *handler) planTrip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tripPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidRequest("body", "malformed json body"))
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, apperr.InvalidRequest("start_time", "must be RFC 3339"))
		return
	}
	if req.CurrentCycleUsed < 0 || req.CurrentCycleUsed > 70 {
		writeError(w, apperr.InvalidRequest("current_cycle_used", "must be in [0, 70]"))
		return
	}

	rs, err := rules.Get(domain.RuleSetTag(h.ruleSet))
	if err != nil {
		writeError(w, err)
		return
	}

	tripID := newTripID()
	log := h.log.WithTripID(tripID)

	ctx := r.Context()
	segs, err := coordinator.PlanTrip(ctx, h.routing, coordinator.Request{
		Current:          domain.Location{Latitude: req.CurrentLocation.Latitude, Longitude: req.CurrentLocation.Longitude},
		Pickup:           domain.Location{Latitude: req.PickupLocation.Latitude, Longitude: req.PickupLocation.Longitude},
		DropOff:          domain.Location{Latitude: req.DropOffLocation.Latitude, Longitude: req.DropOffLocation.Longitude},
		CurrentCycleUsed: req.CurrentCycleUsed,
		StartTime:        start,
		RuleSet:          rs,
	})
	if err != nil {
		log.WithError(err).Error("trip planning failed")
		writeError(w, err)
		return
	}

	plan := summary.Summarize(tripID, segs)
	renderInOffset(&plan, time.Duration(req.TimezoneOffsetMinutes)*time.Minute)

	go h.publisher.PublishTripPlanned(context.Background(), events.NewTripPlanned(plan))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(plan)
}

func newTripID() string {
	return uuid.New().String()
}

func renderInOffset(plan *domain.RoutePlan, offset time.Duration) {
	loc := time.FixedZone("", int(offset.Seconds()))
	plan.StartTime = plan.StartTime.In(loc)
	plan.EndTime = plan.EndTime.In(loc)
	for i := range plan.Segments {
		plan.Segments[i].StartTime = plan.Segments[i].StartTime.In(loc)
		plan.Segments[i].EndTime = plan.Segments[i].EndTime.In(loc)
	}
}

func writeError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*apperr.Error)
	if !ok {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperr.CodeInvalidRequest, apperr.CodeUnknownRuleSet:
		status = http.StatusBadRequest
	case apperr.CodeRoutingUnavailable:
		status = http.StatusBadGateway
	case apperr.CodeRoutingMalformed, apperr.CodePlanInfeasible:
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(appErr)
}
