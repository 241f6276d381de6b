package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DaFrankort/nodejs-measurements/internal/domain"
	"github.com/DaFrankort/nodejs-measurements/internal/metrics"
	"github.com/DaFrankort/nodejs-measurements/internal/validator"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type MeasurementService interface {
	Create(ctx context.Context, m *domain.Measurement) error
	CreateMany(ctx context.Context, measurements []*domain.Measurement) error
	FindAll(ctx context.Context, filter *domain.MeasurementFilter) ([]*domain.Measurement, error)
	GetStats(ctx context.Context, filter *domain.MeasurementFilter) (*domain.MeasurementStats, error)
	CheckDBConnection(ctx context.Context) error
}

type HTTPServer struct {
	server  *http.Server
	service MeasurementService
	logger  *zap.Logger
}

func NewHTTPServer(addr string, service MeasurementService, logger *zap.Logger) *HTTPServer {
	router := mux.NewRouter()

	s := &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		service: service,
		logger:  logger,
	}

	// Middleware регистрации
	router.Use(s.metricsMiddleware)
	router.Use(s.loggingMiddleware)

	// Маршруты
	router.HandleFunc("/health", s.healthCheck).Methods("GET")
	router.HandleFunc("/measurements", s.createMeasurements).Methods("POST")
	router.HandleFunc("/measurements", s.getMeasurements).Methods("GET")
	router.HandleFunc("/measurements/stats", s.getMeasurementStats).Methods("GET")

	// Метрики Prometheus
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return s
}

func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// responseWriter для отслеживания статус кода и размера
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// middleware для сбора метрик HTTP запросов с использованием шаблона пути
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		method := r.Method
		status := strconv.Itoa(rw.statusCode)

		// Получаем шаблон пути из mux (если доступен)
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
		metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(rw.size))
	})
}

// middleware для логирования HTTP запросов
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("ip", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()),
			zap.Int("status", rw.statusCode),
			zap.Int("response_size", rw.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleError маппит доменные ошибки в HTTP статусы.
// Всё нераспознанное логируется и уходит клиенту общим 500 без деталей.
func (s *HTTPServer) handleError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: validationErr.Message})
		return
	}

	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		s.logger.Error("Storage error", zap.Error(storageErr.Unwrap()))
		s.writeJSON(w, http.StatusInternalServerError, messageResponse{Success: false, Message: storageErr.Error()})
		return
	}

	s.logger.Error("Unhandled error", zap.Error(err))
	s.writeJSON(w, http.StatusInternalServerError, messageResponse{Success: false, Message: "Internal server error"})
}

func (s *HTTPServer) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CheckDBConnection(r.Context()); err != nil {
		s.logger.Error("Health check failed", zap.Error(err))
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// createMeasurements принимает либо одно показание, либо массив показаний
func (s *HTTPServer) createMeasurements(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	if batch, ok := body.([]any); ok {
		s.createBatch(w, r, batch)
		return
	}

	// Одиночное показание. Тело не-объект отклонит валидация присутствия полей.
	raw, _ := body.(map[string]any)
	measurement, err := validator.ValidateMeasurement(raw)
	if err != nil {
		metrics.MeasurementsFailedValidation.Inc()
		s.handleError(w, err)
		return
	}

	if err := s.service.Create(r.Context(), measurement); err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, createResponse{
		Success: true,
		Message: "Measurement created successfully",
		ID:      measurement.ID,
	})
}

// createBatch валидирует каждый элемент массива отдельно: ошибки собираются
// по индексам, валидные строки уходят в хранилище одной пачкой.
// Если не прошёл ни один элемент — 400 без единой вставки.
func (s *HTTPServer) createBatch(w http.ResponseWriter, r *http.Request, batch []any) {
	valid := make([]*domain.Measurement, 0, len(batch))
	var indexErrors []IndexedError

	for i, item := range batch {
		raw, _ := item.(map[string]any)
		measurement, err := validator.ValidateMeasurement(raw)
		if err != nil {
			metrics.MeasurementsFailedValidation.Inc()

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				s.handleError(w, err)
				return
			}
			indexErrors = append(indexErrors, IndexedError{Index: i, Message: validationErr.Message})
			continue
		}
		valid = append(valid, measurement)
	}

	if len(indexErrors) > 0 && len(valid) == 0 {
		s.writeJSON(w, http.StatusBadRequest, batchFailedResponse{
			Success: false,
			Message: "All measurements failed validation",
			Errors:  indexErrors,
		})
		return
	}

	if err := s.service.CreateMany(r.Context(), valid); err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, batchResponse{
		Success:     true,
		Message:     fmt.Sprintf("Created %d measurements", len(valid)),
		FailedCount: len(indexErrors),
		Errors:      indexErrors,
	})
}

func (s *HTTPServer) getMeasurements(w http.ResponseWriter, r *http.Request) {
	filter, err := validator.ValidateFilter(r.URL.Query(), true)
	if err != nil {
		s.handleError(w, err)
		return
	}

	measurements, err := s.service.FindAll(r.Context(), filter)
	if err != nil {
		s.handleError(w, err)
		return
	}

	message := "No measurements found"
	if len(measurements) > 0 {
		message = fmt.Sprintf("Showing %d measurements.", len(measurements))
	}

	s.writeJSON(w, http.StatusOK, dataResponse{
		Success:  true,
		Message:  message,
		Response: measurements,
	})
}

func (s *HTTPServer) getMeasurementStats(w http.ResponseWriter, r *http.Request) {
	filter, err := validator.ValidateFilter(r.URL.Query(), false)
	if err != nil {
		s.handleError(w, err)
		return
	}

	stats, err := s.service.GetStats(r.Context(), filter)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dataResponse{
		Success:  true,
		Message:  "Measurement statistics received succesfully",
		Response: stats,
	})
}
