package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "mmx/internal/errors"
	"mmx/internal/mmm"
)

// ModelHandler handles model fit and scenario prediction requests.
// Every request constructs its own model instance over its own table, so
// concurrent callers never share fitted state.
type ModelHandler struct {
	defaults     mmm.Config
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	metrics      *Metrics
}

// NewModelHandler creates a new model handler
func NewModelHandler(defaults mmm.Config, logger *slog.Logger, metrics *Metrics) *ModelHandler {
	return &ModelHandler{
		defaults:     defaults,
		logger:       logger.With(slog.String("handler", "model")),
		errorHandler: apierrors.NewErrorHandler(logger),
		validate:     validator.New(),
		metrics:      metrics,
	}
}

// RegisterRoutes registers the model routes
func (h *ModelHandler) RegisterRoutes(r chi.Router) {
	r.Route("/model", func(r chi.Router) {
		r.Post("/fit", h.Fit)
		r.Post("/predict", h.Predict)
	})
}

// ColumnPayload is one named series of the observation table. Columns
// arrive as an ordered array because row and column order both carry
// meaning for the fit.
type ColumnPayload struct {
	Name   string    `json:"name" validate:"required"`
	Values []float64 `json:"values" validate:"required,min=1"`
}

// FitRequest is the body for POST /api/model/fit. Optional fields
// override the deployment's modeling defaults for this request only.
type FitRequest struct {
	Columns     []ColumnPayload    `json:"columns" validate:"required,min=2,dive"`
	Target      string             `json:"target" validate:"required"`
	Channels    []string           `json:"channels" validate:"required,min=1,dive,required"`
	Periods     []string           `json:"periods,omitempty"`
	DecayRate   *float64           `json:"decay_rate,omitempty" validate:"omitempty,gte=0,lt=1"`
	DecayRates  map[string]float64 `json:"decay_rates,omitempty"`
	Alpha       *float64           `json:"alpha,omitempty" validate:"omitempty,gte=0"`
	FullAlpha   *float64           `json:"full_alpha,omitempty" validate:"omitempty,gte=0"`
	BrandColumn *string            `json:"brand_column,omitempty"`
}

// PredictRequest is the body for POST /api/model/predict
type PredictRequest struct {
	FitRequest
	Tier   string             `json:"tier,omitempty" validate:"omitempty,oneof=immediate adstock full"`
	Inputs map[string]float64 `json:"inputs" validate:"required"`
}

// TierPayload is the per-tier slice of a fit response
type TierPayload struct {
	Features     []string           `json:"features"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Alpha        float64            `json:"alpha"`
	Diagnostics  mmm.Diagnostics    `json:"diagnostics"`
}

// FitResponse is the body returned by POST /api/model/fit
type FitResponse struct {
	Rows        int                     `json:"rows"`
	Target      string                  `json:"target"`
	Channels    []string                `json:"channels"`
	Tiers       map[string]TierPayload  `json:"tiers"`
	ROI         map[string]mmm.ROIEntry `json:"roi"`
	BrandImpact *float64                `json:"brand_impact,omitempty"`
	DecayCurve  []float64               `json:"decay_curve"`
}

// PredictResponse is the body returned by POST /api/model/predict
type PredictResponse struct {
	Tier       string  `json:"tier"`
	Prediction float64 `json:"prediction"`
}

// Fit handles POST /api/model/fit
func (h *ModelHandler) Fit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ValidationFailedWithDetails(err.Error()))
		return
	}

	start := time.Now()
	model, result, err := h.fitModel(r, req)
	if err != nil {
		h.metrics.FitsTotal.WithLabelValues("error").Inc()
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.metrics.FitsTotal.WithLabelValues("success").Inc()
	h.metrics.FitDuration.Observe(time.Since(start).Seconds())

	roi, err := model.ROIDecomposition()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := FitResponse{
		Rows:       result.Rows,
		Target:     result.Target,
		Channels:   result.Channels,
		Tiers:      make(map[string]TierPayload, len(result.Tiers)),
		ROI:        roi,
		DecayCurve: mmm.DecayCurve(h.requestConfig(req).DecayRate, result.Rows),
	}
	for tier, tr := range result.Tiers {
		resp.Tiers[tier.String()] = TierPayload{
			Features:     tr.Features,
			Coefficients: tr.Coefficients,
			Intercept:    tr.Intercept,
			Alpha:        tr.Alpha,
			Diagnostics:  tr.Diagnostics,
		}
	}
	if impact, ok, err := model.BrandImpact(); err == nil && ok {
		resp.BrandImpact = &impact
	}

	h.logger.InfoContext(ctx, "fit request served",
		slog.Int("rows", result.Rows),
		slog.Int("channels", len(result.Channels)),
	)
	render.JSON(w, r, resp)
}

// Predict handles POST /api/model/predict
func (h *ModelHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PredictRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ValidationFailedWithDetails(err.Error()))
		return
	}

	tierName := req.Tier
	if tierName == "" {
		tierName = mmm.TierAdstock.String()
	}
	tier, err := mmm.ParseTier(tierName)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	model, _, err := h.fitModel(r, req.FitRequest)
	if err != nil {
		h.metrics.PredictionsTotal.WithLabelValues("error").Inc()
		h.errorHandler.HandleError(w, r, err)
		return
	}

	prediction, err := model.Predict(tier, req.Inputs)
	if err != nil {
		h.metrics.PredictionsTotal.WithLabelValues("error").Inc()
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.metrics.PredictionsTotal.WithLabelValues("success").Inc()

	h.logger.InfoContext(ctx, "prediction served",
		slog.String("tier", tier.String()),
		slog.Int("inputs", len(req.Inputs)),
	)
	render.JSON(w, r, PredictResponse{
		Tier:       tier.String(),
		Prediction: prediction,
	})
}

// fitModel builds the observation table and a fresh model from one
// request, then fits it
func (h *ModelHandler) fitModel(r *http.Request, req FitRequest) (*mmm.Model, *mmm.FitResult, error) {
	dataset := mmm.NewDataset()
	for _, col := range req.Columns {
		if err := dataset.AddColumn(col.Name, col.Values); err != nil {
			return nil, nil, apierrors.InvalidRequestWithError(err)
		}
	}
	if len(req.Periods) > 0 {
		if err := dataset.SetPeriods(req.Periods); err != nil {
			return nil, nil, apierrors.InvalidRequestWithError(err)
		}
	}

	model := mmm.NewModel(h.requestConfig(req), h.logger)
	result, err := model.Fit(r.Context(), dataset, req.Channels, req.Target)
	if err != nil {
		return nil, nil, err
	}
	return model, result, nil
}

// requestConfig overlays request overrides on the deployment defaults
func (h *ModelHandler) requestConfig(req FitRequest) mmm.Config {
	cfg := h.defaults
	if req.DecayRate != nil {
		cfg.DecayRate = *req.DecayRate
	}
	if len(req.DecayRates) > 0 {
		cfg.DecayRates = req.DecayRates
	}
	if req.Alpha != nil {
		cfg.Alpha = *req.Alpha
	}
	if req.FullAlpha != nil {
		cfg.FullAlpha = *req.FullAlpha
	}
	if req.BrandColumn != nil {
		cfg.BrandColumn = *req.BrandColumn
	}
	return cfg
}
