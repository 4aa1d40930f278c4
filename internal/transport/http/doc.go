// Package http hosts the marketing mix model behind a chi router.
//
// The modeling core is deliberately transport-free; this package is the
// hosting surface that feeds it observation tables and returns its outputs
// (per-tier diagnostics and coefficients, ROI decomposition, brand impact,
// scenario predictions). The service is stateless: every fit or predict
// request builds its own dataset and model instance, so concurrent requests
// share nothing.
package http
