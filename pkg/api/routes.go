// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telekom/wirefish/internal/logger"
	"github.com/telekom/wirefish/pkg/report"
)

const (
	PathMetrics = "/metrics"
	PathSamples = "/v1/samples"
	PathOpenapi = "/openapi.json"
)

// MonitorRoutes returns the routes serving the metrics, the stored samples and the openapi document
func MonitorRoutes(registry *prometheus.Registry, store *SampleStore, version string) ([]Route, error) {
	doc, err := OpenAPI(version)
	if err != nil {
		return nil, err
	}
	document, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal openapi document: %w", err)
	}

	return []Route{
		{
			Path:    PathMetrics,
			Method:  http.MethodGet,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}).ServeHTTP,
		},
		{
			Path:    PathSamples,
			Method:  http.MethodGet,
			Handler: handleSamples(store),
		},
		{
			Path:   PathOpenapi,
			Method: http.MethodGet,
			Handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if _, wErr := w.Write(document); wErr != nil {
					logger.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write openapi document", "error", wErr)
				}
			},
		},
	}, nil
}

var contentTypes = map[report.Format]string{
	report.FormatTable: "text/plain; charset=utf-8",
	report.FormatCSV:   "text/csv",
	report.FormatJSON:  "application/json",
	report.FormatYAML:  "application/yaml",
}

// handleSamples renders the stored samples, as json unless the format query parameter says otherwise
func handleSamples(store *SampleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		format := report.Format(r.URL.Query().Get("format"))
		if format == "" {
			format = report.FormatJSON
		}
		if err := format.Validate(); err != nil {
			log.DebugContext(ctx, "Invalid format requested", "format", format)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		if err := report.Monitor(&buf, format, store.Series()); err != nil {
			log.ErrorContext(ctx, "Failed to render samples", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.ErrorContext(ctx, "Failed to write response", "error", err)
		}
	}
}

// OpenAPI returns the openapi document of the sample endpoint
func OpenAPI(version string) (*openapi3.T, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(report.MonitorReport{}, nil)
	if err != nil {
		return nil, ErrCreateOpenapiSchema{name: "samples", err: err}
	}
	if version == "" {
		version = "dev"
	}

	samples := &openapi3.Operation{
		Summary:     "Latest interface samples",
		Description: "Returns the latest samples of the running interface monitor",
		OperationID: "getSamples",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("The samples in chronological order").
					WithJSONSchemaRef(ref),
			}),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "wirefish",
			Description: "Network interface monitor api",
			Version:     version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(PathSamples, &openapi3.PathItem{Get: samples})),
	}, nil
}
