package optionsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
	"github.com/jiaming2012/option-valuation/src/pricing"
)

var service *ValuationService

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

// setCalculateError writes the flat {"error": ...} body the calculate
// endpoint has always used. Existing clients parse this shape, so it
// stays separate from the typed errorResponse above.
func setCalculateError(message string, statusCode int, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("setCalculateError: encode: %w", err)
	}

	return nil
}

func handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(404)
		return
	}

	var req optionmodels.CalculateOptionRequest
	if err := req.ParseHTTPRequest(r); err != nil {
		setCalculateError(fmt.Sprintf("Invalid input: %v", err), 400, w)
		return
	}

	req.SetRequestID(uuid.New())

	logger := log.WithContext(r.Context()).WithFields(log.Fields{
		"requestID": req.GetRequestID(),
	})

	if err := req.Validate(r); err != nil {
		logger.Infof("handleCalculate: validation failed: %v", err)
		setCalculateError(err.Error(), 400, w)
		return
	}

	switch req.CalcType {
	case optionmodels.CalculationTypeOptionPrice:
		result, err := service.Price(r.Context(), req.OptionInputs())
		if err != nil {
			logger.Errorf("handleCalculate: %v", err)
			setCalculateError("Error in Black-Scholes calculation.", 400, w)
			return
		}

		if err := setResponse(result, w); err != nil {
			logger.Errorf("handleCalculate: failed to set response: %v", err)
		}

	case optionmodels.CalculationTypeImpliedVolatility:
		result, err := service.ImpliedVolatility(r.Context(), req.OptionInputs(), *req.OptionPrice)
		if err != nil {
			logger.Errorf("handleCalculate: %v", err)

			if errors.Is(err, pricing.ErrNotConverged) {
				setCalculateError("Implied volatility calculation failed.", 400, w)
			} else {
				setCalculateError("Error in Black-Scholes calculation.", 400, w)
			}
			return
		}

		if err := setResponse(result, w); err != nil {
			logger.Errorf("handleCalculate: failed to set response: %v", err)
		}
	}
}

type RealizedVolatilityResponse struct {
	RealizedVolatility float64 `json:"realizedVolatility"`
	Samples            int     `json:"samples"`
	PeriodsPerYear     int     `json:"periodsPerYear"`
}

func handleRealizedVolatility(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" && r.Method != "POST" {
		w.WriteHeader(404)
		return
	}

	var req optionmodels.RealizedVolatilityRequest
	if err := req.ParseHTTPRequest(r); err != nil {
		setErrorResponse("parser", 400, err, w)
		return
	}

	req.SetRequestID(uuid.New())

	logger := log.WithContext(r.Context()).WithFields(log.Fields{
		"requestID": req.GetRequestID(),
	})

	if err := req.Validate(r); err != nil {
		logger.Infof("handleRealizedVolatility: validation failed: %v", err)
		setErrorResponse("validation", 400, err, w)
		return
	}

	vol, err := service.RealizedVolatility(r.Context(), req.Closes, req.Periods())
	if err != nil {
		logger.Errorf("handleRealizedVolatility: %v", err)
		setErrorResponse("realizedVolatility", 400, err, w)
		return
	}

	response := RealizedVolatilityResponse{
		RealizedVolatility: vol,
		Samples:            len(req.Closes),
		PeriodsPerYear:     req.Periods(),
	}

	if err := setResponse(response, w); err != nil {
		logger.Errorf("handleRealizedVolatility: failed to set response: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
	}

	if err := setResponse(response, w); err != nil {
		log.Errorf("handleHealth: failed to set response: %v", err)
	}
}

func SetupHandler(router *mux.Router, svc *ValuationService) {
	service = svc

	// handleFunc is a replacement for mux.HandleFunc
	// which enriches the handler's HTTP instrumentation with the pattern as the http.route.
	handleFunc := func(pattern string, handlerFunc func(http.ResponseWriter, *http.Request)) {
		// Configure the "http.route" for the HTTP instrumentation.
		handler := otelhttp.WithRouteTag(pattern, http.HandlerFunc(handlerFunc))
		router.Handle(pattern, handler)
	}

	handleFunc("/calculate", handleCalculate)
	handleFunc("/healthz", handleHealth)
	handleFunc("/volatility/realized", handleRealizedVolatility)
}
