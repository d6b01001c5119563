package optionsapi

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/option-valuation/src/optionmodels"
	"github.com/jiaming2012/option-valuation/src/pricing"
)

const equalityThreshold = 1e-3

func setupTestRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(CorsMiddleware)

	SetupHandler(router, NewValuationService(pricing.DefaultSolverConfig()))

	return router
}

func postCalculate(t *testing.T, router *mux.Router, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/calculate", bytes.NewReader(payload))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) string {
	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))

	return body["error"]
}

func validCalculateBody() map[string]interface{} {
	return map[string]interface{}{
		"stockPrice":     100,
		"strikePrice":    100,
		"timeToMaturity": 1,
		"riskFreeRate":   0.05,
		"optionType":     "call",
		"volatility":     0.2,
	}
}

func TestHandleCalculate(t *testing.T) {
	router := setupTestRouter()

	t.Run("prices a call", func(t *testing.T) {
		recorder := postCalculate(t, router, validCalculateBody())
		assert.Equal(t, 200, recorder.Code)

		var result optionmodels.PricingResult
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))

		assert.Less(t, math.Abs(result.OptionPrice-10.4506), equalityThreshold)
		assert.Less(t, math.Abs(result.Delta-0.6368), equalityThreshold)
	})

	t.Run("prices a put", func(t *testing.T) {
		body := validCalculateBody()
		body["optionType"] = "put"

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 200, recorder.Code)

		var result optionmodels.PricingResult
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))

		assert.Less(t, math.Abs(result.OptionPrice-5.5735), equalityThreshold)
		assert.Less(t, math.Abs(result.Delta-(-0.3632)), equalityThreshold)
	})

	t.Run("defaults to the option price calculation", func(t *testing.T) {
		body := validCalculateBody()
		delete(body, "calcType")

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 200, recorder.Code)
	})

	t.Run("recovers implied volatility", func(t *testing.T) {
		body := validCalculateBody()
		delete(body, "volatility")
		body["calcType"] = "impliedVolatility"
		body["optionPrice"] = 10.4506

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 200, recorder.Code)

		var result optionmodels.ImpliedVolatilityResult
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))

		assert.Less(t, math.Abs(result.ImpliedVolatility-0.20), equalityThreshold)
		assert.Less(t, math.Abs(result.OptionPrice-10.4506), equalityThreshold)
	})

	t.Run("joins all validation errors into one message", func(t *testing.T) {
		recorder := postCalculate(t, router, map[string]interface{}{})
		assert.Equal(t, 400, recorder.Code)

		expected := `Stock Price must be a positive number. Strike Price must be a positive number. Time to Maturity must be a positive number. Risk-Free Rate is required. Option Type must be "call" or "put".`
		assert.Equal(t, expected, decodeError(t, recorder))
	})

	t.Run("rejects an unknown option type without touching the engine", func(t *testing.T) {
		body := validCalculateBody()
		body["optionType"] = "straddle"

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 400, recorder.Code)
		assert.Equal(t, `Option Type must be "call" or "put".`, decodeError(t, recorder))
	})

	t.Run("rejects a non positive stock price", func(t *testing.T) {
		body := validCalculateBody()
		body["stockPrice"] = -10

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 400, recorder.Code)
		assert.Equal(t, "Stock Price must be a positive number.", decodeError(t, recorder))
	})

	t.Run("requires volatility when pricing", func(t *testing.T) {
		body := validCalculateBody()
		delete(body, "volatility")

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 400, recorder.Code)
		assert.Equal(t, "Volatility must be a positive number.", decodeError(t, recorder))
	})

	t.Run("requires the option price when solving", func(t *testing.T) {
		body := validCalculateBody()
		delete(body, "volatility")
		body["calcType"] = "impliedVolatility"

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 400, recorder.Code)
		assert.Equal(t, "Option Price must be a positive number.", decodeError(t, recorder))
	})

	t.Run("rejects an unknown calculation type", func(t *testing.T) {
		body := validCalculateBody()
		body["calcType"] = "gamma"

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 400, recorder.Code)
		assert.Equal(t, "Invalid calculation type.", decodeError(t, recorder))
	})

	t.Run("reports a solver failure", func(t *testing.T) {
		body := validCalculateBody()
		delete(body, "volatility")
		body["strikePrice"] = 80
		body["calcType"] = "impliedVolatility"
		body["optionPrice"] = 15

		recorder := postCalculate(t, router, body)
		assert.Equal(t, 400, recorder.Code)
		assert.Equal(t, "Implied volatility calculation failed.", decodeError(t, recorder))
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/calculate", bytes.NewReader([]byte("not json")))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, 400, recorder.Code)
	})

	t.Run("rejects a GET", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/calculate", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, 404, recorder.Code)
	})
}

func TestHandleRealizedVolatility(t *testing.T) {
	router := setupTestRouter()

	t.Run("accepts query parameters", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/volatility/realized?closes=100&closes=101&closes=100&closes=102", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, 200, recorder.Code)

		var response RealizedVolatilityResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

		assert.Less(t, math.Abs(response.RealizedVolatility-0.1965), equalityThreshold)
		assert.Equal(t, 4, response.Samples)
		assert.Equal(t, optionmodels.DefaultPeriodsPerYear, response.PeriodsPerYear)
	})

	t.Run("accepts a json body", func(t *testing.T) {
		payload, err := json.Marshal(map[string]interface{}{
			"closes":         []float64{100, 101, 100, 102},
			"periodsPerYear": 12,
		})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/volatility/realized", bytes.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, 200, recorder.Code)

		var response RealizedVolatilityResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

		assert.Equal(t, 12, response.PeriodsPerYear)
	})

	t.Run("rejects a single close", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/volatility/realized?closes=100", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, 400, recorder.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "validation", body["type"])
	})
}

func TestHandleHealth(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest("GET", "/healthz", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, 200, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestCorsMiddleware(t *testing.T) {
	router := setupTestRouter()

	t.Run("answers preflight requests", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/calculate", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, 204, recorder.Code)
		assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("tags regular responses", func(t *testing.T) {
		recorder := postCalculate(t, router, validCalculateBody())

		assert.Equal(t, 200, recorder.Code)
		assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}
