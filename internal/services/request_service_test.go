package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

func newService() *RequestService {
	s := NewRequestService(valuation.ReferenceSimulation(), 5_000_000)
	s.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseFuturesRequest(t *testing.T) {
	m, err := newService().ParseFuturesRequest(post(`{"spot":1.2,"risk_free_rate":0.02,"storage_cost":0.01,"maturity":0.5}`))
	require.NoError(t, err)
	assert.Equal(t, 1.2, m.Spot)
	assert.Equal(t, 0.01, m.StorageCost)
	assert.Equal(t, 0.5, m.Maturity)
}

func TestParseFuturesRequestMaturityDate(t *testing.T) {
	m, err := newService().ParseFuturesRequest(post(`{"spot":1.2,"maturity_date":"2026-07-01"}`))
	require.NoError(t, err)
	assert.InDelta(t, 181.0/365.0, m.Maturity, 1e-12)
}

func TestParseFuturesRequestRejects(t *testing.T) {
	s := newService()
	bad := []string{
		`{"spot":0,"maturity":0.5}`,
		`{"spot":1.2}`,
		`{"spot":1.2,"maturity":0.5,"unknown":1}`,
		`not json`,
	}
	for _, body := range bad {
		_, err := s.ParseFuturesRequest(post(body))
		assert.Error(t, err, body)
	}

	_, err := s.ParseFuturesRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}

func TestParseOptionRequest(t *testing.T) {
	c, err := newService().ParseOptionRequest(post(`{"spot":1.2,"strike":1.25,"risk_free_rate":0.02,"volatility":0.25,"maturity":0.5,"option_type":"PUT"}`))
	require.NoError(t, err)
	assert.Equal(t, byte('P'), c.OptionType)
	assert.Equal(t, valuation.DefaultSymbol, c.Symbol)
	assert.Equal(t, 1.25, c.StrikePrice)

	c, err = newService().ParseOptionRequest(post(`{"symbol":"KCH7","spot":1.2,"strike":1.25,"volatility":0.25,"maturity":0.5}`))
	require.NoError(t, err)
	assert.Equal(t, byte('C'), c.OptionType)
	assert.Equal(t, "KCH7", c.Symbol)
}

func TestParseOptionRequestRejects(t *testing.T) {
	s := newService()
	bad := []string{
		`{"spot":1.2,"strike":1.25,"volatility":0,"maturity":0.5}`,
		`{"spot":1.2,"strike":0,"volatility":0.25,"maturity":0.5}`,
		`{"spot":1.2,"strike":1.25,"volatility":0.25,"maturity":0.5,"option_type":"straddle"}`,
		`{"spot":1.2,"strike":1.25,"volatility":0.25,"maturity_date":"2025-06-01"}`,
	}
	for _, body := range bad {
		_, err := s.ParseOptionRequest(post(body))
		assert.Error(t, err, body)
	}
}

func TestParseSimulationRequestDefaults(t *testing.T) {
	m, sim, err := newService().ParseSimulationRequest(post(`{"spot":1.2,"risk_free_rate":0.02,"volatility":0.25,"maturity":0.5}`))
	require.NoError(t, err)
	assert.Equal(t, valuation.ReferenceSimulation(), sim)
	assert.Equal(t, 0.25, m.Volatility)
}

func TestParseSimulationRequestOverrides(t *testing.T) {
	_, sim, err := newService().ParseSimulationRequest(post(`{"spot":1.2,"volatility":0.25,"maturity":0.5,"steps":12,"simulations":100,"seed":0}`))
	require.NoError(t, err)
	assert.Equal(t, 12, sim.Steps)
	assert.Equal(t, 100, sim.Simulations)
	assert.Equal(t, uint64(0), sim.Seed)
}

func TestParseSimulationRequestCellLimit(t *testing.T) {
	_, _, err := newService().ParseSimulationRequest(post(`{"spot":1.2,"volatility":0.25,"maturity":0.5,"steps":1000,"simulations":10000}`))
	assert.Error(t, err)

	_, _, err = newService().ParseSimulationRequest(post(`{"spot":1.2,"volatility":0.25,"maturity":0.5,"steps":-5}`))
	assert.Error(t, err)
}
