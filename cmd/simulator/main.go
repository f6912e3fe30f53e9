package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Port is a fishing harbour trips start from and return to.
type Port struct {
	Name     string
	Location Location
}

// Fishing harbours around Sri Lanka
var ports = []Port{
	{"Negombo", Location{Lat: 7.2008, Lon: 79.8358}},
	{"Beruwala", Location{Lat: 6.4788, Lon: 79.9828}},
	{"Galle", Location{Lat: 6.0329, Lon: 80.2168}},
	{"Mirissa", Location{Lat: 5.9483, Lon: 80.4716}},
	{"Tangalle", Location{Lat: 6.0243, Lon: 80.7941}},
	{"Trincomalee", Location{Lat: 8.5874, Lon: 81.2152}},
	{"Batticaloa", Location{Lat: 7.7310, Lon: 81.6747}},
	{"Jaffna", Location{Lat: 9.6615, Lon: 80.0255}},
	{"Chilaw", Location{Lat: 7.5758, Lon: 79.7953}},
}

type fuelEstimate struct {
	DistanceKm                 float64 `json:"distance_km"`
	EstimatedTripDurationHours float64 `json:"estimated_trip_duration_hours"`
	FuelConsumptionLiters      float64 `json:"fuel_consumption_liters"`
	FuelCostUSD                float64 `json:"fuel_cost_usd"`
}

type maintenanceSummary struct {
	OverallStatus string `json:"overall_status"`
	Systems       []struct {
		SystemName     string `json:"system_name"`
		Status         string `json:"status"`
		SummaryMessage string `json:"summary_message"`
	} `json:"systems"`
}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

// fishingGround picks a spot offshore of the port, up to maxKm away.
func fishingGround(port Port, maxKm float64) Location {
	return jitterLocation(port.Location, (0.2+0.8*rand.Float64())*maxKm*1000)
}

// client talks to the vessel API on behalf of one simulated owner.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(baseURL, token string) *client {
	return &client{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *client) do(method, path string, body, out any, want ...int) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if !accepted(resp.StatusCode, want) {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func accepted(code int, want []int) bool {
	if len(want) == 0 {
		return code == http.StatusOK
	}
	for _, w := range want {
		if code == w {
			return true
		}
	}
	return false
}

// authenticate logs in, registering the account first when it does not exist yet.
func (c *client) authenticate(email, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	creds := map[string]string{"email": email, "password": password}
	err := c.do(http.MethodPost, "/auth/login", creds, &resp)
	if err != nil {
		log.WithError(err).Info("Login failed, registering simulator account")
		register := map[string]string{"email": email, "password": password, "name": "Trip Simulator", "role": "owner"}
		if err := c.do(http.MethodPost, "/auth/register", register, &resp, http.StatusCreated); err != nil {
			return err
		}
	}
	c.token = resp.Token
	return nil
}

func (c *client) createVessel(name, specID string) (string, error) {
	var vessel struct {
		ID string `json:"id"`
	}
	req := map[string]string{"name": name, "type": "One-Day Boat", "fuel_spec_id": specID}
	if err := c.do(http.MethodPost, "/vessels", req, &vessel, http.StatusCreated); err != nil {
		return "", err
	}
	if vessel.ID == "" {
		return "", fmt.Errorf("invalid vessel ID in response")
	}
	log.WithFields(log.Fields{"vessel_id": vessel.ID, "name": name, "fuel_spec_id": specID}).Info("Created vessel")
	return vessel.ID, nil
}

func (c *client) seedRules() error {
	var resp struct {
		Seeded bool `json:"seeded"`
		Count  int  `json:"count"`
	}
	if err := c.do(http.MethodPost, "/maintenance/rules/seed", nil, &resp, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}
	log.WithFields(log.Fields{"seeded": resp.Seeded, "rules": resp.Count}).Info("Maintenance rules ready")
	return nil
}

func (c *client) estimate(from, to Location, specID string) (*fuelEstimate, error) {
	req := map[string]any{
		"start_lat": from.Lat, "start_lon": from.Lon,
		"end_lat": to.Lat, "end_lon": to.Lon,
		"vessel_id": specID,
	}
	var est fuelEstimate
	if err := c.do(http.MethodPost, "/fuel/estimate", req, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// tripHours is the round trip duration plus time spent fishing on the ground.
func tripHours(est *fuelEstimate, fishing float64) float64 {
	return math.Round((2*est.EstimatedTripDurationHours+fishing)*10) / 10
}

func (c *client) completeTrip(vesselID string, hours float64, date time.Time) error {
	req := map[string]any{"trip_duration_hours": hours, "trip_date": date.Format("2006-01-02")}
	return c.do(http.MethodPost, "/vessels/"+vesselID+"/complete-trip", req, nil)
}

func (c *client) summary(vesselID string) (*maintenanceSummary, error) {
	var s maintenanceSummary
	if err := c.do(http.MethodGet, "/vessels/"+vesselID+"/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// simulateTrip runs one trip from port and reports the resulting maintenance status.
func simulateTrip(c *client, vesselID, specID string, port Port, date time.Time) error {
	ground := fishingGround(port, 40)
	est, err := c.estimate(port.Location, ground, specID)
	if err != nil {
		return err
	}
	hours := tripHours(est, 4+rand.Float64()*6)
	if err := c.completeTrip(vesselID, hours, date); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"vessel_id":   vesselID,
		"port":        port.Name,
		"distance_km": est.DistanceKm,
		"hours":       hours,
		"fuel_liters": 2 * est.FuelConsumptionLiters,
	}).Info("Completed trip")

	s, err := c.summary(vesselID)
	if err != nil {
		return err
	}
	entry := log.WithFields(log.Fields{"vessel_id": vesselID, "overall_status": s.OverallStatus})
	for _, sys := range s.Systems {
		if sys.Status != "operational" {
			entry.WithFields(log.Fields{"system": sys.SystemName, "status": sys.Status}).Warn(sys.SummaryMessage)
		}
	}
	entry.Info("Maintenance summary")
	return nil
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			return n
		}
	}
	return fallback
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}
	trips := envInt("SIM_TRIPS", 20)
	interval := time.Duration(envInt("SIM_TICK_SECONDS", 2)) * time.Second
	specID := os.Getenv("SIM_FUEL_SPEC")
	if specID == "" {
		specID = "IDAY-001"
	}

	c := newClient(apiURL, os.Getenv("SIM_AUTH_TOKEN"))
	if c.token == "" {
		email := os.Getenv("SIM_EMAIL")
		if email == "" {
			email = "simulator@example.com"
		}
		password := os.Getenv("SIM_PASSWORD")
		if password == "" {
			password = "simulator-pass-1"
		}
		if err := c.authenticate(email, password); err != nil {
			log.WithError(err).Fatal("Failed to authenticate simulator")
		}
	}

	log.WithFields(log.Fields{"api_url": apiURL, "trips": trips, "interval": interval}).Info("Starting trip simulation")

	port := ports[rand.Intn(len(ports))]
	vesselID, err := c.createVessel(fmt.Sprintf("%s Runner %d", port.Name, rand.Intn(100)), specID)
	if err != nil {
		log.WithError(err).Fatal("Failed to create vessel")
	}
	if err := c.seedRules(); err != nil {
		log.WithError(err).Fatal("Failed to seed maintenance rules")
	}

	// one simulated day per tick
	date := time.Now().UTC().AddDate(0, 0, -trips)
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for i := 0; i < trips; i++ {
		if err := simulateTrip(c, vesselID, specID, port, date); err != nil {
			log.WithError(err).Error("Trip failed")
		}
		date = date.AddDate(0, 0, 1)
		<-tick.C
	}
	log.Info("Trip simulation finished")
}
