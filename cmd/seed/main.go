// Command seed loads demo users, jobs and an invoice through the API so a
// fresh instance has something on the board.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID       string `json:"id"`
		FullName string `json:"full_name"`
	} `json:"user"`
}

var authToken string

func authorizedPost(url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func register(apiURL, username, password, role, fullName string) (string, string, error) {
	payload, _ := json.Marshal(map[string]string{
		"username":  username,
		"password":  password,
		"role":      role,
		"full_name": fullName,
	})

	resp, err := authorizedPost(apiURL+"/auth/register", payload)
	if err != nil {
		return "", "", fmt.Errorf("register %s: %w", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		// Already seeded; log in instead.
		payload, _ = json.Marshal(map[string]string{"username": username, "password": password})
		resp2, err := authorizedPost(apiURL+"/auth/login", payload)
		if err != nil {
			return "", "", err
		}
		defer resp2.Body.Close()
		resp = resp2
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("register %s failed with status: %d", username, resp.StatusCode)
	}

	var result tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("failed to decode response: %w", err)
	}

	log.WithFields(log.Fields{
		"username": username,
		"role":     role,
	}).Info("Registered user")

	return result.AccessToken, result.User.ID, nil
}

func createJob(apiURL, mechanicID string) (string, error) {
	brands := []string{"BMW", "Audi", "Skoda", "Hyundai", "Mahindra"}
	carModels := []string{"320d", "A4", "Octavia", "i20 N Line", "XUV700"}
	customers := []string{"Arun Kumar", "Priya Venkatesh", "Rahul Srinivasan", "Deepa Iyer"}

	i := rand.Intn(len(brands))
	now := time.Now().UTC()
	kms := 20000 + rand.Intn(80000)

	job := map[string]interface{}{
		"customer_name":        customers[rand.Intn(len(customers))],
		"contact_number":       fmt.Sprintf("+91 98%08d", rand.Intn(100000000)),
		"car_brand":            brands[i],
		"car_model":            carModels[i],
		"year":                 2018 + rand.Intn(7),
		"registration_number":  fmt.Sprintf("TN %02d AB %04d", rand.Intn(99), rand.Intn(9999)),
		"vin":                  fmt.Sprintf("WBA%014d", rand.Int63n(1e14)),
		"kms":                  kms,
		"entry_date":           now.Format(time.RFC3339),
		"estimated_delivery":   now.Add(72 * time.Hour).Format(time.RFC3339),
		"work_description":     "Stage 1 ECU remap with dyno verification",
		"assigned_mechanic_id": mechanicID,
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	resp, err := authorizedPost(apiURL+"/jobs", data)
	if err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("job creation failed with status: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	jobID, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid job ID in response")
	}

	log.WithFields(log.Fields{
		"job_id":   jobID,
		"customer": job["customer_name"],
		"car":      fmt.Sprintf("%s %s", job["car_brand"], job["car_model"]),
	}).Info("Created job")

	return jobID, nil
}

func createInvoice(apiURL, jobID string) error {
	invoice := map[string]interface{}{
		"job_id":         jobID,
		"labour_charges": 1000.0,
		"parts": []map[string]interface{}{
			{"part_name": "Filter", "part_charges": 200.0},
		},
		"tuning_charges": 1500.0,
		"others_charges": 0.0,
		"gst_rate":       18.0,
	}

	data, err := json.Marshal(invoice)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice: %w", err)
	}

	resp, err := authorizedPost(apiURL+"/invoices", data)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invoice creation failed with status: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	log.WithFields(log.Fields{
		"invoice_number": result["invoice_number"],
		"grand_total":    result["grand_total"],
	}).Info("Created invoice")

	return nil
}

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	managerToken, _, err := register(apiURL, "manager", "changeme123", "Manager", "Workshop Manager")
	if err != nil {
		log.Fatalf("Failed to seed manager: %v", err)
	}

	authToken = managerToken
	_, mechanicID, err := register(apiURL, "mechanic", "changeme123", "Mechanic", "Suresh Raj")
	if err != nil {
		log.Fatalf("Failed to seed mechanic: %v", err)
	}

	authToken = managerToken
	for i := 0; i < 3; i++ {
		jobID, err := createJob(apiURL, mechanicID)
		if err != nil {
			log.Fatalf("Failed to seed job: %v", err)
		}
		if i == 0 {
			if err := createInvoice(apiURL, jobID); err != nil {
				log.Fatalf("Failed to seed invoice: %v", err)
			}
		}
	}

	log.Info("Seeding complete")
}
