package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/DaFrankort/nodejs-measurements/pkg/utils"
)

const baseURL = "http://localhost:8080"

func main() {
	client := &http.Client{Timeout: 5 * time.Second}

	// Тест 1: одиночное показание
	fmt.Println("=== Test 1: Create single measurement ===")
	testCreateSingle(client)

	// Тест 2: пачка показаний
	fmt.Println("\n=== Test 2: Create measurement batch ===")
	testCreateBatch(client)

	// Тест 3: выборка с фильтром и пагинацией
	fmt.Println("\n=== Test 3: List measurements ===")
	testList(client)

	// Тест 4: статистика
	fmt.Println("\n=== Test 4: Measurement stats ===")
	testStats(client)

	// Тест 5: ошибки валидации
	fmt.Println("\n=== Test 5: Validation errors ===")
	testValidationErrors(client)
}

func post(client *http.Client, body any) (int, string) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("Failed to marshal payload: %v", err)
	}

	resp, err := client.Post(baseURL+"/measurements", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func get(client *http.Client, path string) (int, string) {
	resp, err := client.Get(baseURL + path)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func testCreateSingle(client *http.Client) {
	status, body := post(client, utils.RandomMeasurement())
	fmt.Printf("Status: %d\nBody: %s\n", status, body)
}

func testCreateBatch(client *http.Client) {
	status, body := post(client, utils.RandomMeasurements(5))
	fmt.Printf("Status: %d\nBody: %s\n", status, body)
}

func testList(client *http.Client) {
	startDate := time.Now().Add(-24 * time.Hour).UTC().Format("2006-01-02T15:04:05Z07:00")

	status, body := get(client, "/measurements?startDate="+startDate+"&page=1&limit=10")
	fmt.Printf("Status: %d\nBody: %s\n", status, body)
}

func testStats(client *http.Client) {
	status, body := get(client, "/measurements/stats?type=production")
	fmt.Printf("Status: %d\nBody: %s\n", status, body)
}

func testValidationErrors(client *http.Client) {
	fmt.Println("Testing negative value...")
	m := utils.RandomMeasurement()
	m.Value = -1
	status, body := post(client, m)
	fmt.Printf("Status: %d\nBody: %s\n", status, body)

	fmt.Println("Testing bad limit...")
	status, body = get(client, "/measurements?limit=150")
	fmt.Printf("Status: %d\nBody: %s\n", status, body)
}
