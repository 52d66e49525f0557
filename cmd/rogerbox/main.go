package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const usage = "Usage: rogerbox [health|version|today|courses|login <email> <password>]"

func main() {
	baseURL := flag.String("server", envOr("ROGERBOX_SERVER_URL", "http://127.0.0.1:8080"), "URL du serveur (ex: http://127.0.0.1:8080)")
	token := flag.String("token", os.Getenv("ROGERBOX_TOKEN"), "Token de session (Bearer)")
	timeout := flag.Duration("timeout", 10*time.Second, "Timeout HTTP")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	client := &http.Client{Timeout: *timeout}
	api := strings.TrimRight(*baseURL, "/") + "/api/v1"

	switch args[0] {
	case "health":
		run(client, http.MethodGet, api+"/health", "", nil)
	case "version":
		run(client, http.MethodGet, api+"/version", "", nil)
	case "today":
		run(client, http.MethodGet, api+"/complements/today", *token, nil)
	case "courses":
		run(client, http.MethodGet, api+"/courses", *token, nil)
	case "login":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		body, _ := json.Marshal(map[string]string{"email": args[1], "password": args[2]})
		run(client, http.MethodPost, api+"/auth/login", "", strings.NewReader(string(body)))
	default:
		fmt.Fprintln(os.Stderr, "Commande inconnue:", args[0])
		os.Exit(2)
	}
}

func run(client *http.Client, method, url, token string, body io.Reader) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	var pretty any
	if err := json.Unmarshal(b, &pretty); err == nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(pretty)
		if resp.StatusCode >= 400 {
			os.Exit(1)
		}
		return
	}

	os.Stdout.Write(b)
	os.Stdout.Write([]byte("\n"))
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
