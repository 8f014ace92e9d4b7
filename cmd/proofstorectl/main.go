// Copyright 2025 Certen Protocol
//
// proofstorectl is a thin HTTP client for the proof store REST API,
// grounded on the validator's flag-based CLI entrypoints (main.go's
// flag.String/flag.Bool/flag.Parse, cmd/bls-zk-setup's single-purpose
// main). No CLI framework: flag.NewFlagSet per subcommand, matching how
// the teacher never reaches for cobra.

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "submit":
		runSubmit(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "delete":
		runDelete(os.Args[2:])
	case "stats":
		runStats(os.Args[2:])
	case "cache-clear":
		runCacheClear(os.Args[2:])
	case "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("proofstorectl - command-line client for the proof store")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  proofstorectl submit -type <proof_type> -data <json> [-server addr]")
	fmt.Println("  proofstorectl get -id <id> [-server addr]")
	fmt.Println("  proofstorectl list [-type <proof_type>] [-status <status>] [-limit n] [-offset n] [-server addr]")
	fmt.Println("  proofstorectl verify -id <id> [-server addr]")
	fmt.Println("  proofstorectl delete -id <id> [-server addr]")
	fmt.Println("  proofstorectl stats [-server addr]")
	fmt.Println("  proofstorectl cache-clear [-server addr]")
}

func newClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

func runSubmit(args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	server := fs.String("server", defaultServerAddr, "proof store base URL")
	proofType := fs.String("type", "", "proof type (schnorr, equality, membership, non_membership, range, hash_opening, knowledge)")
	data := fs.String("data", "", "proof data as raw JSON")
	submitter := fs.String("submitter", "", "optional submitter tag")
	fs.Parse(args)

	if *proofType == "" || *data == "" {
		fmt.Fprintln(os.Stderr, "submit requires -type and -data")
		os.Exit(1)
	}

	body := map[string]interface{}{
		"proof_type": *proofType,
		"proof_data": json.RawMessage(*data),
	}
	if *submitter != "" {
		body["metadata"] = map[string]interface{}{"submitter": *submitter}
	}

	postJSON(*server+"/api/v1/proofs", body)
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	server := fs.String("server", defaultServerAddr, "proof store base URL")
	id := fs.String("id", "", "proof id")
	includeBytes := fs.Bool("include-bytes", false, "include raw proof bytes in the response")
	fs.Parse(args)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "get requires -id")
		os.Exit(1)
	}

	url := *server + "/api/v1/proofs/" + *id
	if *includeBytes {
		url += "?include_bytes=true"
	}
	getJSON(url)
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	server := fs.String("server", defaultServerAddr, "proof store base URL")
	proofType := fs.String("type", "", "filter by proof type")
	status := fs.String("status", "", "filter by status")
	limit := fs.Int("limit", -1, "maximum results")
	offset := fs.Int("offset", 0, "results to skip")
	fs.Parse(args)

	var q []string
	if *proofType != "" {
		q = append(q, "proof_type="+*proofType)
	}
	if *status != "" {
		q = append(q, "status="+*status)
	}
	if *limit >= 0 {
		q = append(q, fmt.Sprintf("limit=%d", *limit))
	}
	if *offset > 0 {
		q = append(q, fmt.Sprintf("offset=%d", *offset))
	}

	url := *server + "/api/v1/proofs"
	if len(q) > 0 {
		url += "?" + strings.Join(q, "&")
	}
	getJSON(url)
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	server := fs.String("server", defaultServerAddr, "proof store base URL")
	id := fs.String("id", "", "proof id")
	fs.Parse(args)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "verify requires -id")
		os.Exit(1)
	}
	postJSON(*server+"/api/v1/proofs/"+*id+"/verify", nil)
}

func runDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	server := fs.String("server", defaultServerAddr, "proof store base URL")
	id := fs.String("id", "", "proof id")
	fs.Parse(args)

	if *id == "" {
		fmt.Fprintln(os.Stderr, "delete requires -id")
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodDelete, *server+"/api/v1/proofs/"+*id, nil)
	if err != nil {
		fatalf("failed to build request: %v", err)
	}
	do(req)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	server := fs.String("server", defaultServerAddr, "proof store base URL")
	fs.Parse(args)
	getJSON(*server + "/api/v1/stats")
}

func runCacheClear(args []string) {
	fs := flag.NewFlagSet("cache-clear", flag.ExitOnError)
	server := fs.String("server", defaultServerAddr, "proof store base URL")
	fs.Parse(args)
	postJSON(*server+"/api/v1/cache/clear", nil)
}

func getJSON(url string) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		fatalf("failed to build request: %v", err)
	}
	do(req)
}

func postJSON(url string, body interface{}) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	do(req)
}

func do(req *http.Request) {
	resp, err := newClient().Do(req)
	if err != nil {
		fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		fatalf("failed to read response: %v", err)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, out, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(out))
	}

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
